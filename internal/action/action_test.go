package action

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Spec
	}{
		{"", Spec{}},
		{"   ", Spec{}},
		{"No Action", None()},
		{"Copy", Predefined("Copy")},
		{"Command: notify-send hi", Custom("notify-send hi")},
		{"Command:ls", Custom("ls")},
		{"Command:   ", Spec{}},
	}

	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestSpecTextRoundTrip(t *testing.T) {
	for _, spec := range []Spec{{}, None(), Predefined("Volume Up"), Custom("echo a | wc")} {
		text, err := spec.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Spec
		if err := got.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if got != spec {
			t.Errorf("round trip of %#v gave %#v", spec, got)
		}
	}
}

func TestSpecIsEmpty(t *testing.T) {
	if !(Spec{}).IsEmpty() || !None().IsEmpty() {
		t.Error("Unset and None must be empty")
	}
	if Predefined("Copy").IsEmpty() || Custom("ls").IsEmpty() {
		t.Error("Predefined and Custom must not be empty")
	}
}

func TestRegistryNames(t *testing.T) {
	want := []string{
		"Back", "Close Window", "Copy", "Forward", "Left Click", "Mute",
		"Open Terminal", "Paste", "Redo", "Right Click", "Scroll Down",
		"Scroll Left", "Scroll Right", "Scroll Up", "Show Desktop", "Undo",
		"Volume Down", "Volume Up",
	}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve(t *testing.T) {
	var r Resolver

	tests := []struct {
		name string
		spec Spec
		want Command
		ok   bool
	}{
		{"unset", Spec{}, Command{}, false},
		{"none", None(), Command{}, false},
		{"custom", Custom("echo hi"), Command{Shell: true, Text: "echo hi"}, true},
		{"copy", Predefined("Copy"), Command{Args: []string{"xdotool", "key", "ctrl+c"}}, true},
		{"terminal", Predefined("Open Terminal"), Command{Args: []string{"gnome-terminal"}}, true},
		{"unknown", Predefined("Launch Rocket"), Command{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.spec)
			if ok != tt.ok {
				t.Fatalf("Resolve ok = %v, want %v", ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type recordingRunner struct {
	commands []Command
	err      error
}

func (r *recordingRunner) Run(_ context.Context, cmd Command) error {
	r.commands = append(r.commands, cmd)
	return r.err
}

func TestDispatcher(t *testing.T) {
	runner := &recordingRunner{}
	d := NewDispatcher(runner)
	ctx := context.Background()

	if d.Dispatch(ctx, Spec{}) {
		t.Error("unset spec should not dispatch")
	}
	if d.Dispatch(ctx, Predefined("Nope")) {
		t.Error("unknown predefined action should not dispatch")
	}
	if !d.Dispatch(ctx, Predefined("Mute")) {
		t.Error("Mute should dispatch")
	}
	if len(runner.commands) != 1 {
		t.Fatalf("runner called %d times, want 1", len(runner.commands))
	}

	runner.err = errors.New("boom")
	if d.Dispatch(ctx, Custom("false")) {
		t.Error("failing runner should report false")
	}
	if len(runner.commands) != 2 {
		t.Errorf("runner called %d times, want 2", len(runner.commands))
	}
}

func TestShellRunnerEmptyCommand(t *testing.T) {
	if err := (ShellRunner{}).Run(context.Background(), Command{}); err == nil {
		t.Error("expected error for empty command")
	}
}
