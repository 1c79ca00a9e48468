package engine

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/char5742/mxremap/internal/action"
	"github.com/char5742/mxremap/internal/config"
	"github.com/char5742/mxremap/internal/event"
)

type fakeControl struct {
	calls     []string
	buttonMap []int
	mapErr    error
	floatErr  error
	setErr    error
	setMaps   [][]int
}

func (f *fakeControl) Float() error {
	f.calls = append(f.calls, "float")
	return f.floatErr
}

func (f *fakeControl) Reattach() error {
	f.calls = append(f.calls, "reattach")
	return nil
}

func (f *fakeControl) ButtonMap() ([]int, error) {
	return slices.Clone(f.buttonMap), f.mapErr
}

func (f *fakeControl) SetButtonMap(m []int) error {
	f.setMaps = append(f.setMaps, slices.Clone(m))
	if f.setErr != nil {
		return f.setErr
	}
	f.buttonMap = slices.Clone(m)
	return nil
}

func (f *fakeControl) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeCursor struct {
	x, y  int
	err   error
	warps [][2]int
}

func (f *fakeCursor) Position() (int, int, error) {
	return f.x, f.y, f.err
}

func (f *fakeCursor) Warp(x, y int) error {
	f.warps = append(f.warps, [2]int{x, y})
	f.x, f.y = x, y
	return nil
}

type fakeRunner struct {
	commands []action.Command
	panics   bool
}

func (f *fakeRunner) Run(_ context.Context, cmd action.Command) error {
	if f.panics {
		panic("runner exploded")
	}
	f.commands = append(f.commands, cmd)
	return nil
}

// texts は実行されたコマンドを文字列で返す
func (f *fakeRunner) texts() []string {
	out := make([]string, len(f.commands))
	for i, c := range f.commands {
		out[i] = c.String()
	}
	return out
}

func (f *fakeRunner) countOf(text string) int {
	n := 0
	for _, c := range f.commands {
		if strings.EqualFold(c.String(), text) {
			n++
		}
	}
	return n
}

// scriptSource は呼び出しごとに steps を1つずつ実行し、尽きたら onDone を呼ぶ
type scriptSource struct {
	steps  []func() ([]event.Raw, error)
	onDone func()
	calls  int
}

func (s *scriptSource) ReadEvents(timeout time.Duration) ([]event.Raw, error) {
	s.calls++
	if len(s.steps) > 0 {
		step := s.steps[0]
		s.steps = s.steps[1:]
		return step()
	}
	if s.onDone != nil {
		s.onDone()
		s.onDone = nil
	}
	time.Sleep(timeout)
	return nil, nil
}

func batch(events ...event.Raw) func() ([]event.Raw, error) {
	return func() ([]event.Raw, error) { return events, nil }
}

func press(code uint16) event.KeyEvent   { return event.KeyEvent{Code: code, Pressed: true} }
func release(code uint16) event.KeyEvent { return event.KeyEvent{Code: code} }
func moveX(v int32) event.MotionEvent    { return event.MotionEvent{Axis: event.AxisX, Value: v} }
func moveY(v int32) event.MotionEvent    { return event.MotionEvent{Axis: event.AxisY, Value: v} }

const (
	codeButton1 = 277
	codeButton2 = 276
	codeButton3 = 275
	codeButton4 = 274
	codeButton5 = 12
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Engine.PollInterval = config.Duration{Duration: config.MinPollInterval}
	return cfg
}
