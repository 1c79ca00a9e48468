package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/char5742/mxremap/internal/action"
	"github.com/char5742/mxremap/internal/config"
	"github.com/char5742/mxremap/internal/event"
)

func TestDirection(t *testing.T) {
	tests := []struct {
		x, y int32
		want config.Direction
	}{
		{60, 10, config.Right},
		{-60, 10, config.Left},
		{10, 60, config.Down},
		{10, -60, config.Up},
		{50, 50, config.Down}, // 同値は縦方向
		{-50, -50, config.Up},
		{51, -51, config.Up},
	}

	for _, tt := range tests {
		if got := Direction(tt.x, tt.y); got != tt.want {
			t.Errorf("Direction(%d, %d) = %s, want %s", tt.x, tt.y, got, tt.want)
		}
	}
}

type gestureFixture struct {
	gesture *Gesture
	control *fakeControl
	cursor  *fakeCursor
	runner  *fakeRunner
	cfg     *config.Config
}

func newGestureFixture() *gestureFixture {
	f := &gestureFixture{
		control: &fakeControl{},
		cursor:  &fakeCursor{x: 300, y: 400},
		runner:  &fakeRunner{},
		cfg:     testConfig(),
	}
	f.cfg.Button1 = config.Button1Config{
		Action:          action.Predefined("Left Click"),
		GesturesEnabled: true,
		GestureUp:       action.Predefined("Show Desktop"),
		GestureDown:     action.Predefined("Close Window"),
		GestureLeft:     action.Predefined("Back"),
		GestureRight:    action.Predefined("Forward"),
	}
	f.gesture = NewGesture(NewPointer(f.control, f.cursor), action.NewDispatcher(f.runner))
	return f
}

func (f *gestureFixture) move(axis event.Axis, v int32) {
	f.gesture.Move(context.Background(), f.cfg, axis, v)
}

func (f *gestureFixture) release() {
	f.gesture.Release(context.Background(), f.cfg)
}

func TestGestureSmallMoveFiresClickOnly(t *testing.T) {
	f := newGestureFixture()

	f.gesture.Press()
	f.move(event.AxisX, 30)
	f.move(event.AxisY, -20)
	f.move(event.AxisX, 20) // 50 はまだ閾値以下
	f.release()

	want := []string{"xdotool click 1"}
	if diff := cmp.Diff(want, f.runner.texts()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestGestureFiresOnceAndSuppressesClick(t *testing.T) {
	tests := []struct {
		name  string
		moves []event.MotionEvent
		want  string
	}{
		{"right", []event.MotionEvent{moveX(30), moveX(30), moveY(10)}, "xdotool key XF86Forward"},
		{"left", []event.MotionEvent{moveX(-60)}, "xdotool key XF86Back"},
		{"down", []event.MotionEvent{moveX(10), moveY(60)}, "xdotool key ctrl+w"},
		{"up", []event.MotionEvent{moveY(-20), moveY(-40)}, "xdotool key super+d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGestureFixture()
			f.gesture.Press()
			for _, m := range tt.moves {
				f.move(m.Axis, m.Value)
			}
			// 発火後の移動は無視される
			f.move(event.AxisX, -500)
			f.move(event.AxisY, 500)
			f.release()

			if diff := cmp.Diff([]string{tt.want}, f.runner.texts()); diff != "" {
				t.Errorf("commands mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGestureUnconfiguredDirectionSuppressesClick(t *testing.T) {
	f := newGestureFixture()
	f.cfg.Button1.GestureUp = action.Spec{}

	f.gesture.Press()
	f.move(event.AxisY, -80)
	f.release()

	if len(f.runner.commands) != 0 {
		t.Errorf("expected no commands, got %v", f.runner.texts())
	}
}

func TestGestureDisabledSuppressesClickWithoutDispatch(t *testing.T) {
	tests := []struct {
		name  string
		moves []int32
		want  []string
	}{
		// 閾値を超えたら発火扱いになり、クリックもジェスチャーも実行しない
		{"drag past threshold", []int32{200}, nil},
		{"small move", []int32{20, 20}, []string{"xdotool click 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGestureFixture()
			f.cfg.Button1.GesturesEnabled = false

			f.gesture.Press()
			for _, v := range tt.moves {
				f.move(event.AxisX, v)
			}
			f.release()

			if diff := cmp.Diff(tt.want, f.runner.texts(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("commands mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGestureDefaultConfigDragSuppressesClick(t *testing.T) {
	f := newGestureFixture()
	f.cfg = testConfig()
	f.cfg.Button1.Action = action.Predefined("Left Click")

	f.gesture.Press()
	f.move(event.AxisX, 200)
	f.release()

	if len(f.runner.commands) != 0 {
		t.Errorf("expected no commands, got %v", f.runner.texts())
	}
}

func TestGestureNoClickAction(t *testing.T) {
	f := newGestureFixture()
	f.cfg.Button1.Action = action.None()

	f.gesture.Press()
	f.release()

	if len(f.runner.commands) != 0 {
		t.Errorf("expected no commands, got %v", f.runner.texts())
	}
}

func TestGestureDetachReattachPairing(t *testing.T) {
	f := newGestureFixture()

	// ジェスチャーあり
	f.gesture.Press()
	f.gesture.Press() // 押下中の再押下は無視
	if !f.gesture.pointer.Detached() {
		t.Error("device should be detached while tracking")
	}
	f.move(event.AxisX, 100)
	f.release()
	f.release() // Idle での解放は無視

	// ジェスチャーなし
	f.gesture.Press()
	f.release()

	want := []string{"float", "reattach", "float", "reattach"}
	if diff := cmp.Diff(want, f.control.calls); diff != "" {
		t.Errorf("control calls mismatch (-want +got):\n%s", diff)
	}
	if f.gesture.Tracking() {
		t.Error("gesture should be idle")
	}
	if f.gesture.pointer.Detached() {
		t.Error("device should be reattached after release")
	}
}

func TestGestureRestoresCursor(t *testing.T) {
	f := newGestureFixture()

	f.gesture.Press()
	f.cursor.x, f.cursor.y = 10, 10 // 追跡中にカーソルが動いた
	f.move(event.AxisX, 100)
	f.release()

	if diff := cmp.Diff([][2]int{{300, 400}}, f.cursor.warps); diff != "" {
		t.Errorf("warps mismatch (-want +got):\n%s", diff)
	}
}

func TestGestureCursorUnavailable(t *testing.T) {
	f := newGestureFixture()
	f.cursor.err = errors.New("no display")

	f.gesture.Press()
	f.release()

	if len(f.cursor.warps) != 0 {
		t.Errorf("cursor should not be warped to an unknown position: %v", f.cursor.warps)
	}
	if diff := cmp.Diff([]string{"float", "reattach"}, f.control.calls); diff != "" {
		t.Errorf("control calls mismatch (-want +got):\n%s", diff)
	}
}

func TestGestureDetachFailureStillTracks(t *testing.T) {
	f := newGestureFixture()
	f.control.floatErr = errors.New("xinput missing")

	f.gesture.Press()
	f.move(event.AxisX, 100)
	f.release()

	if diff := cmp.Diff([]string{"xdotool key XF86Forward"}, f.runner.texts()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	if f.control.count("reattach") != 1 {
		t.Errorf("reattach called %d times, want 1", f.control.count("reattach"))
	}
}

func TestGestureDegradedWithoutControl(t *testing.T) {
	runner := &fakeRunner{}
	g := NewGesture(NewPointer(nil, nil), action.NewDispatcher(runner))
	cfg := testConfig()
	cfg.Button1.Action = action.Predefined("Copy")

	g.Press()
	g.Move(context.Background(), cfg, event.AxisX, 10)
	g.Release(context.Background(), cfg)

	if diff := cmp.Diff([]string{"xdotool key ctrl+c"}, runner.texts()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestGestureResetDoesNotDispatch(t *testing.T) {
	f := newGestureFixture()

	f.gesture.Press()
	f.gesture.Reset()
	f.gesture.Reset()

	if len(f.runner.commands) != 0 {
		t.Errorf("Reset dispatched %v", f.runner.texts())
	}
	if diff := cmp.Diff([]string{"float", "reattach"}, f.control.calls); diff != "" {
		t.Errorf("control calls mismatch (-want +got):\n%s", diff)
	}
}

func TestGestureThresholdFromConfig(t *testing.T) {
	f := newGestureFixture()
	f.cfg.Gesture.Threshold = 200

	f.gesture.Press()
	f.move(event.AxisX, 150)
	f.release()

	if diff := cmp.Diff([]string{"xdotool click 1"}, f.runner.texts()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}
