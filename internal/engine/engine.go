package engine

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/char5742/mxremap/internal/action"
	"github.com/char5742/mxremap/internal/config"
	"github.com/char5742/mxremap/internal/event"
)

// Options は Engine の依存関係
type Options struct {
	Source EventSource
	Config config.Source
	Runner action.Runner
	// Control が nil の場合、カーソル固定とボタンマップ変更は行わない
	Control DeviceControl
	Cursor  CursorControl
}

// Engine はデバイスのイベントを読み取り、各ハンドラに振り分ける。
// 状態はすべて Run を実行するゴルーチンだけが変更する
type Engine struct {
	source      EventSource
	config      config.Source
	dispatcher  *action.Dispatcher
	pointer     *Pointer
	gesture     *Gesture
	wheel       *Wheel
	buttons     *ButtonMapper
	reconfigure chan struct{}
}

// New は Engine を作成する。デバイスへの操作は Run が開始するまで行わない
func New(opts Options) *Engine {
	dispatcher := action.NewDispatcher(opts.Runner)
	pointer := NewPointer(opts.Control, opts.Cursor)

	e := &Engine{
		source:      opts.Source,
		config:      opts.Config,
		dispatcher:  dispatcher,
		pointer:     pointer,
		gesture:     NewGesture(pointer, dispatcher),
		wheel:       NewWheel(dispatcher),
		buttons:     NewButtonMapper(opts.Control),
		reconfigure: make(chan struct{}, 1),
	}
	return e
}

// Reconfigure は設定変更を通知する。ボタンマップの再計算は Run のゴルーチンで行われる
func (e *Engine) Reconfigure() {
	select {
	case e.reconfigure <- struct{}{}:
	default:
		// 既に通知済み
	}
}

// Run は元のボタンマップを取得して設定に応じたマップを適用し、イベントループを実行する。
// ctx がキャンセルされるかデバイスが切断されるまで戻らない。終了時にはデバイスの再接続とボタンマップの復元を試みる
func (e *Engine) Run(ctx context.Context) error {
	defer e.shutdown()

	// デバイス操作はすべてこのゴルーチンで行う
	if e.buttons.Capture() {
		e.buttons.Apply(e.config.Current())
	} else {
		log.Println("WARNING: ボタンマップを取得できないため、ネイティブクリックは変更されません")
	}

	log.Println("イベントループを開始しました")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.reconfigure:
			log.Println("設定変更を反映します")
			e.buttons.Apply(e.config.Current())
		default:
		}

		interval := e.config.Current().Engine.PollInterval.Duration
		events, err := e.source.ReadEvents(interval)
		if err != nil {
			if errors.Is(err, event.ErrDeviceGone) {
				return err
			}
			log.Printf("イベントの読み取りに失敗しました: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(interval):
			}
			continue
		}

		for _, ev := range events {
			if ctx.Err() != nil {
				return nil
			}
			e.handle(ctx, e.config.Current(), ev)
		}
	}
}

// handle は1イベントを処理する。ここでのエラーやパニックがループを止めることはない
func (e *Engine) handle(ctx context.Context, cfg *config.Config, raw event.Raw) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("イベント処理中にパニックが発生しました: %v", r)
		}
	}()

	switch ev := raw.(type) {
	case event.KeyEvent:
		e.handleKey(ctx, cfg, ev)
	case event.MotionEvent:
		switch {
		case ev.IsWheel():
			e.wheel.HandleDelta(ctx, cfg, ev.Value, ev.Axis == event.AxisHWheelHiRes)
		case e.gesture.Tracking():
			e.gesture.Move(ctx, cfg, ev.Axis, ev.Value)
		}
	}
}

func (e *Engine) handleKey(ctx context.Context, cfg *config.Config, ev event.KeyEvent) {
	button, ok := event.Classify(ev.Code)
	if !ok {
		return
	}

	switch {
	case button == event.Button1:
		if ev.Pressed {
			e.gesture.Press()
		} else {
			e.gesture.Release(ctx, cfg)
		}
	case button.Clickable():
		if !ev.Pressed {
			return
		}
		if spec := cfg.Action(button); !spec.IsEmpty() {
			log.Printf("[%s] -> %s", button, spec)
			e.dispatcher.Dispatch(ctx, spec)
		}
	}
}

func (e *Engine) shutdown() {
	e.gesture.Reset()
	e.pointer.Shutdown()
	e.buttons.Restore()
	log.Println("イベントループを停止しました")
}
