package engine

import (
	"context"
	"log"

	"github.com/char5742/mxremap/internal/action"
	"github.com/char5742/mxremap/internal/config"
	"github.com/char5742/mxremap/internal/event"
)

// Gesture は主ボタンの押下・移動・解放からクリックかジェスチャーかを判定する。
// 1回の押下につき実行されるアクションはクリックかジェスチャーのどちらか一方のみ
type Gesture struct {
	pointer    *Pointer
	dispatcher *action.Dispatcher

	pressed    bool
	fired      bool
	accX, accY int32

	savedX, savedY int
	saved          bool
}

// NewGesture は Gesture を作成する
func NewGesture(pointer *Pointer, dispatcher *action.Dispatcher) *Gesture {
	return &Gesture{pointer: pointer, dispatcher: dispatcher}
}

// Tracking は主ボタンが押されているかどうか
func (g *Gesture) Tracking() bool {
	return g.pressed
}

// Press は Idle → Tracking の遷移。押下中の再押下は無視する
func (g *Gesture) Press() {
	if g.pressed {
		return
	}
	g.pressed = true
	g.fired = false
	g.accX, g.accY = 0, 0
	g.savedX, g.savedY, g.saved = g.pointer.CursorPosition()
	log.Printf("[Button 1] 押下 (カーソル: %d, %d)", g.savedX, g.savedY)
	g.pointer.Detach()
}

// Move は追跡中の移動量を積算し、閾値を超えたら一度だけジェスチャーを発火する
func (g *Gesture) Move(ctx context.Context, cfg *config.Config, axis event.Axis, delta int32) {
	if !g.pressed || g.fired {
		return
	}
	switch axis {
	case event.AxisX:
		g.accX += delta
	case event.AxisY:
		g.accY += delta
	default:
		return
	}

	if max(abs(g.accX), abs(g.accY)) <= cfg.Gesture.Threshold {
		return
	}

	dir := Direction(g.accX, g.accY)
	g.fired = true

	if !cfg.GesturesEnabled() {
		log.Printf("[Button 1] ジェスチャー検出: %s (ジェスチャー無効)", dir)
		return
	}
	spec := cfg.GestureAction(dir)
	if spec.IsEmpty() {
		log.Printf("[Button 1] ジェスチャー検出: %s (アクション未設定)", dir)
		return
	}
	log.Printf("[Button 1] ジェスチャー検出: %s -> %s", dir, spec)
	g.dispatcher.Dispatch(ctx, spec)
}

// Release は Tracking → Idle の遷移。ジェスチャーが発火していなければクリックを実行する
func (g *Gesture) Release(ctx context.Context, cfg *config.Config) {
	if !g.pressed {
		return
	}
	g.pressed = false

	if !g.fired {
		if spec := cfg.Action(event.Button1); !spec.IsEmpty() {
			log.Printf("[Button 1] クリック -> %s", spec)
			g.dispatcher.Dispatch(ctx, spec)
		}
	} else {
		log.Println("[Button 1] ジェスチャー検出済みのためクリックは実行しません")
	}
	g.restore()
}

// Reset は押下中であればアクションを実行せずに Idle に戻す
func (g *Gesture) Reset() {
	if !g.pressed {
		return
	}
	g.pressed = false
	g.restore()
}

func (g *Gesture) restore() {
	g.pointer.Reattach()
	if g.saved {
		g.pointer.SetCursorPosition(g.savedX, g.savedY)
	}
}

// Direction は積算移動量からジェスチャーの方向を決める。
// |x| == |y| の場合は縦方向になる
func Direction(accX, accY int32) config.Direction {
	if abs(accX) > abs(accY) {
		if accX > 0 {
			return config.Right
		}
		return config.Left
	}
	if accY > 0 {
		return config.Down
	}
	return config.Up
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
