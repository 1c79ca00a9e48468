package engine

import (
	"context"
	"log"
	"math"

	"github.com/char5742/mxremap/internal/action"
	"github.com/char5742/mxremap/internal/config"
	"github.com/char5742/mxremap/internal/event"
)

// Wheel は水平ホイールの移動量を離散的なアクションに変換する
type Wheel struct {
	dispatcher *action.Dispatcher
}

// NewWheel は Wheel を作成する
func NewWheel(dispatcher *action.Dispatcher) *Wheel {
	return &Wheel{dispatcher: dispatcher}
}

// HandleDelta はホイールイベントを処理し、実行したアクション数を返す
func (w *Wheel) HandleDelta(ctx context.Context, cfg *config.Config, raw int32, hiRes bool) int {
	if hiRes {
		raw /= event.HiResUnitsPerDetent
	}
	if raw == 0 {
		return 0
	}

	direction := raw
	if cfg.Inverted() {
		direction = -raw
	}
	clicks := Clicks(direction, cfg.Sensitivity())
	cmd := wheelCommand(cfg.WheelFunction(), direction > 0)

	log.Printf("[Wheel] %s %s => clicks=%d sens=%d", cfg.WheelFunction(), cmd, clicks, cfg.Sensitivity())
	for range clicks {
		w.dispatcher.Run(ctx, cmd)
	}
	return clicks
}

// Clicks は感度を掛けた回数を返す。最低1回
func Clicks(direction int32, sensitivity int) int {
	n := math.Abs(math.Round(float64(sensitivity) / 100 * float64(direction)))
	return max(1, int(n))
}

func wheelCommand(fn config.WheelFunction, positive bool) action.Command {
	var name string
	switch fn {
	case config.VolumeControl:
		name = "Volume Down"
		if positive {
			name = "Volume Up"
		}
	case config.Zoom:
		if positive {
			return action.ZoomIn
		}
		return action.ZoomOut
	default:
		name = "Scroll Left"
		if positive {
			name = "Scroll Right"
		}
	}
	cmd, _ := action.Lookup(name)
	return cmd
}
