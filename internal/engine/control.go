package engine

import (
	"time"

	"github.com/char5742/mxremap/internal/event"
)

// EventSource はデバイスのイベントストリーム。
// ReadEvents は最大 timeout だけ待ち、何も来なければ空で返る
type EventSource interface {
	ReadEvents(timeout time.Duration) ([]event.Raw, error)
}

// DeviceControl はセッション側から見たデバイス操作（xinput相当）
type DeviceControl interface {
	// Float はデバイスを論理ポインタから切り離す
	Float() error
	// Reattach は切り離したデバイスを論理ポインタに戻す
	Reattach() error
	ButtonMap() ([]int, error)
	SetButtonMap(m []int) error
}

// CursorControl は画面上のカーソル位置の取得と移動
type CursorControl interface {
	Position() (x, y int, err error)
	Warp(x, y int) error
}
