package api

import (
	"context"
	"log"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/char5742/mxremap/internal/config"
	"github.com/char5742/mxremap/internal/device"
)

// DeviceOpener は実デバイス（evdev, xinput, X11）を開く
type DeviceOpener struct {
	monitor *device.Monitor
}

// NewDeviceOpener は DeviceOpener を作成する
func NewDeviceOpener() *DeviceOpener {
	return &DeviceOpener{monitor: device.NewMonitor()}
}

func (o *DeviceOpener) Open(cfg *config.Config) (*Devices, error) {
	dev, err := device.Find(cfg.Device)
	if err != nil {
		return nil, err
	}
	return o.attach(dev, cfg), nil
}

func (o *DeviceOpener) Reopen(ctx context.Context, cfg *config.Config) (*Devices, error) {
	dev, err := o.monitor.WaitFor(ctx, cfg.Device)
	if err != nil {
		return nil, err
	}
	return o.attach(dev, cfg), nil
}

// attach は evdev デバイスに xinput とカーソル制御を組み合わせる。
// どちらも失敗した場合は警告を出して縮退モードで続行する
func (o *DeviceOpener) attach(dev *evdev.InputDevice, cfg *config.Config) *Devices {
	source := device.NewSource(dev)
	devs := &Devices{Source: source}

	if xi, err := device.NewXInput(cfg.Device); err != nil {
		log.Printf("WARNING: XInputデバイスを特定できませんでした: %v", err)
	} else {
		devs.Control = xi
	}

	cursor, err := device.NewX11Cursor()
	if err != nil {
		log.Printf("WARNING: カーソル位置の保存・復元は無効です: %v", err)
	} else {
		devs.Cursor = cursor
	}

	devs.Close = func() {
		if cursor != nil {
			cursor.Close()
		}
		if err := source.Close(); err != nil {
			log.Printf("デバイスのクローズに失敗しました: %v", err)
		}
	}
	return devs
}
