package device

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	evdev "github.com/gvalkov/golang-evdev"

	"github.com/char5742/mxremap/internal/config"
)

const (
	eventDebounceTime = 500 * time.Millisecond
	pollingInterval   = 2 * time.Second
)

// 監視対象のディレクトリ
var watchDirs = []string{
	"/dev/input",
	"/dev/input/by-id",
}

// FindFunc はデバイスを探す関数。Monitor のテストで差し替える
type FindFunc func(cfg config.DeviceConfig) (*evdev.InputDevice, error)

// Monitor はデバイスの再接続を待つ。/dev/input の変更を fsnotify で監視し、
// 取りこぼしに備えて定期的にも探し直す
type Monitor struct {
	find     FindFunc
	debounce time.Duration
	interval time.Duration
}

// NewMonitor は Monitor を作成する
func NewMonitor() *Monitor {
	return &Monitor{find: Find, debounce: eventDebounceTime, interval: pollingInterval}
}

// WaitFor は設定に一致するデバイスが現れるまで待って開く
func (m *Monitor) WaitFor(ctx context.Context, cfg config.DeviceConfig) (*evdev.InputDevice, error) {
	if dev, err := m.find(cfg); err == nil {
		return dev, nil
	} else if !errors.Is(err, ErrDeviceNotFound) && cfg.Path == "" {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("ファイルシステム監視を開始できませんでした: %v", err)
	} else {
		defer watcher.Close()
		for _, dir := range watchDirs {
			if _, err := os.Stat(dir); err == nil {
				if err := watcher.Add(dir); err != nil {
					log.Printf("ディレクトリの監視に失敗しました: %s - %v", dir, err)
				}
			}
		}
	}

	log.Printf("デバイスの接続を待っています: %q", cfg.Name)
	events, errs := watcherChannels(watcher)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// 一時的なファイルシステムイベントを集めてまとめて処理する
	eventTimer := time.NewTimer(m.debounce)
	eventTimer.Stop()
	defer eventTimer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-ticker.C:
			if dev, err := m.find(cfg); err == nil {
				return dev, nil
			}

		case <-eventTimer.C:
			if !pending {
				continue
			}
			pending = false
			if dev, err := m.find(cfg); err == nil {
				return dev, nil
			}

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !strings.Contains(ev.Name, "event") || !ev.Has(fsnotify.Create) {
				continue
			}
			if !pending {
				pending = true
				eventTimer.Reset(m.debounce)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Printf("ファイルシステム監視エラー: %v", err)
		}
	}
}

func watcherChannels(w *fsnotify.Watcher) (<-chan fsnotify.Event, <-chan error) {
	if w == nil {
		return nil, nil
	}
	return w.Events, w.Errors
}
