package device

import (
	"errors"
	"fmt"
	"time"

	evdev "github.com/gvalkov/golang-evdev"
	"golang.org/x/sys/unix"

	"github.com/char5742/mxremap/internal/event"
)

// Source は evdev デバイスからタイムアウト付きでイベントを読み取る
type Source struct {
	dev *evdev.InputDevice
	fd  int
}

// NewSource は開いたデバイスから Source を作成する
func NewSource(dev *evdev.InputDevice) *Source {
	// Fd() はファイルをブロッキングモードに戻す。読み取りは Poll で待つ
	return &Source{dev: dev, fd: int(dev.File.Fd())}
}

// Name はデバイス名
func (s *Source) Name() string {
	return s.dev.Name
}

// ReadEvents は timeout まで待ち、届いたイベントを返す。
// タイムアウトした場合は空のスライスと nil を返す
func (s *Source) ReadEvents(timeout time.Duration) ([]event.Raw, error) {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	ms := int(timeout.Milliseconds())
	if timeout > 0 && ms == 0 {
		// 1ms 未満を 0 にするとノンブロッキングになる
		ms = 1
	}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		return nil, fmt.Errorf("poll: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	if fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return nil, event.ErrDeviceGone
	}

	events, err := s.dev.Read()
	if err != nil {
		if errors.Is(err, unix.ENODEV) {
			return nil, event.ErrDeviceGone
		}
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		return nil, fmt.Errorf("read: %w", err)
	}
	return Convert(events), nil
}

// Close はデバイスを閉じる
func (s *Source) Close() error {
	return s.dev.File.Close()
}

// Convert は evdev のイベントを処理対象のイベントに変換する
func Convert(events []evdev.InputEvent) []event.Raw {
	out := make([]event.Raw, 0, len(events))
	for _, ev := range events {
		if raw, ok := event.FromInput(ev.Type, ev.Code, ev.Value); ok {
			out = append(out, raw)
		}
	}
	return out
}
