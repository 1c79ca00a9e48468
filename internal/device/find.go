package device

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/char5742/mxremap/internal/config"
)

// ErrDeviceNotFound は設定に一致するデバイスが見つからない場合のエラー
var ErrDeviceNotFound = errors.New("デバイスが見つかりません")

const byIDDir = "/dev/input/by-id"

// Info は入力デバイスの情報
type Info struct {
	Name string `json:"name"`
	Path string `json:"path"`
	// ID は /dev/input/by-id のリンク名（あれば）
	ID string `json:"id,omitempty"`
}

// ScanByID は /dev/input/by-id にあるイベントデバイスのリンクを実体パスごとに返す
func ScanByID() (map[string]string, error) {
	entries, err := os.ReadDir(byIDDir)
	if err != nil {
		return nil, err
	}
	links := make(map[string]string)
	for _, entry := range entries {
		// eventが含まれない場合はスキップ
		if !strings.Contains(entry.Name(), "event") {
			continue
		}
		realPath, err := os.Readlink(filepath.Join(byIDDir, entry.Name()))
		if err != nil {
			continue
		}
		links[resolveLink(realPath)] = entry.Name()
	}
	return links, nil
}

// resolveLink は by-id のリンク先を /dev/input 以下の絶対パスにする
func resolveLink(target string) string {
	if strings.HasPrefix(target, "/") {
		return target
	}
	return "/dev/input/" + filepath.Base(target)
}

// List は現在接続されている入力デバイスの一覧を返す
func List() ([]Info, error) {
	devices, err := evdev.ListInputDevices()
	if err != nil {
		return nil, fmt.Errorf("入力デバイスの列挙に失敗しました: %w", err)
	}
	links, err := ScanByID()
	if err != nil {
		// by-id が無い環境もある
		links = map[string]string{}
	}

	infos := make([]Info, 0, len(devices))
	for _, dev := range devices {
		infos = append(infos, Info{Name: dev.Name, Path: dev.Fn, ID: links[dev.Fn]})
		dev.File.Close()
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos, nil
}

// Find は設定に従ってデバイスを開く。path が指定されていればそれを、
// そうでなければ名前に name を含む最初のデバイスを使う
func Find(cfg config.DeviceConfig) (*evdev.InputDevice, error) {
	if cfg.Path != "" {
		dev, err := evdev.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("デバイスを開けませんでした[%s]: %w", cfg.Path, err)
		}
		log.Printf("デバイスを開きました: %s - %s", dev.Fn, dev.Name)
		return dev, nil
	}

	devices, err := evdev.ListInputDevices()
	if err != nil {
		return nil, fmt.Errorf("入力デバイスの列挙に失敗しました: %w", err)
	}

	var found *evdev.InputDevice
	for _, dev := range devices {
		if found == nil && Match(dev.Name, cfg.Name) {
			found = dev
			continue
		}
		dev.File.Close()
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, cfg.Name)
	}
	log.Printf("デバイスを検出しました: %s - %s", found.Fn, found.Name)
	return found, nil
}

// Match はデバイス名が name を含むかどうか。空の name は何にも一致しない
func Match(deviceName, name string) bool {
	return name != "" && strings.Contains(deviceName, name)
}
