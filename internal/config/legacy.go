package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/char5742/mxremap/internal/action"
)

// LegacyPath は旧バージョンのJSON設定ファイルの既定パス
func LegacyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mxmaster3s", "actions.json"), nil
}

// ImportLegacy は旧形式のJSON設定ファイルを読み込んで Config に変換する
func ImportLegacy(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLegacy(data)
}

// ParseLegacy は旧形式のJSONを変換する。
// "Button 1" と "Button 5" は文字列とオブジェクトのどちらでも受け付ける
func ParseLegacy(data []byte) (*Config, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("不正なJSONです")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("JSONオブジェクトではありません: %s", root.Type)
	}

	cfg := DefaultConfig()

	b1 := root.Get("Button 1")
	switch {
	case b1.IsObject():
		cfg.Button1.Action = action.Parse(b1.Get("action").String())
		cfg.Button1.GesturesEnabled = b1.Get("gestures_enabled").Bool()
		cfg.Button1.GestureUp = action.Parse(b1.Get("gesture_up").String())
		cfg.Button1.GestureDown = action.Parse(b1.Get("gesture_down").String())
		cfg.Button1.GestureLeft = action.Parse(b1.Get("gesture_left").String())
		cfg.Button1.GestureRight = action.Parse(b1.Get("gesture_right").String())
	case b1.Type == gjson.String:
		cfg.Button1.Action = action.Parse(b1.String())
	}

	cfg.Buttons.Button2 = legacyButton(root.Get("Button 2"))
	cfg.Buttons.Button3 = legacyButton(root.Get("Button 3"))
	cfg.Buttons.Button4 = legacyButton(root.Get("Button 4"))

	if b5 := root.Get("Button 5"); b5.IsObject() {
		cfg.Wheel.Inverted = b5.Get("inverted").Bool()
		if s := b5.Get("sensitivity"); s.Exists() {
			cfg.Wheel.Sensitivity = int(s.Int())
		}
		if f := b5.Get("function"); f.Exists() {
			cfg.Wheel.Function = WheelFunction(f.String())
		}
	}

	cfg.Normalize()
	return cfg, nil
}

func legacyButton(r gjson.Result) action.Spec {
	if r.Type != gjson.String {
		return action.Spec{}
	}
	return action.Parse(r.String())
}
