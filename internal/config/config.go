package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/char5742/mxremap/internal/action"
	"github.com/char5742/mxremap/internal/event"
)

// WheelFunction は水平ホイールに割り当てる機能
type WheelFunction string

const (
	ScrollHorizontal WheelFunction = "Scroll Horizontal"
	VolumeControl    WheelFunction = "Volume Control"
	Zoom             WheelFunction = "Zoom"
)

// Direction はジェスチャーの方向
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

const (
	MinSensitivity = 50
	MaxSensitivity = 200

	// MinPollInterval より短い間隔はビジーループになるため切り上げる
	MinPollInterval = 10 * time.Millisecond
)

// Config はアプリケーション全体の設定を表す構造体
type Config struct {
	Device  DeviceConfig  `toml:"device" json:"device"`
	Button1 Button1Config `toml:"button1" json:"button1"`
	Buttons ButtonsConfig `toml:"buttons" json:"buttons"`
	Wheel   WheelConfig   `toml:"wheel" json:"wheel"`
	Gesture GestureConfig `toml:"gesture" json:"gesture"`
	Engine  EngineConfig  `toml:"engine" json:"engine"`
}

// DeviceConfig は対象デバイスの設定
type DeviceConfig struct {
	Name          string `toml:"name" json:"name"`                     // evdevデバイス名に含まれる文字列
	Path          string `toml:"path" json:"path"`                     // 指定時は名前検索を行わない
	XInputName    string `toml:"xinput_name" json:"xinput_name"`       // xinput list 上の名前
	MasterPointer int    `toml:"master_pointer" json:"master_pointer"` // 0なら自動検出
}

// Button1Config は主ボタンとジェスチャーの設定
type Button1Config struct {
	Action          action.Spec `toml:"action" json:"action"`
	GesturesEnabled bool        `toml:"gestures_enabled" json:"gestures_enabled"`
	GestureUp       action.Spec `toml:"gesture_up" json:"gesture_up"`
	GestureDown     action.Spec `toml:"gesture_down" json:"gesture_down"`
	GestureLeft     action.Spec `toml:"gesture_left" json:"gesture_left"`
	GestureRight    action.Spec `toml:"gesture_right" json:"gesture_right"`
}

// ButtonsConfig はその他のボタンの設定
type ButtonsConfig struct {
	Button2 action.Spec `toml:"button2" json:"button2"`
	Button3 action.Spec `toml:"button3" json:"button3"`
	Button4 action.Spec `toml:"button4" json:"button4"`
}

// WheelConfig は水平ホイールの設定
type WheelConfig struct {
	Inverted    bool          `toml:"inverted" json:"inverted"`
	Sensitivity int           `toml:"sensitivity" json:"sensitivity"` // パーセント (50-200)
	Function    WheelFunction `toml:"function" json:"function"`
}

// GestureConfig はジェスチャー認識の設定
type GestureConfig struct {
	Threshold int32 `toml:"threshold" json:"threshold"`
}

// EngineConfig はイベントループの設定
type EngineConfig struct {
	PollInterval Duration `toml:"poll_interval" json:"poll_interval"`
}

// Duration は "200ms" 形式で読み書きできる time.Duration
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Name:       "MX Master",
			XInputName: "MX Master 3S",
		},
		Wheel: WheelConfig{
			Inverted:    false,
			Sensitivity: 100,
			Function:    ScrollHorizontal,
		},
		Gesture: GestureConfig{
			Threshold: 50,
		},
		Engine: EngineConfig{
			PollInterval: Duration{200 * time.Millisecond},
		},
	}
}

// Normalize はゼロ値を補い、範囲外の値を丸める
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Wheel.Sensitivity == 0 {
		c.Wheel.Sensitivity = def.Wheel.Sensitivity
	}
	c.Wheel.Sensitivity = min(max(c.Wheel.Sensitivity, MinSensitivity), MaxSensitivity)
	if c.Wheel.Function == "" {
		c.Wheel.Function = ScrollHorizontal
	}
	if c.Gesture.Threshold <= 0 {
		c.Gesture.Threshold = def.Gesture.Threshold
	}
	if c.Engine.PollInterval.Duration <= 0 {
		c.Engine.PollInterval = def.Engine.PollInterval
	}
	c.Engine.PollInterval.Duration = max(c.Engine.PollInterval.Duration, MinPollInterval)
}

// Clone は設定のコピーを返す（全フィールドが値型なので浅いコピーで足りる）
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Action はボタンに割り当てられたアクションを返す。Button5 は常に Unset
func (c *Config) Action(b event.Button) action.Spec {
	switch b {
	case event.Button1:
		return c.Button1.Action
	case event.Button2:
		return c.Buttons.Button2
	case event.Button3:
		return c.Buttons.Button3
	case event.Button4:
		return c.Buttons.Button4
	}
	return action.Spec{}
}

// GestureAction は方向に割り当てられたアクションを返す
func (c *Config) GestureAction(d Direction) action.Spec {
	switch d {
	case Up:
		return c.Button1.GestureUp
	case Down:
		return c.Button1.GestureDown
	case Left:
		return c.Button1.GestureLeft
	case Right:
		return c.Button1.GestureRight
	}
	return action.Spec{}
}

func (c *Config) GesturesEnabled() bool        { return c.Button1.GesturesEnabled }
func (c *Config) WheelFunction() WheelFunction { return c.Wheel.Function }
func (c *Config) Inverted() bool               { return c.Wheel.Inverted }
func (c *Config) Sensitivity() int             { return c.Wheel.Sensitivity }

// GetDefaultConfigDir はデフォルトの設定ディレクトリを返す
func GetDefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mxremap"), nil
}

// LoadConfig は設定ファイルから設定を読み込む
func LoadConfig(configPath string) (*Config, error) {
	// デフォルト設定を用意
	config := DefaultConfig()

	// ファイルが存在しない場合はデフォルト設定を保存して返す
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveConfig(configPath, config); err != nil {
			return config, err
		}
		return config, nil
	}

	// 設定ファイルの読み込み
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return DefaultConfig(), err
	}
	config.Normalize()

	return config, nil
}

// SaveConfig は設定をTOMLファイルに保存する
func SaveConfig(configPath string, config *Config) error {
	// 設定ディレクトリの作成
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	// ファイルを開く（なければ作成）
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// TOML形式でエンコードして書き込み
	encoder := toml.NewEncoder(f)
	return encoder.Encode(config)
}
