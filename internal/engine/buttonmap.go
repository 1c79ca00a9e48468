package engine

import (
	"log"
	"slices"

	"github.com/char5742/mxremap/internal/config"
	"github.com/char5742/mxremap/internal/event"
)

// xinput のボタン番号（1始まり）
var buttonSlots = []struct {
	button event.Button
	slot   int
}{
	{event.Button2, 8},
	{event.Button3, 9},
}

var scrollSlots = []int{6, 7} // ScrollLeft, ScrollRight

// ComputeEffectiveMap は元のボタンマップと設定から、デバイスに適用するマップを計算する。
// カスタムアクションを割り当てたボタンと、水平スクロール以外に使うホイールの
// ネイティブクリックを無効化する。original は変更しない
func ComputeEffectiveMap(original []int, cfg *config.Config) []int {
	m := slices.Clone(original)

	for _, bs := range buttonSlots {
		spec := cfg.Action(bs.button)
		if spec.IsEmpty() || spec.Is("Back") || spec.Is("Forward") {
			continue
		}
		disableSlot(m, bs.slot)
	}

	if cfg.WheelFunction() != config.ScrollHorizontal {
		for _, slot := range scrollSlots {
			disableSlot(m, slot)
		}
	}
	return m
}

func disableSlot(m []int, slot int) {
	if slot >= 1 && slot <= len(m) {
		m[slot-1] = 0
	}
}

// ButtonMapper は元のボタンマップを保持し、設定に応じたマップをデバイスに適用する
type ButtonMapper struct {
	control   DeviceControl
	original  []int
	effective []int
}

// NewButtonMapper は ButtonMapper を作成する
func NewButtonMapper(control DeviceControl) *ButtonMapper {
	return &ButtonMapper{control: control}
}

// Capture は元のボタンマップを一度だけ取得する
func (m *ButtonMapper) Capture() bool {
	if m.original != nil {
		return true
	}
	if m.control == nil {
		return false
	}
	orig, err := m.control.ButtonMap()
	if err != nil {
		log.Printf("[XInput] ボタンマップの取得に失敗しました: %v", err)
		return false
	}
	if len(orig) == 0 {
		return false
	}
	m.original = orig
	return true
}

// Apply は設定から計算したマップをデバイスに適用する。
// 失敗した場合はデバイスの状態を変更前のものとみなす
func (m *ButtonMapper) Apply(cfg *config.Config) {
	if m.original == nil {
		return
	}
	next := ComputeEffectiveMap(m.original, cfg)
	current := m.effective
	if current == nil {
		current = m.original
	}
	if slices.Equal(next, current) {
		m.effective = next
		return
	}
	if err := m.control.SetButtonMap(next); err != nil {
		log.Printf("[XInput] ボタンマップの設定に失敗しました: %v", err)
		return
	}
	m.effective = next
	log.Printf("[XInput] ボタンマップを更新しました: %v", next)
}

// Restore は元のボタンマップに戻す
func (m *ButtonMapper) Restore() {
	if m.original == nil || m.effective == nil || slices.Equal(m.original, m.effective) {
		return
	}
	if err := m.control.SetButtonMap(m.original); err != nil {
		log.Printf("[XInput] ボタンマップの復元に失敗しました: %v", err)
		return
	}
	m.effective = slices.Clone(m.original)
	log.Println("[XInput] ボタンマップを元に戻しました")
}

// Original は取得済みの元のマップのコピーを返す
func (m *ButtonMapper) Original() []int {
	return slices.Clone(m.original)
}

// Effective は現在適用中のマップのコピーを返す
func (m *ButtonMapper) Effective() []int {
	return slices.Clone(m.effective)
}
