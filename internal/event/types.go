package event

// イベントタイプの定数（input-event-codes.hより）
const (
	Syn = 0x00 // 同期イベント
	Key = 0x01 // キーイベント
	Rel = 0x02 // 相対座標イベント

	RelX           = 0x00 // X軸の相対移動
	RelY           = 0x01 // Y軸の相対移動
	RelHWheel      = 0x06 // 水平ホイール
	RelWheel       = 0x08 // ホイールの相対移動
	RelHWheelHiRes = 0x0c // 高解像度水平ホイール

	KeyReleased = 0
	KeyPressed  = 1
	KeyRepeat   = 2

	// HiResUnitsPerDetent は高解像度ホイールの1ノッチあたりの単位数
	HiResUnitsPerDetent = 120
)

// Axis は相対移動イベントの軸を表す
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisHWheel
	AxisHWheelHiRes
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisHWheel:
		return "HWheel"
	case AxisHWheelHiRes:
		return "HWheelHiRes"
	}
	return "unknown"
}

// AxisFromCode はREL_*コードを軸に変換する
func AxisFromCode(code uint16) (Axis, bool) {
	switch code {
	case RelX:
		return AxisX, true
	case RelY:
		return AxisY, true
	case RelHWheel:
		return AxisHWheel, true
	case RelHWheelHiRes:
		return AxisHWheelHiRes, true
	}
	return 0, false
}

// Raw はデバイスから読み取った入力イベント。KeyEvent か MotionEvent のどちらか
type Raw interface {
	raw()
}

// KeyEvent はボタンの押下・解放
type KeyEvent struct {
	Code    uint16
	Pressed bool
}

// MotionEvent は相対移動（マウス移動・ホイール）
type MotionEvent struct {
	Axis  Axis
	Value int32
}

func (KeyEvent) raw()    {}
func (MotionEvent) raw() {}

// IsWheel は水平ホイール軸かどうか
func (m MotionEvent) IsWheel() bool {
	return m.Axis == AxisHWheel || m.Axis == AxisHWheelHiRes
}

// FromInput はevdevのtype/code/valueを Raw に変換する。
// 対象外のイベント（SYN、キーリピート、未知の軸）は false を返す
func FromInput(typ uint16, code uint16, value int32) (Raw, bool) {
	switch typ {
	case Key:
		switch value {
		case KeyPressed:
			return KeyEvent{Code: code, Pressed: true}, true
		case KeyReleased:
			return KeyEvent{Code: code, Pressed: false}, true
		}
	case Rel:
		if axis, ok := AxisFromCode(code); ok {
			return MotionEvent{Axis: axis, Value: value}, true
		}
	}
	return nil, false
}
