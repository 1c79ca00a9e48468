package event

import "fmt"

// Button は論理ボタン。スキャンコードから固定テーブルで決まる
type Button int

const (
	Button1 Button = iota + 1 // 主ボタン（ジェスチャー）
	Button2
	Button3
	Button4
	Button5 // ホイール。クリック不可
)

// スキャンコード → 論理ボタン
var scancodes = map[uint16]Button{
	277: Button1,
	276: Button2,
	275: Button3,
	274: Button4,
	12:  Button5,
}

// Classify はスキャンコードを論理ボタンに分類する
func Classify(code uint16) (Button, bool) {
	b, ok := scancodes[code]
	return b, ok
}

// Clickable はアクションを割り当て可能なボタンかどうか
func (b Button) Clickable() bool {
	return b >= Button1 && b <= Button4
}

func (b Button) String() string {
	if b < Button1 || b > Button5 {
		return fmt.Sprintf("Button(%d)", int(b))
	}
	return fmt.Sprintf("Button %d", int(b))
}
