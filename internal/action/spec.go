package action

import "strings"

// Kind はアクション指定の種類
type Kind int

const (
	KindUnset      Kind = iota // 未設定
	KindNone                   // 明示的に「No Action」
	KindPredefined             // 定義済みアクション名
	KindCustom                 // 任意のシェルコマンド
)

const (
	customPrefix = "Command:"
	noneText     = "No Action"
)

// Spec はボタンやジェスチャーに割り当てられたアクション指定
type Spec struct {
	Kind  Kind
	Value string
}

// Predefined は定義済みアクションの Spec を返す
func Predefined(name string) Spec {
	return Spec{Kind: KindPredefined, Value: name}
}

// Custom はシェルコマンドの Spec を返す
func Custom(command string) Spec {
	return Spec{Kind: KindCustom, Value: command}
}

// None は明示的な「アクションなし」
func None() Spec {
	return Spec{Kind: KindNone}
}

// Parse は設定ファイル上の文字列表現を Spec に変換する。
//
//	""                → Unset
//	"No Action"       → None
//	"Command: <cmd>"  → Custom(<cmd>)
//	それ以外           → Predefined
func Parse(s string) Spec {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Spec{}
	case s == noneText:
		return None()
	case strings.HasPrefix(s, customPrefix):
		cmd := strings.TrimSpace(strings.TrimPrefix(s, customPrefix))
		if cmd == "" {
			return Spec{}
		}
		return Custom(cmd)
	}
	return Predefined(s)
}

func (s Spec) String() string {
	switch s.Kind {
	case KindNone:
		return noneText
	case KindPredefined:
		return s.Value
	case KindCustom:
		return customPrefix + " " + s.Value
	}
	return ""
}

// IsEmpty は何も実行しない指定かどうか（Unset または None）
func (s Spec) IsEmpty() bool {
	return s.Kind == KindUnset || s.Kind == KindNone
}

// Is は指定した定義済みアクションかどうか
func (s Spec) Is(name string) bool {
	return s.Kind == KindPredefined && s.Value == name
}

func (s Spec) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Spec) UnmarshalText(text []byte) error {
	*s = Parse(string(text))
	return nil
}
