package action

import (
	"log"
	"sort"
	"strings"
)

// Command は実行するコマンドの記述。Shell が true なら Text を sh -c で、
// そうでなければ Args を直接実行する
type Command struct {
	Shell bool
	Text  string
	Args  []string
}

func (c Command) String() string {
	if c.Shell {
		return c.Text
	}
	return strings.Join(c.Args, " ")
}

func xdotool(args ...string) Command {
	return Command{Args: append([]string{"xdotool"}, args...)}
}

// 定義済みアクション名 → キー/マウスエミュレーション
var predefined = map[string]Command{
	"Copy":          xdotool("key", "ctrl+c"),
	"Paste":         xdotool("key", "ctrl+v"),
	"Volume Up":     xdotool("key", "XF86AudioRaiseVolume"),
	"Volume Down":   xdotool("key", "XF86AudioLowerVolume"),
	"Mute":          xdotool("key", "XF86AudioMute"),
	"Undo":          xdotool("key", "ctrl+z"),
	"Redo":          xdotool("key", "ctrl+shift+z"),
	"Scroll Up":     xdotool("click", "4"),
	"Scroll Down":   xdotool("click", "5"),
	"Scroll Left":   xdotool("click", "6"),
	"Scroll Right":  xdotool("click", "7"),
	"Left Click":    xdotool("click", "1"),
	"Right Click":   xdotool("click", "3"),
	"Forward":       xdotool("key", "XF86Forward"),
	"Back":          xdotool("key", "XF86Back"),
	"Open Terminal": {Args: []string{"gnome-terminal"}},
	"Show Desktop":  xdotool("key", "super+d"),
	"Close Window":  xdotool("key", "ctrl+w"),
}

// ホイールのズーム機能用。登録名を持たない
var (
	ZoomIn  = xdotool("key", "ctrl+KP_Add")
	ZoomOut = xdotool("key", "ctrl+KP_Subtract")
)

// Names は定義済みアクション名の一覧（ソート済み）を返す
func Names() []string {
	names := make([]string, 0, len(predefined))
	for name := range predefined {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup は定義済みアクションを名前で引く
func Lookup(name string) (Command, bool) {
	cmd, ok := predefined[name]
	return cmd, ok
}

// Resolver はアクション指定を実行可能なコマンドに変換する
type Resolver struct{}

// Resolve は Spec を Command に変換する。実行不要なら false を返す
func (Resolver) Resolve(spec Spec) (Command, bool) {
	switch spec.Kind {
	case KindCustom:
		return Command{Shell: true, Text: spec.Value}, true
	case KindPredefined:
		cmd, ok := Lookup(spec.Value)
		if !ok {
			log.Printf("未知の定義済みアクションです: %q", spec.Value)
			return Command{}, false
		}
		return cmd, true
	}
	return Command{}, false
}
