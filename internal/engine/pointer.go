package engine

import "log"

// Pointer はジェスチャー追跡中の物理デバイスと論理カーソルの関係を管理する。
// control が nil の場合は切り離しを行わない縮退モードで動作する
type Pointer struct {
	control  DeviceControl
	cursor   CursorControl
	detached bool
}

// NewPointer は Pointer を作成する
func NewPointer(control DeviceControl, cursor CursorControl) *Pointer {
	if control == nil {
		log.Println("WARNING: XInput IDが見つからないため、ジェスチャー中のカーソル固定は無効です")
	}
	return &Pointer{control: control, cursor: cursor}
}

// Detached は切り離し中かどうか
func (p *Pointer) Detached() bool {
	return p.detached
}

// Detach はデバイスを論理ポインタから切り離す。失敗してもログのみ
func (p *Pointer) Detach() {
	if p.detached {
		return
	}
	// 失敗しても Reattach は必ず試みる
	p.detached = true
	if p.control == nil {
		return
	}
	if err := p.control.Float(); err != nil {
		log.Printf("[Cursor] デバイスの切り離しに失敗しました: %v", err)
		return
	}
	log.Println("[Cursor] デバイスを切り離しました")
}

// Reattach は Detach したデバイスを元に戻す。Detach していなければ何もしない
func (p *Pointer) Reattach() {
	if !p.detached {
		return
	}
	p.detached = false
	p.reattach()
}

// Shutdown は状態に関係なく再接続を試みる
func (p *Pointer) Shutdown() {
	p.detached = false
	p.reattach()
}

func (p *Pointer) reattach() {
	if p.control == nil {
		return
	}
	if err := p.control.Reattach(); err != nil {
		log.Printf("[Cursor] デバイスの再接続に失敗しました: %v", err)
		return
	}
	log.Println("[Cursor] デバイスを再接続しました")
}

// CursorPosition は現在のカーソル位置を返す。取得できなければ ok は false
func (p *Pointer) CursorPosition() (x, y int, ok bool) {
	if p.cursor == nil {
		return 0, 0, false
	}
	x, y, err := p.cursor.Position()
	if err != nil {
		log.Printf("[Cursor] カーソル位置の取得に失敗しました: %v", err)
		return 0, 0, false
	}
	return x, y, true
}

// SetCursorPosition はカーソルを移動する
func (p *Pointer) SetCursorPosition(x, y int) {
	if p.cursor == nil {
		return
	}
	if err := p.cursor.Warp(x, y); err != nil {
		log.Printf("[Cursor] カーソル位置の設定に失敗しました: %v", err)
	}
}
