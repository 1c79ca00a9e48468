package device

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11Cursor は X サーバーに直接問い合わせてカーソル位置を取得・設定する
type X11Cursor struct {
	conn *xgb.Conn
	root xproto.Window
}

// NewX11Cursor は $DISPLAY に接続する
func NewX11Cursor() (*X11Cursor, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("Xサーバーへの接続に失敗しました: %w", err)
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	return &X11Cursor{conn: conn, root: root}, nil
}

// Position はルートウィンドウ上のカーソル位置を返す
func (c *X11Cursor) Position() (int, int, error) {
	reply, err := xproto.QueryPointer(c.conn, c.root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("QueryPointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// Warp はカーソルをルートウィンドウ上の (x, y) に移動する
func (c *X11Cursor) Warp(x, y int) error {
	err := xproto.WarpPointerChecked(c.conn, xproto.WindowNone, c.root,
		0, 0, 0, 0, int16(x), int16(y)).Check()
	if err != nil {
		return fmt.Errorf("WarpPointer: %w", err)
	}
	return nil
}

func (c *X11Cursor) Close() {
	c.conn.Close()
}
