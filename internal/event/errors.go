package event

import "errors"

// ErrDeviceGone はデバイスが切断されイベントを読めなくなったことを表す
var ErrDeviceGone = errors.New("デバイスが切断されました")
