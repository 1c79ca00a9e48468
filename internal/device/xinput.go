package device

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"

	"github.com/char5742/mxremap/internal/config"
)

// DefaultMasterPointer は "Virtual core pointer" が見つからない場合のID
const DefaultMasterPointer = 2

// Exec は外部コマンドを実行し標準出力を返す
type Exec func(name string, args ...string) ([]byte, error)

func execCommand(name string, args ...string) ([]byte, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// XInput は xinput コマンドでデバイスを操作する
type XInput struct {
	ID     int
	Master int
	exec   Exec
}

// NewXInput は xinput_name からデバイスIDを、"Virtual core pointer" からマスターIDを探す
func NewXInput(cfg config.DeviceConfig) (*XInput, error) {
	return newXInput(cfg, execCommand)
}

func newXInput(cfg config.DeviceConfig, run Exec) (*XInput, error) {
	out, err := run("xinput", "list")
	if err != nil {
		return nil, err
	}
	id, ok := ParseListID(out, cfg.XInputName)
	if !ok {
		return nil, fmt.Errorf("%w: xinput %q", ErrDeviceNotFound, cfg.XInputName)
	}

	master := cfg.MasterPointer
	if master <= 0 {
		master = findMasterPointer(run)
	}
	log.Printf("[XInput] デバイスID: %d, マスターポインタID: %d", id, master)
	return &XInput{ID: id, Master: master, exec: run}, nil
}

func findMasterPointer(run Exec) int {
	out, err := run("xinput", "list", "--short")
	if err != nil {
		log.Printf("[XInput] マスターポインタIDを取得できませんでした: %v", err)
		return DefaultMasterPointer
	}
	if id, ok := ParseListID(out, "Virtual core pointer"); ok {
		return id
	}
	return DefaultMasterPointer
}

// ParseListID は xinput list の出力から hint を含む最初の行の id= を返す
func ParseListID(out []byte, hint string) (int, bool) {
	if hint == "" {
		return 0, false
	}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, hint) {
			continue
		}
		for _, field := range strings.Fields(line) {
			v, found := strings.CutPrefix(field, "id=")
			if !found {
				continue
			}
			if id, err := strconv.Atoi(v); err == nil {
				return id, true
			}
		}
	}
	return 0, false
}

// ParseButtonMap は xinput get-button-map の出力を解析する
func ParseButtonMap(out []byte) ([]int, error) {
	fields := strings.Fields(string(out))
	m := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("ボタンマップの解析に失敗しました[%q]: %w", f, err)
		}
		m = append(m, v)
	}
	return m, nil
}

// Float はデバイスをマスターポインタから切り離す
func (x *XInput) Float() error {
	_, err := x.exec("xinput", "float", strconv.Itoa(x.ID))
	return err
}

// Reattach はデバイスをマスターポインタに戻す
func (x *XInput) Reattach() error {
	_, err := x.exec("xinput", "reattach", strconv.Itoa(x.ID), strconv.Itoa(x.Master))
	return err
}

func (x *XInput) ButtonMap() ([]int, error) {
	out, err := x.exec("xinput", "get-button-map", strconv.Itoa(x.ID))
	if err != nil {
		return nil, err
	}
	return ParseButtonMap(out)
}

func (x *XInput) SetButtonMap(m []int) error {
	args := []string{"set-button-map", strconv.Itoa(x.ID)}
	for _, v := range m {
		args = append(args, strconv.Itoa(v))
	}
	_, err := x.exec("xinput", args...)
	return err
}
