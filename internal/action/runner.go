package action

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
)

// Runner は外部コマンドを起動する
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ShellRunner はプロセスを起動するだけで終了を待たない
type ShellRunner struct{}

func (ShellRunner) Run(ctx context.Context, cmd Command) error {
	var c *exec.Cmd
	switch {
	case cmd.Shell:
		c = exec.Command("sh", "-c", cmd.Text)
	case len(cmd.Args) > 0:
		c = exec.Command(cmd.Args[0], cmd.Args[1:]...)
	default:
		return errors.New("空のコマンドです")
	}

	if err := c.Start(); err != nil {
		return fmt.Errorf("コマンドの起動に失敗しました[%s]: %w", cmd, err)
	}
	// ゾンビプロセスを残さないよう回収する
	go func() {
		if err := c.Wait(); err != nil {
			log.Printf("コマンドが異常終了しました[%s]: %v", cmd, err)
		}
	}()
	return nil
}

// Dispatcher は解決と実行をまとめたもの。失敗はログに出して握りつぶす
type Dispatcher struct {
	Resolver Resolver
	Runner   Runner
}

// NewDispatcher は runner を使う Dispatcher を作成する
func NewDispatcher(runner Runner) *Dispatcher {
	return &Dispatcher{Runner: runner}
}

// Dispatch は spec を実行する。実際にコマンドを起動したら true
func (d *Dispatcher) Dispatch(ctx context.Context, spec Spec) bool {
	cmd, ok := d.Resolver.Resolve(spec)
	if !ok {
		return false
	}
	return d.Run(ctx, cmd)
}

// Run は解決済みのコマンドを実行する
func (d *Dispatcher) Run(ctx context.Context, cmd Command) bool {
	if err := d.Runner.Run(ctx, cmd); err != nil {
		log.Printf("アクションの実行に失敗しました: %v", err)
		return false
	}
	return true
}
