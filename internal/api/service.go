package api

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/char5742/mxremap/internal/action"
	"github.com/char5742/mxremap/internal/config"
	"github.com/char5742/mxremap/internal/engine"
	"github.com/char5742/mxremap/internal/event"
)

var (
	ErrServiceRunning = errors.New("サービスは既に実行中です")
	ErrServiceStopped = errors.New("サービスは実行されていません")
)

// Devices はエンジンを動かすためのデバイス一式
type Devices struct {
	Source engine.EventSource
	// Control, Cursor は nil でもよい（縮退モード）
	Control engine.DeviceControl
	Cursor  engine.CursorControl
	Close   func()
}

// Opener はデバイスを開く
type Opener interface {
	// Open はデバイスを開く。見つからなければすぐにエラーを返す
	Open(cfg *config.Config) (*Devices, error)
	// Reopen は切断されたデバイスが再接続されるまで待って開く
	Reopen(ctx context.Context, cfg *config.Config) (*Devices, error)
}

// RemapService はリマップエンジンの起動・停止を管理する
type RemapService struct {
	store  *config.Store
	opener Opener
	runner action.Runner

	statusMutex sync.RWMutex
	running     bool
	engine      *engine.Engine
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewRemapService は新しいリマップサービスを作成する
func NewRemapService(store *config.Store, opener Opener, runner action.Runner) *RemapService {
	s := &RemapService{
		store:  store,
		opener: opener,
		runner: runner,
	}
	// 設定が更新されたら実行中のエンジンに通知する
	store.Subscribe(func(*config.Config) {
		s.statusMutex.RLock()
		e := s.engine
		s.statusMutex.RUnlock()
		if e != nil {
			e.Reconfigure()
		}
	})
	return s
}

// Start はリマップサービスを開始する
func (s *RemapService) Start() error {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	if s.running {
		return ErrServiceRunning
	}

	devs, err := s.opener.Open(s.store.Current())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.engine = s.newEngine(devs)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx, s.engine, devs, s.done)
	return nil
}

// Stop はリマップサービスを停止し、デバイスの後始末が終わるまで待つ
func (s *RemapService) Stop() error {
	s.statusMutex.Lock()
	if !s.running {
		s.statusMutex.Unlock()
		return ErrServiceStopped
	}
	s.cancel()
	done := s.done
	s.statusMutex.Unlock()

	<-done
	return nil
}

// Wait は実行中のサービスが終了するまで待つ
func (s *RemapService) Wait() {
	s.statusMutex.RLock()
	done := s.done
	s.statusMutex.RUnlock()
	if done != nil {
		<-done
	}
}

// UpdateConfig は設定を更新する。実行中であればボタンマップも再適用される
func (s *RemapService) UpdateConfig(cfg *config.Config) {
	s.store.Update(cfg)
}

// Config は現在の設定を返す
func (s *RemapService) Config() *config.Config {
	return s.store.Current()
}

// IsRunning はサービスが実行中かどうかを返す
func (s *RemapService) IsRunning() bool {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	return s.running
}

func (s *RemapService) newEngine(devs *Devices) *engine.Engine {
	return engine.New(engine.Options{
		Source:  devs.Source,
		Config:  s.store,
		Runner:  s.runner,
		Control: devs.Control,
		Cursor:  devs.Cursor,
	})
}

// run はエンジンを実行し、デバイスが切断された場合は再接続を待って再開する
func (s *RemapService) run(ctx context.Context, e *engine.Engine, devs *Devices, done chan struct{}) {
	defer func() {
		s.statusMutex.Lock()
		s.running = false
		s.engine = nil
		s.statusMutex.Unlock()
		close(done)
		log.Println("リマップサービスを停止しました")
	}()

	for {
		err := e.Run(ctx)
		if devs.Close != nil {
			devs.Close()
		}
		if !errors.Is(err, event.ErrDeviceGone) || ctx.Err() != nil {
			if err != nil {
				log.Printf("イベントループが異常終了しました: %v", err)
			}
			return
		}

		log.Println("デバイスが切断されました。再接続を待ちます")
		devs, err = s.opener.Reopen(ctx, s.store.Current())
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("デバイスの再接続に失敗しました: %v", err)
			}
			return
		}
		log.Println("デバイスが再接続されました")

		e = s.newEngine(devs)
		s.statusMutex.Lock()
		s.engine = e
		s.statusMutex.Unlock()
	}
}
