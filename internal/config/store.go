package config

import (
	"sync"
	"sync/atomic"
)

// Source は現在の設定スナップショットを返す
type Source interface {
	Current() *Config
}

// Static は変化しない設定
type Static struct {
	Config *Config
}

func (s Static) Current() *Config { return s.Config }

// Store はスレッドセーフな設定ストア。
// 公開したスナップショットは変更されないので、読み取り側はロック不要
type Store struct {
	current atomic.Pointer[Config]

	mutex       sync.Mutex
	subscribers []func(*Config)
}

// NewStore は cfg のコピーを初期値とするストアを作成する
func NewStore(cfg *Config) *Store {
	s := &Store{}
	cp := cfg.Clone()
	cp.Normalize()
	s.current.Store(cp)
	return s
}

// Current は最新のスナップショットを返す。呼び出し側は変更してはならない
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Update は新しい設定を公開し、購読者に通知する
func (s *Store) Update(cfg *Config) {
	cp := cfg.Clone()
	cp.Normalize()
	s.current.Store(cp)

	// コピーしてロックを解放した状態でコールバックを呼び出す
	s.mutex.Lock()
	subscribers := append([]func(*Config){}, s.subscribers...)
	s.mutex.Unlock()

	for _, fn := range subscribers {
		fn(cp)
	}
}

// Subscribe は設定変更時に呼び出される関数を登録する
func (s *Store) Subscribe(fn func(*Config)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
