package config

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 300 * time.Millisecond

// Watcher は設定ファイルの変更を監視し、Store に再読み込みする
type Watcher struct {
	path     string
	store    *Store
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	done     chan struct{}
}

// NewWatcher は path を監視する Watcher を作成する。
// エディタの置き換え保存にも対応するためディレクトリを監視する
func NewWatcher(path string, store *Store) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{
		path:     filepath.Clean(path),
		store:    store,
		watcher:  w,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start は監視ゴルーチンを起動する
func (w *Watcher) Start() {
	go w.watchEvents()
}

// Stop は監視を停止する
func (w *Watcher) Stop() {
	close(w.stopChan)
	w.watcher.Close()
	<-w.done
}

func (w *Watcher) watchEvents() {
	defer close(w.done)

	// 連続した書き込みイベントをまとめて処理する
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-w.stopChan:
			timer.Stop()
			return

		case <-timer.C:
			if pending {
				pending = false
				w.reload()
			}

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending = true
				timer.Reset(watchDebounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("設定ファイル監視エラー: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		log.Printf("設定ファイルの再読み込みに失敗しました: %v", err)
		return
	}
	log.Printf("設定ファイルを再読み込みしました: %s", w.path)
	w.store.Update(cfg)
}
