package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/char5742/mxremap/internal/device"
)

// Server はAPIサーバーを表す構造体
type Server struct {
	server     *http.Server
	service    *RemapService
	configPath string
	port       int

	// listDevices はデバイス一覧の取得方法。テストで差し替える
	listDevices func() ([]device.Info, error)
}

// NewServer は新しいAPIサーバーを作成する。configPath は保存先の既定値
func NewServer(service *RemapService, configPath string, port int) *Server {
	return &Server{
		service:     service,
		configPath:  configPath,
		port:        port,
		listDevices: device.List,
	}
}

// URL はサーバーのURL
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s", s.addr())
}

// addr は待ち受けアドレス。ローカルからの操作に限定する
func (s *Server) addr() string {
	return fmt.Sprintf("127.0.0.1:%d", s.port)
}

// Handler はルーティング済みのハンドラを返す
func (s *Server) Handler() http.Handler {
	router := http.NewServeMux()
	s.setupRoutes(router)
	return router
}

// Start はAPIサーバーを開始する。Stop されるまで戻らない
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("APIサーバーを開始します: %s", s.URL())
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop はAPIサーバーを停止する
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		log.Println("APIサーバーを停止します...")
		return s.server.Shutdown(ctx)
	}
	return nil
}

// writeJSON はJSONレスポンスを書き込む
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("JSONエンコードエラー: %v", err)
		}
	}
}

// writeError はエラーレスポンスを書き込む
func writeError(w http.ResponseWriter, status int, message string) {
	response := map[string]string{"error": message}
	writeJSON(w, status, response)
}
