package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/char5742/mxremap/internal/action"
	"github.com/char5742/mxremap/internal/config"
)

// ルートの設定
func (s *Server) setupRoutes(router *http.ServeMux) {
	// 設定関連のエンドポイント
	router.HandleFunc("GET /api/config", s.handleGetConfig)
	router.HandleFunc("PUT /api/config", requireJSON(s.handleUpdateConfig))
	router.HandleFunc("POST /api/config/save", requireJSON(s.handleSaveConfig))

	// 選択肢
	router.HandleFunc("GET /api/actions", s.handleGetActions)
	router.HandleFunc("GET /api/devices", s.handleGetDevices)

	// サービス関連のエンドポイント
	router.HandleFunc("POST /api/service/start", requireJSON(s.handleStartService))
	router.HandleFunc("POST /api/service/stop", requireJSON(s.handleStopService))
	router.HandleFunc("GET /api/service/status", s.handleServiceStatus)

	// ヘルスチェック用エンドポイント
	router.HandleFunc("GET /api/health", s.handleHealthCheck)
}

// requireJSON は変更系のリクエストに application/json を要求する。
// フォーム送信や text/plain のクロスサイト要求はここで 415 になる
func requireJSON(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			writeError(w, http.StatusUnsupportedMediaType, "Content-Type は application/json である必要があります")
			return
		}
		next(w, r)
	}
}

// 設定取得ハンドラ
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Config())
}

// 設定更新ハンドラ。省略されたフィールドは現在の値のまま
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	newConfig := s.service.Config().Clone()

	if err := json.NewDecoder(r.Body).Decode(newConfig); err != nil {
		writeError(w, http.StatusBadRequest, "設定の解析に失敗しました: "+err.Error())
		return
	}

	s.service.UpdateConfig(newConfig)
	writeJSON(w, http.StatusOK, s.service.Config())
}

// 設定保存ハンドラ
func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var saveRequest struct {
		Path string `json:"path"`
	}

	// ボディは省略可能
	if err := json.NewDecoder(r.Body).Decode(&saveRequest); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "リクエストの解析に失敗しました")
		return
	}

	configPath := saveRequest.Path
	if configPath != "" && !s.withinConfigDir(configPath) {
		writeError(w, http.StatusBadRequest, "保存先は設定ディレクトリ内に限られます: "+configPath)
		return
	}
	if configPath == "" {
		configPath = s.configPath
	}
	if configPath == "" {
		writeError(w, http.StatusInternalServerError, "保存先が指定されていません")
		return
	}

	if err := config.SaveConfig(configPath, s.service.Config()); err != nil {
		writeError(w, http.StatusInternalServerError, "設定の保存に失敗しました: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"path":   configPath,
	})
}

// withinConfigDir は path が既定の設定ファイルと同じディレクトリ配下かを判定する
func (s *Server) withinConfigDir(path string) bool {
	if s.configPath == "" || !filepath.IsAbs(path) {
		return false
	}
	base, err := filepath.Abs(filepath.Dir(s.configPath))
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(base, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// 定義済みアクション一覧ハンドラ
func (s *Server) handleGetActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"actions": action.Names(),
		"wheel_functions": {
			string(config.ScrollHorizontal),
			string(config.VolumeControl),
			string(config.Zoom),
		},
	})
}

// デバイス一覧取得ハンドラ
func (s *Server) handleGetDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.listDevices()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "デバイス一覧の取得に失敗しました: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, devices)
}

// サービス起動ハンドラ
func (s *Server) handleStartService(w http.ResponseWriter, r *http.Request) {
	err := s.service.Start()
	switch {
	case errors.Is(err, ErrServiceRunning):
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_running"})
	case err != nil:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("サービスの起動に失敗しました: %v", err))
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
	}
}

// サービス停止ハンドラ
func (s *Server) handleStopService(w http.ResponseWriter, r *http.Request) {
	err := s.service.Stop()
	switch {
	case errors.Is(err, ErrServiceStopped):
		writeJSON(w, http.StatusOK, map[string]string{"status": "not_running"})
	case err != nil:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("サービスの停止に失敗しました: %v", err))
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
	}
}

// サービス状態取得ハンドラ
func (s *Server) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	status := "stopped"
	if s.service.IsRunning() {
		status = "running"
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// ヘルスチェックハンドラ
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
