package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/browser"

	"github.com/char5742/mxremap/internal/action"
	"github.com/char5742/mxremap/internal/api"
	"github.com/char5742/mxremap/internal/config"
)

func main() {
	// コマンドライン引数の解析
	useApi := flag.Bool("api", false, "APIサーバーモードで起動します")
	configPath := flag.String("config", "", "設定ファイルのパス (指定しない場合はデフォルトパスを使用)")
	port := flag.Int("port", 8080, "APIサーバーのポート番号")
	openBrowser := flag.Bool("browser", false, "APIサーバー起動後にブラウザで開きます")
	importLegacy := flag.String("import-legacy", "", "旧形式のJSON設定を取り込みます (\"default\" で ~/.mxmaster3s/actions.json)")
	flag.Parse()

	// デフォルト設定ファイルパスの設定
	cfgPath := *configPath
	if cfgPath == "" {
		configDir, err := config.GetDefaultConfigDir()
		if err != nil {
			log.Fatalf("設定ディレクトリの取得に失敗しました: %v", err)
		}
		cfgPath = filepath.Join(configDir, "config.toml")
	}

	if *importLegacy != "" {
		if err := runImport(*importLegacy, cfgPath); err != nil {
			log.Fatalf("旧設定の取り込みに失敗しました: %v", err)
		}
		return
	}

	// 設定ファイルの読み込み
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		fmt.Printf("設定ファイルの読み込みに失敗しました: %v\nデフォルト設定を使用します\n", err)
	} else {
		fmt.Printf("設定ファイルを読み込みました: %s\n", cfgPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := config.NewStore(cfg)
	service := api.NewRemapService(store, api.NewDeviceOpener(), action.ShellRunner{})

	// 設定ファイルの変更を監視
	watcher, err := config.NewWatcher(cfgPath, store)
	if err != nil {
		log.Printf("設定ファイルの監視を開始できませんでした: %v", err)
	} else {
		watcher.Start()
		defer watcher.Stop()
	}

	// APIモードかCLIモードかを判断
	if *useApi {
		fmt.Printf("APIサーバーモードで起動します (ポート: %d)...\n", *port)
		err = runApiServer(ctx, service, cfgPath, *port, *openBrowser)
	} else {
		fmt.Println("CLIモードで起動します...")
		err = runCLI(ctx, service)
	}
	if err != nil {
		log.Printf("%v", err)
		// defer を実行してから終了する
		stop()
		if watcher != nil {
			watcher.Stop()
		}
		os.Exit(1)
	}
}

// APIサーバーモードでの実行
func runApiServer(ctx context.Context, service *api.RemapService, cfgPath string, port int, openBrowser bool) error {
	server := api.NewServer(service, cfgPath, port)

	errc := make(chan error, 1)
	go func() { errc <- server.Start() }()

	if openBrowser {
		if err := browser.OpenURL(server.URL() + "/api/health"); err != nil {
			log.Printf("ブラウザを開けませんでした: %v", err)
		}
	}

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("APIサーバーの起動に失敗しました: %w", err)
		}
	case <-ctx.Done():
		fmt.Println("シャットダウンします...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			log.Printf("APIサーバーの停止に失敗しました: %v", err)
		}
	}

	if err := service.Stop(); err != nil && !errors.Is(err, api.ErrServiceStopped) {
		return err
	}
	return nil
}

// CLIモードでの実行
func runCLI(ctx context.Context, service *api.RemapService) error {
	if err := service.Start(); err != nil {
		return fmt.Errorf("リマップサービスの起動に失敗しました: %w", err)
	}

	// シグナルかサービスの終了まで待機
	finished := make(chan struct{})
	go func() {
		service.Wait()
		close(finished)
	}()

	select {
	case <-ctx.Done():
		fmt.Println("シャットダウンします...")
		if err := service.Stop(); err != nil && !errors.Is(err, api.ErrServiceStopped) {
			return err
		}
	case <-finished:
	}
	return nil
}

// runImport は旧形式の設定を TOML に変換して保存する
func runImport(src, dst string) error {
	if src == "default" {
		path, err := config.LegacyPath()
		if err != nil {
			return err
		}
		src = path
	}

	cfg, err := config.ImportLegacy(src)
	if err != nil {
		return err
	}
	if err := config.SaveConfig(dst, cfg); err != nil {
		return err
	}
	fmt.Printf("%s を %s に取り込みました\n", src, dst)
	return nil
}
