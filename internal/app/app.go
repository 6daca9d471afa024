package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/vidshare/internal/auth"
	"github.com/hitoshi/vidshare/internal/blobstore"
	"github.com/hitoshi/vidshare/internal/comment"
	"github.com/hitoshi/vidshare/internal/config"
	"github.com/hitoshi/vidshare/internal/docstore"
	"github.com/hitoshi/vidshare/internal/handler"
	"github.com/hitoshi/vidshare/internal/logger"
	"github.com/hitoshi/vidshare/internal/metrics"
	"github.com/hitoshi/vidshare/internal/repository"
	"github.com/hitoshi/vidshare/internal/security"
	"github.com/hitoshi/vidshare/internal/video"
	"github.com/hitoshi/vidshare/internal/view"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) *config.Config {
	// 設定読み込み前にログを使えるようにする
	logger.SetupDefault(w)

	return config.Load()
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg := Init(w)

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はWebサーバーモードで起動する。
// ドキュメントストアとブロブストアに接続し、全依存関係をワイヤリングして
// HTTPサーバーを起動する。SIGINTまたはSIGTERMシグナルを受信すると
// グレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. ドキュメントストア接続
	db, err := openDocstore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer db.Close()

	// 2. ブロブストア接続
	ctx := context.Background()
	blobs, err := blobstore.New(ctx, blobstore.Config{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create blob store client: %w", err)
	}

	if err := blobs.EnsureBucket(ctx); err != nil {
		// バケット作成失敗は起動を妨げない。アップロード時に改めて失敗する
		slog.Warn("failed to ensure blob store bucket",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("error", err.Error()),
		)
	}

	// 3. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db, cfg.CollectionUsers)
	videoRepo := repository.NewPostgresVideoRepo(db, cfg.CollectionVideos)
	commentRepo := repository.NewPostgresCommentRepo(db, cfg.CollectionComments)
	sessionRepo := repository.NewPostgresSessionRepo(db, cfg.CollectionSessions)

	// 4. セキュリティサービスの初期化
	sanitizer := security.NewTextSanitizer()

	// 5. ドメインサービスの初期化
	authService := auth.NewService(userRepo, sessionRepo, sanitizer,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge})
	videoService := video.NewService(videoRepo, blobs, sanitizer)
	commentService := comment.NewService(commentRepo, sanitizer)

	// 6. ビューとメトリクスの初期化
	flash := view.NewFlashCodec(cfg.SessionSecret, cfg.CookieSecure)
	renderer, err := view.NewRenderer(flash)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 7. ルーターの構築
	router := handler.NewRouter(handler.RouterDeps{
		HealthChecker: db,
		SessionFinder: sessionRepo,
		Flash:         flash,
		View:          renderer,
		Logger:        slog.Default(),
		Metrics:       collector,
		Gatherer:      registry,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		VideoService:   videoService,
		CommentService: commentService,
		CommentLister:  commentService,
	})

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("web server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down web server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("web server stopped gracefully")
	return nil
}

// runMigrate はコレクションテーブルのマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
// openDocstore はドキュメントストアへの接続を開く。
// 到達確認の失敗は起動を妨げない。資格情報が欠落していても警告ログのみで
// プロセスは起動し、該当するストア操作がリクエスト処理時に失敗する。
func openDocstore(databaseURL string) (*sql.DB, error) {
	db, err := docstore.Open(databaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Warn("document store is not reachable; store operations will fail",
			slog.String("error", err.Error()),
		)
		return db, nil
	}

	slog.Info("document store connection established")
	return db, nil
}

func runMigrate(cfg *config.Config) error {
	slog.Info("running document store migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := docstore.EnsureCollections(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("document store migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
