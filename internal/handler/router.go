package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/vidshare/internal/metrics"
	"github.com/hitoshi/vidshare/internal/middleware"
	"github.com/hitoshi/vidshare/internal/view"
)

// HealthChecker はデータベース接続の死活確認インターフェース。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はルーターが必要とする依存関係をまとめる。
type RouterDeps struct {
	HealthChecker  HealthChecker
	SessionFinder  middleware.SessionFinder
	Flash          *view.FlashCodec
	View           *view.Renderer
	Logger         *slog.Logger
	Metrics        *metrics.Collector
	Gatherer       prometheus.Gatherer
	AuthService    AuthServiceInterface
	AuthConfig     AuthHandlerConfig
	VideoService   VideoServiceInterface
	CommentService CommentServiceInterface
	CommentLister  CommentLister
}

// NewRouter はすべてのルートとミドルウェアを構成したルーターを返す。
func NewRouter(deps RouterDeps) http.Handler {
	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.View, deps.Flash)
	videoHandler := NewVideoHandler(deps.VideoService, deps.CommentLister, deps.Metrics, deps.View, deps.Flash)
	commentHandler := NewCommentHandler(deps.CommentService, deps.Metrics, deps.Flash)

	var httpMetrics middleware.HTTPMetricsRecorder
	if deps.Metrics != nil {
		httpMetrics = deps.Metrics
	}

	r := chi.NewRouter()
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, httpMetrics))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// 認証不要のページ
	r.Get("/", videoHandler.Index)
	r.Get("/register", authHandler.ShowRegister)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.ShowLogin)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)
	r.Get("/video/{id}", videoHandler.Detail)

	// ログイン必須のページ（chiは静的パス /video/new を {id} より優先する）
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(deps.Flash))
		r.Get("/video/new", videoHandler.ShowNew)
		r.Post("/video/new", videoHandler.Create)
		r.Get("/video/{id}/edit", videoHandler.ShowEdit)
		r.Post("/video/{id}/edit", videoHandler.Edit)
		r.Post("/video/{id}/delete", videoHandler.Delete)
		r.Post("/video/{id}/comments", commentHandler.Create)
		r.Post("/comment/{id}/delete", commentHandler.Delete)
	})

	return r
}
