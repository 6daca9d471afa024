package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// NewRecoveryMiddleware はハンドラー内のpanicを捕捉し、500レスポンスに
// 変換するミドルウェアを生成する。ログインユーザーが判明している場合は
// ログにuser_idを付与する。
func NewRecoveryMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				attrs := []any{
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				}
				if session, ok := SessionFromContext(r.Context()); ok {
					attrs = append(attrs, slog.String("user_id", session.UserID))
				}
				slog.Error("panic recovered", attrs...)
				http.Error(w, "サーバー内部でエラーが発生しました。", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
