package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/vidshare/internal/middleware"
	"github.com/hitoshi/vidshare/internal/model"
	"github.com/hitoshi/vidshare/internal/view"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はユーザー登録・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
	view    *view.Renderer
	flash   *view.FlashCodec
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, v *view.Renderer, flash *view.FlashCodec) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		view:    v,
		flash:   flash,
	}
}

// ShowRegister はユーザー登録フォームを表示する。
// GET /register
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, "register.html", &view.PageData{Title: "ユーザー登録"})
}

// Register はユーザー登録を処理する。
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, h.flash, "/register", model.NewValidationError("フォームの内容を読み取れませんでした。"))
		return
	}

	err := h.service.Register(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
	)
	if err != nil {
		redirectWithError(w, r, h.flash, "/register", err)
		return
	}

	redirectWithFlash(w, r, h.flash, "/login",
		"登録が完了しました。ログインしてください。", model.CategorySuccess)
}

// ShowLogin はログインフォームを表示する。
// GET /login
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, "login.html", &view.PageData{Title: "ログイン"})
}

// Login は資格情報を検証してセッションを発行する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, h.flash, "/login", model.NewValidationError("フォームの内容を読み取れませんでした。"))
		return
	}

	session, err := h.service.Login(r.Context(),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
	)
	if err != nil {
		redirectWithError(w, r, h.flash, "/login", err)
		return
	}

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	redirectWithFlash(w, r, h.flash, "/",
		fmt.Sprintf("おかえりなさい、%sさん！", session.Username), model.CategorySuccess)
}

// Logout はセッションを破棄してCookieをクリアする。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		// セッション削除に失敗してもCookieはクリアする
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	redirectWithFlash(w, r, h.flash, "/", "ログアウトしました。", model.CategoryInfo)
}
