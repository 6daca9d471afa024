package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/vidshare/internal/middleware"
	"github.com/hitoshi/vidshare/internal/model"
	"github.com/hitoshi/vidshare/internal/view"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	Add(ctx context.Context, session *model.Session, videoID, text string) (*model.Comment, error)
	Delete(ctx context.Context, requesterID, commentID string) (string, error)
}

// CommentMetricsRecorder はコメント作成メトリクスを記録する。nilを許容する。
type CommentMetricsRecorder interface {
	RecordCommentCreated()
}

// CommentHandler はコメントの投稿・削除のHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
	metrics CommentMetricsRecorder
	flash   *view.FlashCodec
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface, metrics CommentMetricsRecorder, flash *view.FlashCodec) *CommentHandler {
	return &CommentHandler{
		service: service,
		metrics: metrics,
		flash:   flash,
	}
}

// Create は動画にコメントを追加する。
// POST /video/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		redirectWithFlash(w, r, h.flash, "/login",
			"続行するにはログインしてください。", model.CategoryError)
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, h.flash, "/video/"+videoID,
			model.NewValidationError("フォームの内容を読み取れませんでした。"))
		return
	}

	_, err := h.service.Add(r.Context(), session, videoID, r.PostFormValue("text"))
	if err != nil {
		redirectWithError(w, r, h.flash, "/video/"+videoID, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCommentCreated()
	}
	redirectWithFlash(w, r, h.flash, "/video/"+videoID,
		"コメントを追加しました。", model.CategorySuccess)
}

// Delete はコメントを削除する。所有者のみ。
// 削除後（および権限エラー時）はコメントが属する動画の詳細ページへ戻す。
// POST /comment/{id}/delete
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID := chi.URLParam(r, "id")
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		redirectWithFlash(w, r, h.flash, "/login",
			"続行するにはログインしてください。", model.CategoryError)
		return
	}

	videoID, err := h.service.Delete(r.Context(), session.UserID, commentID)
	if err != nil {
		// 動画IDが特定できないままの失敗（取得エラー等）はホームへ戻す
		target := "/"
		if videoID != "" {
			target = "/video/" + videoID
		}
		redirectWithError(w, r, h.flash, target, err)
		return
	}

	redirectWithFlash(w, r, h.flash, "/video/"+videoID,
		"コメントを削除しました。", model.CategoryInfo)
}
