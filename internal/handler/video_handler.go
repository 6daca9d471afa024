package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/vidshare/internal/middleware"
	"github.com/hitoshi/vidshare/internal/model"
	"github.com/hitoshi/vidshare/internal/video"
	"github.com/hitoshi/vidshare/internal/view"
)

// maxUploadMemory はマルチパートフォームをメモリに保持する上限。超過分は一時ファイルへ。
const maxUploadMemory = 32 << 20

// VideoServiceInterface は動画ハンドラーが必要とするサービスインターフェース。
type VideoServiceInterface interface {
	List(ctx context.Context) ([]*model.Video, error)
	Get(ctx context.Context, id string) (*model.Video, error)
	Upload(ctx context.Context, owner *model.Session, in video.UploadInput) (*model.Video, error)
	Update(ctx context.Context, requesterID, videoID, title, description string) (*model.Video, error)
	Delete(ctx context.Context, requesterID, videoID string) error
}

// CommentLister は動画詳細ページに表示するコメントの取得インターフェース。
type CommentLister interface {
	ListByVideo(ctx context.Context, videoID string) ([]*model.Comment, error)
}

// UploadMetricsRecorder はアップロード関連のメトリクスを記録する。nilを許容する。
type UploadMetricsRecorder interface {
	RecordVideoUploaded()
	RecordUploadFailure()
}

// VideoHandler は動画の一覧・詳細・投稿・編集・削除のHTTPハンドラー。
type VideoHandler struct {
	service  VideoServiceInterface
	comments CommentLister
	metrics  UploadMetricsRecorder
	view     *view.Renderer
	flash    *view.FlashCodec
}

// NewVideoHandler はVideoHandlerを生成する。
func NewVideoHandler(service VideoServiceInterface, comments CommentLister, metrics UploadMetricsRecorder, v *view.Renderer, flash *view.FlashCodec) *VideoHandler {
	return &VideoHandler{
		service:  service,
		comments: comments,
		metrics:  metrics,
		view:     v,
		flash:    flash,
	}
}

// Index は動画フィード（新しい順）を表示する。
// GET /
func (h *VideoHandler) Index(w http.ResponseWriter, r *http.Request) {
	videos, err := h.service.List(r.Context())
	if err != nil {
		// フィード取得に失敗しても空のページは表示する
		slog.Error("failed to list videos", slog.String("error", err.Error()))
		videos = nil
	}

	h.view.Render(w, r, "index.html", &view.PageData{
		Title:  "ホーム",
		Videos: videos,
	})
}

// ShowNew は動画投稿フォームを表示する。
// GET /video/new
func (h *VideoHandler) ShowNew(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, "new_video.html", &view.PageData{Title: "動画を投稿"})
}

// Create はアップロードされた動画ファイルを保存する。
// POST /video/new
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		redirectWithFlash(w, r, h.flash, "/login",
			"続行するにはログインしてください。", model.CategoryError)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		redirectWithError(w, r, h.flash, "/video/new",
			model.NewValidationError("フォームの内容を読み取れませんでした。"))
		return
	}

	file, header, err := r.FormFile("video_file")
	if err != nil {
		redirectWithError(w, r, h.flash, "/video/new",
			model.NewValidationError("動画ファイルを選択してください。"))
		return
	}
	defer file.Close()

	_, err = h.service.Upload(r.Context(), session, video.UploadInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		File:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) && appErr.Code == model.ErrCodeUploadFailed && h.metrics != nil {
			h.metrics.RecordUploadFailure()
		}
		redirectWithError(w, r, h.flash, "/video/new", err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordVideoUploaded()
	}
	redirectWithFlash(w, r, h.flash, "/", "動画をアップロードしました！", model.CategorySuccess)
}

// Detail は動画の詳細ページ（プレイヤーとコメント）を表示する。
// GET /video/{id}
func (h *VideoHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	v, err := h.service.Get(r.Context(), id)
	if err != nil {
		redirectWithError(w, r, h.flash, "/", err)
		return
	}

	comments, err := h.comments.ListByVideo(r.Context(), id)
	if err != nil {
		redirectWithError(w, r, h.flash, "/", err)
		return
	}

	h.view.Render(w, r, "video_detail.html", &view.PageData{
		Title:    v.Title,
		Video:    v,
		Comments: comments,
	})
}

// ShowEdit は動画の編集フォームを表示する。所有者のみ。
// GET /video/{id}/edit
func (h *VideoHandler) ShowEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, ok := middleware.SessionFromContext(r.Context())

	v, err := h.service.Get(r.Context(), id)
	if err != nil {
		redirectWithError(w, r, h.flash, "/", err)
		return
	}
	if !ok || v.UserID != session.UserID {
		redirectWithError(w, r, h.flash, "/", model.NewForbiddenError("動画の編集"))
		return
	}

	h.view.Render(w, r, "edit_video.html", &view.PageData{
		Title:           "動画を編集",
		Video:           v,
		FormTitle:       v.Title,
		FormDescription: v.Description,
	})
}

// Edit は動画のタイトルと説明を更新する。所有者のみ。
// POST /video/{id}/edit
func (h *VideoHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		redirectWithFlash(w, r, h.flash, "/login",
			"続行するにはログインしてください。", model.CategoryError)
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, h.flash, "/video/"+id+"/edit",
			model.NewValidationError("フォームの内容を読み取れませんでした。"))
		return
	}

	_, err := h.service.Update(r.Context(), session.UserID, id,
		r.PostFormValue("title"),
		r.PostFormValue("description"),
	)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) && appErr.Code == model.ErrCodeValidation {
			redirectWithError(w, r, h.flash, "/video/"+id+"/edit", err)
			return
		}
		redirectWithError(w, r, h.flash, "/", err)
		return
	}

	redirectWithFlash(w, r, h.flash, "/video/"+id, "動画を更新しました。", model.CategorySuccess)
}

// Delete は動画ドキュメントを削除する。所有者のみ。
// POST /video/{id}/delete
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		redirectWithFlash(w, r, h.flash, "/login",
			"続行するにはログインしてください。", model.CategoryError)
		return
	}

	if err := h.service.Delete(r.Context(), session.UserID, id); err != nil {
		redirectWithError(w, r, h.flash, "/", err)
		return
	}

	redirectWithFlash(w, r, h.flash, "/", "動画を削除しました。", model.CategoryInfo)
}
