package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/hitoshi/vidshare/internal/model"
	"github.com/hitoshi/vidshare/internal/view"
)

// --- モック定義 ---

type mockCommentService struct {
	addFn    func(ctx context.Context, session *model.Session, videoID, text string) (*model.Comment, error)
	deleteFn func(ctx context.Context, requesterID, commentID string) (string, error)
}

func (m *mockCommentService) Add(ctx context.Context, session *model.Session, videoID, text string) (*model.Comment, error) {
	if m.addFn != nil {
		return m.addFn(ctx, session, videoID, text)
	}
	return &model.Comment{ID: "c1"}, nil
}

func (m *mockCommentService) Delete(ctx context.Context, requesterID, commentID string) (string, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, requesterID, commentID)
	}
	return "", nil
}

func newCommentHandler(t *testing.T, svc CommentServiceInterface, metrics *mockUploadMetrics) (*CommentHandler, *view.FlashCodec) {
	t.Helper()
	_, codec := newTestView(t)
	return NewCommentHandler(svc, metrics, codec), codec
}

// --- Create ---

func TestCommentHandler_Create_Success_RedirectsToVideo(t *testing.T) {
	var gotVideoID, gotText string
	svc := &mockCommentService{
		addFn: func(ctx context.Context, session *model.Session, videoID, text string) (*model.Comment, error) {
			gotVideoID, gotText = videoID, text
			return &model.Comment{ID: "c1", VideoID: videoID, Text: text}, nil
		},
	}
	metrics := &mockUploadMetrics{}
	h, codec := newCommentHandler(t, svc, metrics)

	req := postForm("/video/v1/comments", url.Values{"text": {"いい動画ですね"}})
	req = withURLParam(req, "id", "v1")
	req = withSession(req, &model.Session{ID: "s1", UserID: "user-1", Username: "hanako"})
	w := httptest.NewRecorder()

	h.Create(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/video/v1" {
		t.Errorf("Location = %q, want /video/v1", loc)
	}
	if gotVideoID != "v1" || gotText != "いい動画ですね" {
		t.Errorf("Add called with %q/%q", gotVideoID, gotText)
	}
	if metrics.comments != 1 {
		t.Errorf("comments metric = %d, want 1", metrics.comments)
	}
	flash := popFlash(t, codec, resp)
	if flash == nil || flash.Category != model.CategorySuccess {
		t.Errorf("expected success flash, got %+v", flash)
	}
}

func TestCommentHandler_Create_EmptyText_RedirectsBackWithError(t *testing.T) {
	svc := &mockCommentService{
		addFn: func(ctx context.Context, session *model.Session, videoID, text string) (*model.Comment, error) {
			return nil, model.NewValidationError("コメントを入力してください。")
		},
	}
	metrics := &mockUploadMetrics{}
	h, codec := newCommentHandler(t, svc, metrics)

	req := postForm("/video/v1/comments", url.Values{"text": {""}})
	req = withURLParam(req, "id", "v1")
	req = withSession(req, &model.Session{ID: "s1", UserID: "user-1"})
	w := httptest.NewRecorder()

	h.Create(w, req)

	resp := w.Result()
	if loc := resp.Header.Get("Location"); loc != "/video/v1" {
		t.Errorf("Location = %q, want /video/v1", loc)
	}
	if metrics.comments != 0 {
		t.Errorf("comments metric = %d, want 0", metrics.comments)
	}
	flash := popFlash(t, codec, resp)
	if flash == nil || flash.Category != model.CategoryError {
		t.Errorf("expected error flash, got %+v", flash)
	}
}

// --- Delete ---

func TestCommentHandler_Delete_Success_RedirectsToVideo(t *testing.T) {
	svc := &mockCommentService{
		deleteFn: func(ctx context.Context, requesterID, commentID string) (string, error) {
			if requesterID != "user-1" || commentID != "c1" {
				t.Errorf("Delete called with %q/%q", requesterID, commentID)
			}
			return "v1", nil
		},
	}
	h, codec := newCommentHandler(t, svc, &mockUploadMetrics{})

	req := postForm("/comment/c1/delete", url.Values{})
	req = withURLParam(req, "id", "c1")
	req = withSession(req, &model.Session{ID: "s1", UserID: "user-1"})
	w := httptest.NewRecorder()

	h.Delete(w, req)

	resp := w.Result()
	if loc := resp.Header.Get("Location"); loc != "/video/v1" {
		t.Errorf("Location = %q, want /video/v1", loc)
	}
	flash := popFlash(t, codec, resp)
	if flash == nil || flash.Category != model.CategoryInfo {
		t.Errorf("expected info flash, got %+v", flash)
	}
}

// 投稿者以外の削除は拒否しつつ、コメントが属する動画の詳細ページへ戻すこと
func TestCommentHandler_Delete_Forbidden_RedirectsToVideoWithError(t *testing.T) {
	svc := &mockCommentService{
		deleteFn: func(ctx context.Context, requesterID, commentID string) (string, error) {
			return "v1", model.NewForbiddenError("コメントの削除")
		},
	}
	h, codec := newCommentHandler(t, svc, &mockUploadMetrics{})

	req := postForm("/comment/c1/delete", url.Values{})
	req = withURLParam(req, "id", "c1")
	req = withSession(req, &model.Session{ID: "s1", UserID: "intruder"})
	w := httptest.NewRecorder()

	h.Delete(w, req)

	resp := w.Result()
	if loc := resp.Header.Get("Location"); loc != "/video/v1" {
		t.Errorf("Location = %q, want /video/v1", loc)
	}
	flash := popFlash(t, codec, resp)
	if flash == nil || flash.Category != model.CategoryError {
		t.Errorf("expected error flash, got %+v", flash)
	}
}

// 動画IDが特定できないストア障害ではルーティング不能な /video/ ではなく
// ホームへ戻すこと
func TestCommentHandler_Delete_RepoFailure_RedirectsHome(t *testing.T) {
	svc := &mockCommentService{
		deleteFn: func(ctx context.Context, requesterID, commentID string) (string, error) {
			return "", errors.New("pq: connection refused")
		},
	}
	h, codec := newCommentHandler(t, svc, &mockUploadMetrics{})

	req := postForm("/comment/c1/delete", url.Values{})
	req = withURLParam(req, "id", "c1")
	req = withSession(req, &model.Session{ID: "s1", UserID: "user-1"})
	w := httptest.NewRecorder()

	h.Delete(w, req)

	resp := w.Result()
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
	flash := popFlash(t, codec, resp)
	if flash == nil || flash.Category != model.CategoryError {
		t.Errorf("expected error flash, got %+v", flash)
	}
}

func TestCommentHandler_Delete_NotFound_RedirectsHome(t *testing.T) {
	svc := &mockCommentService{
		deleteFn: func(ctx context.Context, requesterID, commentID string) (string, error) {
			return "", model.NewCommentNotFoundError()
		},
	}
	h, codec := newCommentHandler(t, svc, &mockUploadMetrics{})

	req := postForm("/comment/missing/delete", url.Values{})
	req = withURLParam(req, "id", "missing")
	req = withSession(req, &model.Session{ID: "s1", UserID: "user-1"})
	w := httptest.NewRecorder()

	h.Delete(w, req)

	resp := w.Result()
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
	flash := popFlash(t, codec, resp)
	if flash == nil || flash.Category != model.CategoryError {
		t.Errorf("expected error flash, got %+v", flash)
	}
}
