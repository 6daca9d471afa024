// Package video は動画の投稿、一覧、編集、削除のビジネスロジックを提供する。
package video

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/vidshare/internal/model"
	"github.com/hitoshi/vidshare/internal/repository"
	"github.com/hitoshi/vidshare/internal/security"
)

// allowedExtensions はアップロードを許可する動画ファイルの拡張子。
// 拡張子サフィックスのみで判定し、内容（マジックバイト）は検査しない。
var allowedExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
}

// defaultContentType はブラウザがMIMEタイプを申告しなかった場合の既定値。
const defaultContentType = "video/mp4"

// BlobUploader は動画サービスが必要とするブロブストアのインターフェース。
// blobstore.Clientの部分集合として定義する。
type BlobUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// UploadInput は動画投稿フォームの入力を表す。
type UploadInput struct {
	Title       string
	Description string
	File        io.Reader
	Filename    string
	ContentType string
}

// Service は動画に関するビジネスロジックを提供する。
type Service struct {
	videoRepo repository.VideoRepository
	blobs     BlobUploader
	sanitizer security.TextSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	videoRepo repository.VideoRepository,
	blobs BlobUploader,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		videoRepo: videoRepo,
		blobs:     blobs,
		sanitizer: sanitizer,
	}
}

// List は全動画を新しい順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Video, error) {
	videos, err := s.videoRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// Get は指定IDの動画を返す。見つからない場合は動画未検出エラーを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find video: %w", err)
	}
	if video == nil {
		return nil, model.NewVideoNotFoundError()
	}
	return video, nil
}

// Upload は動画ファイルをブロブストアへアップロードし、動画ドキュメントを作成する。
// アップロードが失敗した場合はドキュメントを一切作成しない（部分状態を残さない）。
// 所有者はセッションのユーザーに固定され、以後移転しない。
func (s *Service) Upload(ctx context.Context, owner *model.Session, in UploadInput) (*model.Video, error) {
	title := s.sanitizer.Sanitize(in.Title)
	description := s.sanitizer.Sanitize(in.Description)

	if title == "" || in.File == nil {
		return nil, model.NewValidationError("タイトルと動画ファイルは必須です。")
	}

	if !AllowedFile(in.Filename) {
		return nil, model.NewUnsupportedFileError()
	}

	key := uuid.New().String() + "_" + SanitizeFilename(in.Filename)

	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	videoURL, err := s.blobs.Upload(ctx, key, in.File, contentType)
	if err != nil {
		slog.Error("video upload failed",
			slog.String("blob_key", key),
			slog.String("error", err.Error()),
		)
		return nil, model.NewUploadFailedError()
	}

	now := time.Now().UTC()
	video := &model.Video{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		VideoURL:    videoURL,
		UserID:      owner.UserID,
		Username:    owner.Username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video document: %w", err)
	}

	slog.Info("video uploaded",
		slog.String("video_id", video.ID),
		slog.String("user_id", owner.UserID),
		slog.String("blob_key", key),
	)
	return video, nil
}

// Update はタイトルと説明を更新し、ドキュメント全体を置き換える。
// 所有者以外のリクエストは拒否する。並行編集はlast-write-winsになる。
func (s *Service) Update(ctx context.Context, requesterID, videoID, title, description string) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to find video: %w", err)
	}
	if video == nil {
		return nil, model.NewVideoNotFoundError()
	}
	if video.UserID != requesterID {
		return nil, model.NewForbiddenError("動画の編集")
	}

	title = s.sanitizer.Sanitize(title)
	if title == "" {
		return nil, model.NewValidationError("タイトルは必須です。")
	}

	video.Title = title
	video.Description = s.sanitizer.Sanitize(description)
	video.UpdatedAt = time.Now().UTC()

	if err := s.videoRepo.Replace(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to replace video document: %w", err)
	}

	return video, nil
}

// Delete は動画ドキュメントを削除する。所有者以外のリクエストは拒否する。
// 紐づくコメントとブロブは削除しない。
func (s *Service) Delete(ctx context.Context, requesterID, videoID string) error {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to find video: %w", err)
	}
	if video == nil {
		return model.NewVideoNotFoundError()
	}
	if video.UserID != requesterID {
		return model.NewForbiddenError("動画の削除")
	}

	if err := s.videoRepo.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("failed to delete video document: %w", err)
	}

	slog.Info("video deleted",
		slog.String("video_id", videoID),
		slog.String("user_id", requesterID),
	)
	return nil
}

// AllowedFile はファイル名の拡張子が許可リストに含まれる場合にtrueを返す。
// 大文字小文字は区別しない。
func AllowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SanitizeFilename はファイル名をブロブキーとして安全な形に正規化する。
// パス区切りを除去し、英数字とピリオド、ハイフン、アンダースコア以外を
// アンダースコアに置き換える。
func SanitizeFilename(filename string) string {
	base := filepath.Base(filename)

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return strings.TrimLeft(b.String(), ".")
}
