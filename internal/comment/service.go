// Package comment は動画へのコメントの投稿、一覧、削除のビジネスロジックを提供する。
package comment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/vidshare/internal/model"
	"github.com/hitoshi/vidshare/internal/repository"
	"github.com/hitoshi/vidshare/internal/security"
)

// Service はコメントに関するビジネスロジックを提供する。
type Service struct {
	commentRepo repository.CommentRepository
	sanitizer   security.TextSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	commentRepo repository.CommentRepository,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		commentRepo: commentRepo,
		sanitizer:   sanitizer,
	}
}

// Add は動画へのコメントを作成する。
// videoIDが実在する動画を指すかは検証しない。動画の削除とコメントの作成が
// 競合した場合、孤立したコメントが残り得る（ストアに参照整合性はない）。
func (s *Service) Add(ctx context.Context, author *model.Session, videoID, text string) (*model.Comment, error) {
	text = s.sanitizer.Sanitize(text)
	if text == "" {
		return nil, model.NewValidationError("コメントを入力してください。")
	}

	comment := &model.Comment{
		ID:        uuid.New().String(),
		VideoID:   videoID,
		UserID:    author.UserID,
		Username:  author.Username,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment document: %w", err)
	}

	return comment, nil
}

// ListByVideo は指定動画のコメントを古い順で返す。
func (s *Service) ListByVideo(ctx context.Context, videoID string) ([]*model.Comment, error) {
	comments, err := s.commentRepo.ListByVideoID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Delete はコメントを削除し、リダイレクト用に紐づく動画のIDを返す。
// 投稿者以外のリクエストは拒否するが、その場合も動画IDは返す
// （ハンドラーが動画詳細ページへリダイレクトできるように）。
func (s *Service) Delete(ctx context.Context, requesterID, commentID string) (string, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return "", fmt.Errorf("failed to find comment: %w", err)
	}
	if comment == nil {
		return "", model.NewCommentNotFoundError()
	}
	if comment.UserID != requesterID {
		return comment.VideoID, model.NewForbiddenError("コメントの削除")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return "", fmt.Errorf("failed to delete comment document: %w", err)
	}

	slog.Info("comment deleted",
		slog.String("comment_id", commentID),
		slog.String("user_id", requesterID),
	)
	return comment.VideoID, nil
}
