// Package repository はドキュメントストア上のコレクション単位の永続化を提供する。
//
// 各リポジトリはJSONBドキュメントのポイント書き込みと走査クエリのみを行う。
// 楽観的並行性制御は行わない（Replaceは無条件上書き、last-write-wins）。
// 見つからない場合はエラーではなく (nil, nil) を返す。
package repository

import (
	"context"

	"github.com/hitoshi/vidshare/internal/model"
)

// UserRepository はユーザードキュメントの永続化インターフェース。
// ユーザーは登録時に作成され、以後更新も削除もされない。
type UserRepository interface {
	// Create はユーザードキュメントを作成する。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	// emailは呼び出し側で小文字化済みであること。id以外のフィールドによる
	// 検索のため全パーティション走査になる。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// VideoRepository は動画ドキュメントの永続化インターフェース。
type VideoRepository interface {
	// Create は動画ドキュメントを作成する。
	Create(ctx context.Context, video *model.Video) error

	// FindByID は指定IDの動画を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Video, error)

	// ListAll は全動画をcreated_at降順（新しい順）で返す。
	ListAll(ctx context.Context) ([]*model.Video, error)

	// Replace はドキュメント全体を無条件に置き換える。並行性トークンは検査しない。
	Replace(ctx context.Context, video *model.Video) error

	// Delete は指定IDの動画ドキュメントを削除する。
	// 紐づくコメントはカスケード削除しない。
	Delete(ctx context.Context, id string) error
}

// CommentRepository はコメントドキュメントの永続化インターフェース。
type CommentRepository interface {
	// Create はコメントドキュメントを作成する。
	// video_idが実在する動画を指すかはここでは検証しない。
	Create(ctx context.Context, comment *model.Comment) error

	// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Comment, error)

	// ListByVideoID は指定動画のコメントをcreated_at昇順（古い順）で返す。
	ListByVideoID(ctx context.Context, videoID string) ([]*model.Comment, error)

	// Delete は指定IDのコメントドキュメントを削除する。
	Delete(ctx context.Context, id string) error
}

// SessionRepository はセッションドキュメントの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}
