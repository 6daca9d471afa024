package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/vidshare/internal/model"
)

// PostgresCommentRepo はPostgreSQLのJSONBコレクションを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db    *sql.DB
	table string
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
// tableは設定から渡されるコレクション名。識別子としてクォートして保持する。
func NewPostgresCommentRepo(db *sql.DB, table string) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db, table: pq.QuoteIdentifier(table)}
}

// Create はコメントドキュメントを作成する。
// video_idが実在する動画を指すかはここでは検証しない。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	doc, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal comment document: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, r.table),
		comment.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
func (r *PostgresCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, r.table),
		id,
	).Scan(&doc)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find comment by ID: %w", err)
	}

	comment := &model.Comment{}
	if err := json.Unmarshal(doc, comment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment document: %w", err)
	}
	return comment, nil
}

// ListByVideoID は指定動画のコメントをcreated_at昇順（古い順）で返す。
// video_idはid以外のフィールドのため全パーティション走査になる。
func (r *PostgresCommentRepo) ListByVideoID(ctx context.Context, videoID string) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s
		 WHERE doc->>'video_id' = $1
		 ORDER BY (doc->>'created_at')::timestamptz ASC`, r.table),
		videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan comment document: %w", err)
		}
		comment := &model.Comment{}
		if err := json.Unmarshal(doc, comment); err != nil {
			return nil, fmt.Errorf("failed to unmarshal comment document: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// Delete は指定IDのコメントドキュメントを削除する。
func (r *PostgresCommentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
