package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/vidshare/internal/model"
)

// PostgresVideoRepo はPostgreSQLのJSONBコレクションを使用した動画リポジトリ。
type PostgresVideoRepo struct {
	db    *sql.DB
	table string
}

// NewPostgresVideoRepo はPostgresVideoRepoを生成する。
// tableは設定から渡されるコレクション名。識別子としてクォートして保持する。
func NewPostgresVideoRepo(db *sql.DB, table string) *PostgresVideoRepo {
	return &PostgresVideoRepo{db: db, table: pq.QuoteIdentifier(table)}
}

// Create は動画ドキュメントを作成する。
func (r *PostgresVideoRepo) Create(ctx context.Context, video *model.Video) error {
	doc, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("failed to marshal video document: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, r.table),
		video.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}

// FindByID は指定IDの動画を取得する。見つからない場合はnilを返す。
// パーティションキー＝idのポイント読み取りのみ。クロスパーティションの
// フォールバック検索は行わない（作成時にid分割を強制しているため不要）。
func (r *PostgresVideoRepo) FindByID(ctx context.Context, id string) (*model.Video, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, r.table),
		id,
	).Scan(&doc)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find video by ID: %w", err)
	}

	video := &model.Video{}
	if err := json.Unmarshal(doc, video); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video document: %w", err)
	}
	return video, nil
}

// ListAll は全動画をcreated_at降順（新しい順）で返す。
func (r *PostgresVideoRepo) ListAll(ctx context.Context) ([]*model.Video, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s ORDER BY (doc->>'created_at')::timestamptz DESC`, r.table),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []*model.Video
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan video document: %w", err)
		}
		video := &model.Video{}
		if err := json.Unmarshal(doc, video); err != nil {
			return nil, fmt.Errorf("failed to unmarshal video document: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate videos: %w", err)
	}

	return videos, nil
}

// Replace はドキュメント全体を無条件に置き換える。
// 並行編集はlast-write-winsになる。
func (r *PostgresVideoRepo) Replace(ctx context.Context, video *model.Video) error {
	doc, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("failed to marshal video document: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET doc = $2 WHERE id = $1`, r.table),
		video.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to replace video: %w", err)
	}
	return nil
}

// Delete は指定IDの動画ドキュメントを削除する。コメントはカスケード削除しない。
func (r *PostgresVideoRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}

// compile-time interface check
var _ VideoRepository = (*PostgresVideoRepo)(nil)
