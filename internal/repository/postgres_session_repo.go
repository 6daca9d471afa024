package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/vidshare/internal/model"
)

// PostgresSessionRepo はPostgreSQLのJSONBコレクションを使用したセッションリポジトリ。
type PostgresSessionRepo struct {
	db    *sql.DB
	table string
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
// tableは設定から渡されるコレクション名。識別子としてクォートして保持する。
func NewPostgresSessionRepo(db *sql.DB, table string) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db, table: pq.QuoteIdentifier(table)}
}

// Create はセッションを作成する。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session) error {
	doc, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session document: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, r.table),
		session.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s
		 WHERE id = $1 AND (doc->>'expires_at')::timestamptz > now()`, r.table),
		id,
	).Scan(&doc)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	session := &model.Session{}
	if err := json.Unmarshal(doc, session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session document: %w", err)
	}
	return session, nil
}

// DeleteByID は指定IDのセッションを削除する。
func (r *PostgresSessionRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
