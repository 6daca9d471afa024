package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/vidshare/internal/model"
)

// PostgresUserRepo はPostgreSQLのJSONBコレクションを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db    *sql.DB
	table string
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
// tableは設定から渡されるコレクション名。識別子としてクォートして保持する。
func NewPostgresUserRepo(db *sql.DB, table string) *PostgresUserRepo {
	return &PostgresUserRepo{db: db, table: pq.QuoteIdentifier(table)}
}

// Create はユーザードキュメントを作成する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user document: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, r.table),
		user.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, r.table),
		id,
	).Scan(&doc)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	user := &model.User{}
	if err := json.Unmarshal(doc, user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user document: %w", err)
	}
	return user, nil
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
// emailは呼び出し側で小文字化済みであること。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE doc->>'email' = $1 LIMIT 1`, r.table),
		email,
	).Scan(&doc)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	user := &model.User{}
	if err := json.Unmarshal(doc, user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user document: %w", err)
	}
	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
