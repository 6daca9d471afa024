// Package docstore はドキュメントストアの接続とコレクション管理を提供する。
//
// 各コレクションは (id TEXT PRIMARY KEY, doc JSONB) の1テーブルとして保持し、
// ドキュメントは自身のidで自己パーティションされる。id以外のフィールドによる
// 検索はJSONBの全件走査になる。コレクション間に外部キー制約は張らない。
package docstore

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator はマイグレーション実行用のmigrateインスタンスを生成する。
// databaseURLはPostgreSQLの接続URLを指定する。
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}

// EnsureCollections は全コレクションを冪等に作成する。
// すでに最新の場合はエラーなしで返る。
func EnsureCollections(databaseURL string) error {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to ensure collections: %w", err)
	}

	return nil
}
