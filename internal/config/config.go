// Package config は環境変数からのアプリケーション設定の読み込みを提供する。
package config

import (
	"log/slog"
	"os"
	"strconv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Document store
	DatabaseURL        string
	CollectionVideos   string
	CollectionUsers    string
	CollectionComments string
	CollectionSessions string

	// Blob store
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3PublicBaseURL string

	// Session
	SessionSecret string
	SessionMaxAge int

	// Server
	ServerPort   string
	CookieSecure bool
}

// defaultSessionSecret は開発用のフォールバック値。本番では必ず上書きする。
const defaultSessionSecret = "dev-secret-key"

// Load は環境変数からConfigを読み込む。
// ストア資格情報の欠落は警告ログを出すのみで、起動自体は妨げない
// （該当するストア操作がリクエスト処理時に失敗する）。
func Load() *Config {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		CollectionVideos:   getEnvString("COLLECTION_VIDEOS", "videos"),
		CollectionUsers:    getEnvString("COLLECTION_USERS", "users"),
		CollectionComments: getEnvString("COLLECTION_COMMENTS", "comments"),
		CollectionSessions: getEnvString("COLLECTION_SESSIONS", "sessions"),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        getEnvString("S3_REGION", "us-east-1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3Bucket:        getEnvString("S3_BUCKET", "videos"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),

		SessionSecret: getEnvString("SESSION_SECRET", defaultSessionSecret),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE", 86400),

		ServerPort:   getEnvString("SERVER_PORT", "8080"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL is not set; document store operations will fail")
	}
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		slog.Warn("S3_ACCESS_KEY or S3_SECRET_KEY is not set; blob store operations will fail")
	}
	if cfg.SessionSecret == defaultSessionSecret {
		slog.Warn("SESSION_SECRET is not set; using insecure development default")
	}

	return cfg
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
