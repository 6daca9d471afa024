package config

import (
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"DATABASE_URL",
		"COLLECTION_VIDEOS", "COLLECTION_USERS", "COLLECTION_COMMENTS",
		"COLLECTION_SESSIONS",
		"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_BUCKET", "S3_PUBLIC_BASE_URL",
		"SESSION_SECRET", "SESSION_MAX_AGE",
		"SERVER_PORT", "COOKIE_SECURE",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.CollectionVideos != "videos" || cfg.CollectionUsers != "users" ||
		cfg.CollectionComments != "comments" || cfg.CollectionSessions != "sessions" {
		t.Errorf("collections = %q/%q/%q/%q, want videos/users/comments/sessions",
			cfg.CollectionVideos, cfg.CollectionUsers, cfg.CollectionComments, cfg.CollectionSessions)
	}
	if cfg.S3Region != "us-east-1" {
		t.Errorf("S3Region = %q, want us-east-1", cfg.S3Region)
	}
	if cfg.S3Bucket != "videos" {
		t.Errorf("S3Bucket = %q, want videos", cfg.S3Bucket)
	}
	if cfg.SessionSecret != "dev-secret-key" {
		t.Errorf("SessionSecret = %q, want development default", cfg.SessionSecret)
	}
	if cfg.SessionMaxAge != 86400 {
		t.Errorf("SessionMaxAge = %d, want 86400", cfg.SessionMaxAge)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure should default to false")
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/vidshare")
	t.Setenv("COLLECTION_VIDEOS", "clips")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("S3_ACCESS_KEY", "ak")
	t.Setenv("S3_SECRET_KEY", "sk")
	t.Setenv("S3_PUBLIC_BASE_URL", "https://cdn.example.com")
	t.Setenv("SESSION_SECRET", "prod-secret")
	t.Setenv("SESSION_MAX_AGE", "3600")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	if cfg.DatabaseURL != "postgres://u:p@db:5432/vidshare" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.CollectionVideos != "clips" {
		t.Errorf("CollectionVideos = %q, want clips", cfg.CollectionVideos)
	}
	if cfg.S3Endpoint != "http://minio:9000" {
		t.Errorf("S3Endpoint = %q", cfg.S3Endpoint)
	}
	if cfg.S3PublicBaseURL != "https://cdn.example.com" {
		t.Errorf("S3PublicBaseURL = %q", cfg.S3PublicBaseURL)
	}
	if cfg.SessionSecret != "prod-secret" {
		t.Errorf("SessionSecret = %q", cfg.SessionSecret)
	}
	if cfg.SessionMaxAge != 3600 {
		t.Errorf("SessionMaxAge = %d, want 3600", cfg.SessionMaxAge)
	}
	if cfg.ServerPort != "9000" {
		t.Errorf("ServerPort = %q, want 9000", cfg.ServerPort)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure should be true")
	}
}

func TestLoad_InvalidInt_FallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_MAX_AGE", "not-a-number")

	cfg := Load()
	if cfg.SessionMaxAge != 86400 {
		t.Errorf("SessionMaxAge = %d, want default 86400", cfg.SessionMaxAge)
	}
}

func TestLoad_InvalidBool_FallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("COOKIE_SECURE", "yes-please")

	cfg := Load()
	if cfg.CookieSecure {
		t.Error("CookieSecure should fall back to false for invalid values")
	}
}
