// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// 登録時に作成され、以後このシステムの範囲では不変。削除する操作は存在しない。
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Video は投稿された動画のメタデータを表す。
// 動画本体はブロブストアに置かれ、VideoURLがそれを指す。
// Title、Description、UpdatedAtは所有者のみ変更できる。所有権は移転しない。
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"video_url"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Comment は動画へのコメントを表す。削除できるのは投稿者本人のみ。
// VideoIDの参照整合性はストアでは強制されない（呼び出し側の規律に依存する）。
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Session はユーザーのログインセッションを表す。
// テンプレート表示用にユーザー名とメールアドレスを非正規化して保持する。
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
