// Package model はドメインモデルを定義する。
package model

import "fmt"

// フラッシュメッセージのカテゴリ。AppError.Categoryにもそのまま使う。
const (
	CategoryError   = "error"
	CategorySuccess = "success"
	CategoryInfo    = "info"
)

// AppError はユーザーに提示するエラーの統一フォーマットを表す。
// Messageはそのままフラッシュメッセージとして画面に表示される。
type AppError struct {
	Code     string // エラーコード
	Message  string // ユーザー向けメッセージ
	Category string // フラッシュカテゴリ: error, success, info
}

// Error はerrorインターフェースを実装する。
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation        = "VALIDATION"
	ErrCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredential = "INVALID_CREDENTIAL"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeVideoNotFound     = "VIDEO_NOT_FOUND"
	ErrCodeCommentNotFound   = "COMMENT_NOT_FOUND"
	ErrCodeUnsupportedFile   = "UNSUPPORTED_FILE"
	ErrCodeUploadFailed      = "UPLOAD_FAILED"
)

// NewValidationError は必須項目の欠落など入力検証エラーを生成する。
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: CategoryError,
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError() *AppError {
	return &AppError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "このメールアドレスは既に登録されています。",
		Category: CategoryError,
	}
}

// NewInvalidCredentialError は認証失敗エラーを生成する。
// メールアドレスの存在有無を区別できないよう、常に同一メッセージを返す。
func NewInvalidCredentialError() *AppError {
	return &AppError{
		Code:     ErrCodeInvalidCredential,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: CategoryError,
	}
}

// NewForbiddenError は所有者以外による編集・削除の試行エラーを生成する。
func NewForbiddenError(action string) *AppError {
	return &AppError{
		Code:     ErrCodeForbidden,
		Message:  fmt.Sprintf("この%sを行う権限がありません。", action),
		Category: CategoryError,
	}
}

// NewVideoNotFoundError は動画未検出エラーを生成する。
func NewVideoNotFoundError() *AppError {
	return &AppError{
		Code:     ErrCodeVideoNotFound,
		Message:  "動画が見つかりません。",
		Category: CategoryError,
	}
}

// NewCommentNotFoundError はコメント未検出エラーを生成する。
func NewCommentNotFoundError() *AppError {
	return &AppError{
		Code:     ErrCodeCommentNotFound,
		Message:  "コメントが見つかりません。",
		Category: CategoryError,
	}
}

// NewUnsupportedFileError は許可されていない拡張子のアップロードエラーを生成する。
func NewUnsupportedFileError() *AppError {
	return &AppError{
		Code:     ErrCodeUnsupportedFile,
		Message:  "対応していないファイル形式です。mp4 / mov / avi / mkv のみアップロードできます。",
		Category: CategoryError,
	}
}

// NewUploadFailedError はブロブストアへのアップロード失敗エラーを生成する。
// 失敗の詳細はログにのみ記録し、ユーザーには汎用メッセージを返す。
func NewUploadFailedError() *AppError {
	return &AppError{
		Code:     ErrCodeUploadFailed,
		Message:  "動画のアップロードに失敗しました。しばらく待ってから再度お試しください。",
		Category: CategoryError,
	}
}
