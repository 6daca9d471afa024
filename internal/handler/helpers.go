// Package handler はHTTPハンドラーを提供する。
//
// すべてのPOSTハンドラーは303 See OtherでGETビューへリダイレクトし、
// 結果はカテゴリ付きフラッシュメッセージとして次のページで一度だけ表示される。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/vidshare/internal/model"
	"github.com/hitoshi/vidshare/internal/view"
)

// genericErrorMessage は想定外の上流障害をユーザーに伝える汎用メッセージ。
// 障害の詳細はログにのみ記録する。
const genericErrorMessage = "エラーが発生しました。しばらく待ってから再度お試しください。"

// redirectWithFlash はフラッシュメッセージを設定して303リダイレクトする。
func redirectWithFlash(w http.ResponseWriter, r *http.Request, flash *view.FlashCodec, path, message, category string) {
	flash.Set(w, message, category)
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError はエラーをフラッシュメッセージに変換して303リダイレクトする。
// AppErrorはそのままユーザーに表示し、それ以外（ストア障害など）は
// ログに記録したうえで汎用メッセージを表示する。
func redirectWithError(w http.ResponseWriter, r *http.Request, flash *view.FlashCodec, path string, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		flash.Set(w, appErr.Message, appErr.Category)
	} else {
		slog.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		flash.Set(w, genericErrorMessage, model.CategoryError)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
