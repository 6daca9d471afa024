// Package view はサーバーサイドレンダリングとフラッシュメッセージを提供する。
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/hitoshi/vidshare/internal/middleware"
	"github.com/hitoshi/vidshare/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// layoutFile は全ページ共通のレイアウトテンプレート。
const layoutFile = "layout.html"

// PageData はテンプレート描画に渡すデータを保持する。
// CurrentUserとFlashはRendererが自動で補完する。
type PageData struct {
	Title       string
	CurrentUser *model.Session
	Flash       *Flash
	Video       *model.Video
	Videos      []*model.Video
	Comments    []*model.Comment
	// フォーム再表示用の入力値
	FormTitle       string
	FormDescription string
}

// Renderer は埋め込みテンプレートによるHTML描画を行う。
// 初期化時に全ページをパースして保持し、以後は読み取り専用。
type Renderer struct {
	pages map[string]*template.Template
	flash *FlashCodec
}

// NewRenderer は埋め込みテンプレートをすべてパースしてRendererを生成する。
// 各ページはレイアウトと合成してパースされる。
func NewRenderer(flash *FlashCodec) (*Renderer, error) {
	entries, err := fs.ReadDir(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, entry := range entries {
		name := entry.Name()
		if name == layoutFile {
			continue
		}
		t, err := template.ParseFS(templatesFS,
			"templates/"+layoutFile,
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages, flash: flash}, nil
}

// Render は指定ページをレイアウトと合成して描画する。
// 未読のフラッシュメッセージと認証済みセッションをdataに補完する。
// 描画エラーはレスポンス書き込み前に検出するため、一旦バッファに描画する。
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, page string, data *PageData) {
	t, ok := rd.pages[page]
	if !ok {
		slog.Error("unknown template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	if data.Flash == nil {
		data.Flash = rd.flash.Pop(w, r)
	}
	if data.CurrentUser == nil {
		if session, ok := middleware.SessionFromContext(r.Context()); ok {
			data.CurrentUser = session
		}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
