package security

import (
	"testing"
)

func TestTextSanitizer_ImplementsInterface(t *testing.T) {
	var _ TextSanitizerService = (*textSanitizer)(nil)
}

func TestSanitize_RemovesAllHTMLTags(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"プレーンテキストはそのまま", "こんにちは", "こんにちは"},
		{"scriptタグを除去", `<script>alert("xss")</script>残る`, "残る"},
		{"通常のタグも除去", "<b>太字</b>と<i>斜体</i>", "太字と斜体"},
		{"imgのonerrorを除去", `<img src=x onerror=alert(1)>テキスト`, "テキスト"},
		{"前後の空白を除去", "  タイトル  ", "タイトル"},
		{"空文字列", "", ""},
		{"空白のみ", "   ", ""},
		{"アンカーも除去", `<a href="https://evil.example.com">リンク</a>`, "リンク"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// 同一入力に対して常に同一出力を返すこと（冪等性）
func TestSanitize_IsIdempotent(t *testing.T) {
	s := NewTextSanitizer()

	inputs := []string{"普通のテキスト", "<b>タグ入り</b>", "  空白入り  "}
	for _, in := range inputs {
		once := s.Sanitize(in)
		twice := s.Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}
