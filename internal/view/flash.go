package view

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
)

// flashCookieName はフラッシュメッセージを運ぶ一回限りのCookieの名前。
const flashCookieName = "flash"

// Flash は次の描画ページで一度だけ表示される通知を表す。
type Flash struct {
	Message  string `json:"message"`
	Category string `json:"category"` // error, success, info
}

// FlashCodec はフラッシュメッセージのCookieへの署名付き書き込みと読み出しを行う。
// 値はHMAC-SHA256で署名され、改ざんされた値は黙って破棄される。
type FlashCodec struct {
	secret []byte
	secure bool
}

// NewFlashCodec はFlashCodecを生成する。secretにはセッションシークレットを使う。
func NewFlashCodec(secret string, cookieSecure bool) *FlashCodec {
	return &FlashCodec{
		secret: []byte(secret),
		secure: cookieSecure,
	}
}

// Set はフラッシュメッセージを署名付きCookieとして設定する。
// 次のページ描画時にPopで読み出されるまで保持される。
func (c *FlashCodec) Set(w http.ResponseWriter, message, category string) {
	payload, err := json.Marshal(Flash{Message: message, Category: category})
	if err != nil {
		return
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    encoded + "." + c.sign(encoded),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop はフラッシュメッセージを読み出し、Cookieをクリアする。
// Cookieがない、署名が一致しない、または形式が不正な場合はnilを返す。
func (c *FlashCodec) Pop(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// 読み出しと同時にクリアする（ワンショット）
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})

	parts := strings.SplitN(cookie.Value, ".", 2)
	if len(parts) != 2 {
		return nil
	}
	if !hmac.Equal([]byte(c.sign(parts[0])), []byte(parts[1])) {
		return nil
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil
	}

	flash := &Flash{}
	if err := json.Unmarshal(payload, flash); err != nil {
		return nil
	}
	return flash
}

// sign はpayloadのHMAC-SHA256署名を16進文字列で返す。
func (c *FlashCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
