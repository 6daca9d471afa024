// Package password はパスワードのハッシュ化と検証を提供する。
// bcryptはハッシュごとにランダムなソルトを生成するため、
// 同一パスワードでも呼び出しごとに異なるダイジェストになる。
package password

import "golang.org/x/crypto/bcrypt"

// Hash はパスワードをbcryptでハッシュ化したダイジェストを返す。
func Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify はパスワードがダイジェストと一致する場合にtrueを返す。
// 空文字列や不正な形式のダイジェストに対してはpanicせずfalseを返す。
func Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
