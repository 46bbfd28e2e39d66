package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword はパスワードをbcryptでハッシュ化します。
// ソルトは呼び出しごとに生成されるため、同じ入力でも毎回異なるダイジェストになります。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword は平文パスワードとダイジェストを照合します。
// ダイジェストが壊れている場合も false を返すだけで、panicしません。
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
