package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Guard はダブルサブミット方式のCSRFトークンを発行・検証します。
// トークンは「乱数ノンス + 秘密鍵によるHMAC-SHA256署名」の純粋関数で、
// セッションにもデータベースにも紐づきません。ユーザーの識別情報は一切含みません。
type Guard struct {
	secret []byte
}

// NewGuard はCSRFガードを作成します。
func NewGuard(secret []byte) *Guard {
	return &Guard{secret: secret}
}

// Issue は新しいCSRFトークンを発行します。
// 形式は "<ノンス(hex)>.<署名(hex)>" です。
func (g *Guard) Issue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	nonce := hex.EncodeToString(buf)
	return nonce + "." + hex.EncodeToString(g.sign(nonce)), nil
}

// Check は提出されたトークンを秘密鍵に対して検証します。
// 空文字列を含むあらゆる不正は ErrCSRFInvalid になります。
func (g *Guard) Check(token string) error {
	nonce, sig, ok := strings.Cut(token, ".")
	if !ok || nonce == "" {
		return ErrCSRFInvalid
	}
	sigBytes, err := hex.DecodeString(sig)
	if err != nil {
		return ErrCSRFInvalid
	}
	if !hmac.Equal(g.sign(nonce), sigBytes) {
		return ErrCSRFInvalid
	}
	return nil
}

func (g *Guard) sign(nonce string) []byte {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(nonce))
	return mac.Sum(nil)
}
