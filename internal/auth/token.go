package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec はアクセストークン（JWT）の発行と検証を行います。
// sub にメールアドレス、iat に発行時刻、exp に有効期限を載せた
// HS256署名のトークンを扱います。
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec はトークンコーデックを作成します。
// ttl は発行するすべてのトークンに一律に適用されます。
func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Encode は subject（メールアドレス）を持つ新しいトークンを発行します。
// 既存トークンの更新はせず、常に新しい発行時刻・有効期限で作り直します。
func (c *Codec) Encode(subject string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode はトークンを検証し、subject を取り出します。
// 期限切れは ErrTokenExpired、それ以外の不正（署名不一致・形式不正・
// アルゴリズム不一致・subject欠落・空文字列）はすべて ErrTokenInvalid を返します。
func (c *Codec) Decode(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
