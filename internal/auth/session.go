// Package auth はステートレスなセッション認証（JWT + ダブルサブミットCSRF）を提供します。
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// AccessTokenCookie はアクセストークンを運ぶクッキー名です。
	AccessTokenCookie = "access_token"
	// CSRFHeader はCSRFトークンを運ぶリクエストヘッダー名です。
	// クッキーではなくヘッダーで受け取ることで、ブラウザの自動送信による偽装を防ぎます。
	CSRFHeader = "X-CSRF-Token"

	bearerPrefix = "Bearer "
)

// Verifier はリクエストからアクセストークンを取り出して検証し、
// 成功時には新しい有効期限を持つトークンを発行し直します（スライディングセッション）。
// サーバー側に状態を持たないため、検証は署名と期限の純粋なチェックだけです。
type Verifier struct {
	codec        *Codec
	guard        *Guard
	cookieSecure bool
}

// NewVerifier はセッション検証器を作成します。
// cookieSecure は発行するクッキーの Secure 属性を制御します（本番では必須）。
func NewVerifier(codec *Codec, guard *Guard, cookieSecure bool) *Verifier {
	return &Verifier{
		codec:        codec,
		guard:        guard,
		cookieSecure: cookieSecure,
	}
}

// Verify はクッキーからトークンを取り出して検証し、subject を返します。
// クッキーが無い・空の場合は ErrTokenMissing、"Bearer " 接頭辞が無い場合は
// ErrTokenInvalid になります。期限切れ・署名不正はコーデックのエラーをそのまま返します。
func (v *Verifier) Verify(c *gin.Context) (string, error) {
	value, err := c.Cookie(AccessTokenCookie)
	if err != nil || value == "" {
		return "", ErrTokenMissing
	}
	raw, ok := strings.CutPrefix(value, bearerPrefix)
	if !ok {
		return "", ErrTokenInvalid
	}
	return v.codec.Decode(raw)
}

// VerifyAndRefresh は Verify に成功した場合、同じ subject で新しいトークンを
// 発行して返します。新しいトークンをクッキーとして返却するのは呼び出し側の責務です。
func (v *Verifier) VerifyAndRefresh(c *gin.Context) (newToken string, subject string, err error) {
	subject, err = v.Verify(c)
	if err != nil {
		return "", "", err
	}
	newToken, err = v.codec.Encode(subject)
	if err != nil {
		return "", "", err
	}
	return newToken, subject, nil
}

// VerifyAndRefreshWithCSRF はCSRF検証とセッション検証を合成します。
// CSRF失敗時はトークンのデコードに入る前に打ち切るため、
// CSRFエラーとセッションエラーは常に区別できます。
func (v *Verifier) VerifyAndRefreshWithCSRF(c *gin.Context) (newToken string, subject string, err error) {
	if err := v.guard.Check(c.GetHeader(CSRFHeader)); err != nil {
		return "", "", err
	}
	return v.VerifyAndRefresh(c)
}

// SetSessionCookie はアクセストークンをクッキーとしてレスポンスに書き込みます。
// HttpOnly でスクリプトから読めず、SameSite=None でクロスオリジンのAPI呼び出しにも
// 送信されます（そのため本番では Secure が必須）。Max-Age は付けず、
// 有効期限の判定はトークン自身の exp に委ねます。
func (v *Verifier) SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(AccessTokenCookie, bearerPrefix+token, 0, "/", "", v.cookieSecure, true)
}

// ClearSessionCookie はログアウト用にクッキーを空にして即時失効させます。
// サーバー側にセッションが無いため、ログアウトはクライアント側の破棄だけで完結します。
func (v *Verifier) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", v.cookieSecure, true)
}
