package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextUserKey は、ハンドラー間でログイン済みユーザーのメールアドレスを共有するためのキーです。
const ContextUserKey = "auth.user"

// RequireSession はセッションを検証するミドルウェアを返します。
// 検証に成功すると新しいトークンをクッキーで返却し（スライディングセッション）、
// subject をコンテキストにセットします。参照系エンドポイント用です。
func (v *Verifier) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, subject, err := v.VerifyAndRefresh(c)
		if err != nil {
			abortWithAuthError(c, err)
			return
		}
		v.SetSessionCookie(c, token)
		c.Set(ContextUserKey, subject)
		c.Next()
	}
}

// RequireSessionWithCSRF はCSRF検証とセッション検証を両方行うミドルウェアを返します。
// 更新系エンドポイント用です。CSRF失敗時はトークンの更新クッキーを返しません。
func (v *Verifier) RequireSessionWithCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, subject, err := v.VerifyAndRefreshWithCSRF(c)
		if err != nil {
			abortWithAuthError(c, err)
			return
		}
		v.SetSessionCookie(c, token)
		c.Set(ContextUserKey, subject)
		c.Next()
	}
}

// abortWithAuthError は認証系のエラーをHTTPレスポンスに変換して処理を打ち切ります。
func abortWithAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCSRFInvalid):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code":    "CSRF_INVALID",
			"message": "CSRFトークンが正しくありません。",
		})
	case errors.Is(err, ErrTokenMissing):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code":    "TOKEN_MISSING",
			"message": "ログインが必要です。",
		})
	case errors.Is(err, ErrTokenExpired):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code":    "TOKEN_EXPIRED",
			"message": "セッションの有効期限が切れました。再度ログインしてください。",
		})
	case errors.Is(err, ErrTokenInvalid):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code":    "TOKEN_INVALID",
			"message": "アクセストークンが正しくありません。",
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "サーバー内部でエラーが発生しました。",
		})
	}
}
