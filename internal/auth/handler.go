package auth

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler は認証系エンドポイントのハンドラーをまとめた構造体です。
type Handler struct {
	users             UserStore
	codec             *Codec
	guard             *Guard
	verifier          *Verifier
	limiter           *LoginLimiter // nil ならレート制限は無効
	passwordMinLength int
}

// NewHandler は認証ハンドラーを作成します。
func NewHandler(users UserStore, codec *Codec, guard *Guard, verifier *Verifier, limiter *LoginLimiter, passwordMinLength int) *Handler {
	return &Handler{
		users:             users,
		codec:             codec,
		guard:             guard,
		verifier:          verifier,
		limiter:           limiter,
		passwordMinLength: passwordMinLength,
	}
}

type userBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CsrfToken は GET /api/csrftoken のハンドラーです。
// 認証不要で、ページ読み込み時に一度だけ取得される想定です。
func (h *Handler) CsrfToken(c *gin.Context) {
	token, err := h.guard.Issue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "TOKEN_GENERATION_FAILED",
			"message": "CSRFトークンの生成に失敗しました。",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"csrf_token": token})
}

// Register は POST /api/register のハンドラーです。
func (h *Handler) Register(c *gin.Context) {
	if !h.checkCSRF(c) {
		return
	}

	var req userBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "email と password を JSON で送ってください。",
		})
		return
	}

	// パスワードの長さポリシーはハッシュ化の前に登録フローで弾く
	if len(req.Password) < h.passwordMinLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "WEAK_PASSWORD",
			"message": "パスワードは" + strconv.Itoa(h.passwordMinLength) + "文字以上にしてください。",
		})
		return
	}

	existing, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondWithStoreError(c, err)
		return
	}
	if existing != nil {
		respondDuplicateEmail(c)
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		respondWithStoreError(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Email, hashed)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			respondDuplicateEmail(c)
			return
		}
		respondWithStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Login は POST /api/login のハンドラーです。
// 成功するとアクセストークンをクッキーで返します。
func (h *Handler) Login(c *gin.Context) {
	if !h.checkCSRF(c) {
		return
	}

	var req userBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "email と password を JSON で送ってください。",
		})
		return
	}

	ip := c.ClientIP()
	if h.limiter != nil {
		retryAfter, err := h.limiter.Check(c.Request.Context(), ip)
		if err != nil {
			// リミッターの障害でログイン全体を止めない
			log.Printf("login limiter check failed: %v", err)
		} else if retryAfter > 0 {
			c.Header("Retry-After", strconv.FormatInt(int64(retryAfter.Seconds()), 10))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    "TOO_MANY_ATTEMPTS",
				"message": "ログイン試行が多すぎます。一定時間後に再度お試しください。",
			})
			return
		}
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondWithStoreError(c, err)
		return
	}

	// メール不明とパスワード不一致はレスポンス上区別しない
	if user == nil || !CheckPassword(req.Password, user.HashedPassword) {
		if h.limiter != nil {
			if err := h.limiter.RecordFailure(c.Request.Context(), ip); err != nil {
				log.Printf("login limiter record failed: %v", err)
			}
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    "INVALID_CREDENTIALS",
			"message": "メールアドレスまたはパスワードが正しくありません。",
		})
		return
	}

	if h.limiter != nil {
		if err := h.limiter.Reset(c.Request.Context(), ip); err != nil {
			log.Printf("login limiter reset failed: %v", err)
		}
	}

	token, err := h.codec.Encode(user.Email)
	if err != nil {
		respondWithStoreError(c, err)
		return
	}
	h.verifier.SetSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{"message": "ログインしました。"})
}

// Logout は POST /api/logout のハンドラーです。
// CSRF検証とセッション検証の両方を通った場合のみクッキーを失効させます。
// トークン自体はサーバー側で無効化できないため、期限切れまで自然放置されます。
func (h *Handler) Logout(c *gin.Context) {
	if !h.checkCSRF(c) {
		return
	}
	if _, err := h.verifier.Verify(c); err != nil {
		abortWithAuthError(c, err)
		return
	}

	h.verifier.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "ログアウトしました。"})
}

// Me は GET /api/user のハンドラーです。
// RequireSession ミドルウェアの後段で動き、更新済みクッキーはミドルウェアが返します。
func (h *Handler) Me(c *gin.Context) {
	subject := c.GetString(ContextUserKey)
	c.JSON(http.StatusOK, gin.H{"email": subject})
}

// checkCSRF はヘッダーのCSRFトークンを検証し、失敗時はレスポンスを書いて false を返します。
func (h *Handler) checkCSRF(c *gin.Context) bool {
	if err := h.guard.Check(c.GetHeader(CSRFHeader)); err != nil {
		abortWithAuthError(c, err)
		return false
	}
	return true
}

func respondDuplicateEmail(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    "DUPLICATE_EMAIL",
		"message": "このメールアドレスは既に登録されています。",
	})
}

func respondWithStoreError(c *gin.Context, err error) {
	log.Printf("auth handler internal error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "INTERNAL_ERROR",
		"message": "サーバー内部でエラーが発生しました。",
	})
}
