package auth

import "errors"

// 認証まわりの失敗はすべて呼び出し側の入力に起因するため、
// 区別可能なセンチネルエラーとして公開します。
var (
	// ErrTokenMissing はリクエストにアクセストークンが載っていない場合のエラーです。
	// 未ログインとログアウト済み（空クッキー）の両方を含みます。
	ErrTokenMissing = errors.New("access token is missing")
	// ErrTokenExpired は有効期限切れのアクセストークンに対するエラーです。
	ErrTokenExpired = errors.New("access token has expired")
	// ErrTokenInvalid は署名不正・形式不正など期限切れ以外のトークン不正に対するエラーです。
	ErrTokenInvalid = errors.New("access token is not valid")
	// ErrCSRFInvalid はCSRFトークンの検証失敗に対するエラーです。
	ErrCSRFInvalid = errors.New("csrf token is not valid")
	// ErrInvalidCredentials はログイン失敗のエラーです。
	// ユーザー列挙を防ぐため、メール不明とパスワード不一致を区別しません。
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken は登録済みメールアドレスでの再登録に対するエラーです。
	ErrEmailTaken = errors.New("email is already taken")
)
