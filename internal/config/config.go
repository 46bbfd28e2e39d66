// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// 認証設定
	JWTKey            string // JWT署名用の秘密鍵
	CSRFKey           string // CSRFトークン署名用の秘密鍵
	TokenTTLMinutes   int    // アクセストークンの有効期限（分）
	PasswordMinLength int    // 登録時に要求するパスワードの最小文字数

	// 外部サービス設定
	DatabaseURL string // PostgreSQL接続URL
	RedisURL    string // ログイン試行制限用Redis接続URL（空ならレート制限無効）
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		// サーバー設定
		Port:    getEnv("PORT", "8000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// CORS設定
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		// 認証設定
		JWTKey:            getEnv("JWT_KEY", ""),
		CSRFKey:           getEnv("CSRF_KEY", ""),
		TokenTTLMinutes:   getEnvAsInt("TOKEN_TTL_MINUTES", 5),
		PasswordMinLength: getEnvAsInt("PASSWORD_MIN_LENGTH", 6),

		// 外部サービス設定
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
	}

	// 必須設定のバリデーション
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	// ローカル開発では秘密鍵は任意（未設定なら開発用の値で起動する）
	// 本番環境では厳格にチェックする
	if c.GinMode == "release" {
		if c.JWTKey == "" {
			return fmt.Errorf("JWT_KEY is required in release mode")
		}
		if c.CSRFKey == "" {
			return fmt.Errorf("CSRF_KEY is required in release mode")
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required in release mode")
		}
	}

	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive")
	}
	if c.PasswordMinLength <= 0 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH must be positive")
	}

	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
