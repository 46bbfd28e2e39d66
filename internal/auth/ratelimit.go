package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginMaxAttempts = 5
	loginWindow      = 15 * time.Minute
	loginLockTime    = 10 * time.Minute

	attemptKeyPrefix = "login:att:"
)

// LoginLimiter はクライアントIPごとのログイン失敗回数をRedisで数え、
// 一定回数を超えたIPを一時的にロックします。
// 状態をRedisに持つため、複数インスタンスでもロックが共有されます。
type LoginLimiter struct {
	rdb *redis.Client
}

// NewLoginLimiter はログイン試行リミッターを作成します。
func NewLoginLimiter(rdb *redis.Client) *LoginLimiter {
	return &LoginLimiter{rdb: rdb}
}

func (l *LoginLimiter) key(ip string) string {
	return attemptKeyPrefix + ip
}

// Check はそのIPがロック中かどうかを返します。
// ロック中であれば解除までの残り時間（Retry-After用）を返します。
func (l *LoginLimiter) Check(ctx context.Context, ip string) (time.Duration, error) {
	count, err := l.rdb.Get(ctx, l.key(ip)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	if count < loginMaxAttempts {
		return 0, nil
	}
	ttl, err := l.rdb.TTL(ctx, l.key(ip)).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		ttl = loginLockTime
	}
	return ttl, nil
}

// RecordFailure はログイン失敗を1回記録します。
// 最初の失敗で計測ウィンドウを開始し、上限に達した時点でロック時間に切り替えます。
func (l *LoginLimiter) RecordFailure(ctx context.Context, ip string) error {
	count, err := l.rdb.Incr(ctx, l.key(ip)).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return l.rdb.Expire(ctx, l.key(ip), loginWindow).Err()
	}
	if count >= loginMaxAttempts {
		return l.rdb.Expire(ctx, l.key(ip), loginLockTime).Err()
	}
	return nil
}

// Reset はログイン成功時に失敗カウントを消します。
func (l *LoginLimiter) Reset(ctx context.Context, ip string) error {
	return l.rdb.Del(ctx, l.key(ip)).Err()
}
