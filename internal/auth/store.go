package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User は登録済みユーザーのレコードです。
// 作成後は認証コアから一切変更しません。
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	HashedPassword string    `json:"-" gorm:"not null"`
	CreatedAt      time.Time `json:"-"`
}

// UserStore はユーザーレコードの永続化を抽象化します。
type UserStore interface {
	// FindByEmail はメールアドレスでユーザーを検索します。見つからない場合は (nil, nil) を返します。
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Create はユーザーを1件作成します。メールアドレスが重複している場合は ErrEmailTaken を返します。
	Create(ctx context.Context, email, hashedPassword string) (*User, error)
}

// GormUserStore は UserStore のPostgreSQL実装です。
type GormUserStore struct {
	db *gorm.DB
}

// NewGormUserStore はユーザーストアを作成します。
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

// FindByEmail はメールアドレスでユーザーを1件取得します。
func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create はユーザーを1件登録します。
func (s *GormUserStore) Create(ctx context.Context, email, hashedPassword string) (*User, error) {
	user := &User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// 事前チェックとのレースで一意制約に当たるケースをここで吸収する
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueConstraintError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}
