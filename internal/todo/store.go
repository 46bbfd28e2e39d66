// Package todo はTodoレコードのCRUDを提供します。
package todo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 一覧の取得上限。クライアント側のページングは想定していません。
const listLimit = 100

// Todo は1件のTodoレコードです。
type Todo struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Store はTodoレコードの永続化を抽象化します。
// 見つからない場合はエラーではなく (nil, nil)（Deleteは false）を返します。
type Store interface {
	Create(ctx context.Context, title, description string) (*Todo, error)
	List(ctx context.Context) ([]Todo, error)
	Get(ctx context.Context, id string) (*Todo, error)
	Update(ctx context.Context, id, title, description string) (*Todo, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// GormStore は Store のPostgreSQL実装です。
type GormStore struct {
	db *gorm.DB
}

// NewGormStore はTodoストアを作成します。
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create はTodoを1件作成します。IDはサーバー側で採番します。
func (s *GormStore) Create(ctx context.Context, title, description string) (*Todo, error) {
	todo := &Todo{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(todo).Error; err != nil {
		return nil, err
	}
	return todo, nil
}

// List はTodoを作成順に最大100件返します。
func (s *GormStore) List(ctx context.Context) ([]Todo, error) {
	todos := make([]Todo, 0, 16)
	err := s.db.WithContext(ctx).Order("created_at").Limit(listLimit).Find(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// Get はTodoを1件取得します。
func (s *GormStore) Get(ctx context.Context, id string) (*Todo, error) {
	var todo Todo
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &todo, nil
}

// Update はTodoの内容を差し替え、更新後のレコードを返します。
func (s *GormStore) Update(ctx context.Context, id, title, description string) (*Todo, error) {
	todo, err := s.Get(ctx, id)
	if err != nil || todo == nil {
		return nil, err
	}
	todo.Title = title
	todo.Description = description
	if err := s.db.WithContext(ctx).Save(todo).Error; err != nil {
		return nil, err
	}
	return todo, nil
}

// Delete はTodoを1件削除し、実際に削除できたかどうかを返します。
func (s *GormStore) Delete(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Todo{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
