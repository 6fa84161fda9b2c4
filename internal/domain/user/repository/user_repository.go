package repository

import (
	"social_feed/internal/domain/user/model"

	"gorm.io/gorm"
)

// UserRepository 账号存取；点赞列表等跨域读取走 GetByIDs
type UserRepository interface {
	Create(user *model.User) error
	GetByID(id string) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	GetByIDs(ids []string) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 用户名唯一，冲突时返回 gorm.ErrDuplicatedKey
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id string) (*model.User, error) {
	return r.first("id = ?", id)
}

// GetByUsername 登录时按用户名查找，密码哈希一并返回
func (r *userRepository) GetByUsername(username string) (*model.User, error) {
	return r.first("username = ?", username)
}

// GetByIDs 按 ids 的顺序返回用户，已删除或不存在的账号直接跳过
func (r *userRepository) GetByIDs(ids []string) ([]model.User, error) {
	out := make([]model.User, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []model.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *userRepository) first(query string, arg string) (*model.User, error) {
	var user model.User
	if err := r.db.Where(query, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
