package service

import (
	"errors"
	"strings"

	"social_feed/internal/domain/user/model"
	"social_feed/internal/domain/user/repository"
	"social_feed/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// SignupInput 注册参数
type SignupInput struct {
	Username       string
	Password       string
	Bio            string
	ProfilePicture string
}

// UserService 用户服务接口
type UserService interface {
	Signup(in SignupInput) (*model.User, error)
	Login(username, password string) (*model.User, string, error)
	GetUser(id string) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
	cost int
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo, cost: bcrypt.DefaultCost}
}

// Signup 注册，用户名唯一
func (s *userService) Signup(in SignupInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)

	_, err := s.repo.GetByUsername(username)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       username,
		Password:       string(hash),
		Bio:            in.Bio,
		ProfilePicture: in.ProfilePicture,
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

// Login 校验密码并签发 token
func (s *userService) Login(username, password string) (*model.User, string, error) {
	user, err := s.repo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) GetUser(id string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}
