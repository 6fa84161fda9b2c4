package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// MaxProfilePictureSize 头像最大 5MB
const MaxProfilePictureSize = 5 * 1024 * 1024

var allowedPictureTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// SignupInput 注册表单
type SignupInput struct {
	Username       string
	Password       string
	Bio            string
	ProfilePicture *Upload
}

// Authenticator 登录、注册与登出，登录成功后初始化 Session
type Authenticator struct {
	api     AuthAPI
	assets  AssetUploader
	session *Session
	log     *zap.Logger
}

func NewAuthenticator(api AuthAPI, assets AssetUploader, session *Session, log *zap.Logger) *Authenticator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{api: api, assets: assets, session: session, log: log}
}

// Login 用户名和密码都必须填写
func (a *Authenticator) Login(ctx context.Context, username, password string) (UserRef, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return UserRef{}, validationError("please enter both username and password")
	}

	user, token, err := a.api.Login(ctx, username, password)
	if err != nil {
		a.log.Warn("login failed", zap.String("username", username), zap.Error(err))
		return UserRef{}, err
	}
	a.session.Begin(user, token)
	a.log.Info("logged in", zap.String("user_id", user.ID))
	return user, nil
}

// Signup 先上传头像，再提交注册
func (a *Authenticator) Signup(ctx context.Context, in SignupInput) (UserRef, error) {
	if in.ProfilePicture == nil {
		return UserRef{}, validationError("please upload a profile picture")
	}
	if err := ValidateProfilePicture(*in.ProfilePicture); err != nil {
		return UserRef{}, err
	}
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return UserRef{}, validationError("username and password are required")
	}
	if a.assets == nil {
		return UserRef{}, fmt.Errorf("%w: no asset host configured", ErrUpload)
	}

	url, err := a.assets.Upload(ctx, *in.ProfilePicture)
	if err != nil {
		a.log.Error("profile picture upload failed", zap.Error(err))
		return UserRef{}, err
	}

	user, err := a.api.Signup(ctx, SignupRequest{
		Username:       in.Username,
		Password:       in.Password,
		Bio:            in.Bio,
		ProfilePicture: url,
	})
	if err != nil {
		a.log.Warn("signup failed", zap.String("username", in.Username), zap.Error(err))
		return UserRef{}, err
	}
	return user, nil
}

// Logout 结束会话
func (a *Authenticator) Logout() {
	a.session.End()
}

// ValidateProfilePicture 检查头像的类型与大小
func ValidateProfilePicture(file Upload) error {
	if len(file.Content) == 0 {
		return validationError("profile picture is empty")
	}
	if len(file.Content) > MaxProfilePictureSize {
		return validationError("image size should be less than 5MB")
	}
	mt := mimetype.Detect(file.Content)
	for _, t := range allowedPictureTypes {
		if mt.Is(t) {
			return nil
		}
	}
	return validationError("please select an image file (JPEG, PNG)")
}
