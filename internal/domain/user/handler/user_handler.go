package handler

import (
	"errors"
	"net/http"

	"social_feed/internal/domain/user/model"
	"social_feed/internal/domain/user/service"
	"social_feed/internal/pkg/middleware"
	"social_feed/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
	log     *zap.Logger
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

// SignupInput 注册输入
type SignupInput struct {
	Username       string `json:"username" binding:"required,max=64"`
	Password       string `json:"password" binding:"required,min=6"`
	Bio            string `json:"bio" binding:"max=280"`
	ProfilePicture string `json:"profilePicture" binding:"required,url"`
}

// LoginInput 登录输入
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse 注册响应
type UserResponse struct {
	User model.Ref `json:"user"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User  model.Ref `json:"user"`
	Token string    `json:"token"`
}

// Signup 注册
// @Summary 注册
// @Tags User
// @Accept json
// @Produce json
// @Param input body SignupInput true "注册信息"
// @Success 201 {object} UserResponse
// @Failure 409 {object} response.Response
// @Router /users/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.Signup(service.SignupInput{
		Username:       input.Username,
		Password:       input.Password,
		Bio:            input.Bio,
		ProfilePicture: input.ProfilePicture,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			response.Error(c, http.StatusConflict, response.ErrUserExists, "Username already taken")
			return
		}
		h.log.Error("signup failed", zap.String("username", input.Username), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Signup failed")
		return
	}

	response.OK(c, http.StatusCreated, UserResponse{User: user.Ref()})
}

// Login 登录
// @Summary 登录
// @Tags User
// @Accept json
// @Produce json
// @Param input body LoginInput true "用户名和密码"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} response.Response
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Please enter both username and password")
		return
	}

	user, token, err := h.service.Login(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid username or password")
			return
		}
		h.log.Error("login failed", zap.String("username", input.Username), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Login failed")
		return
	}

	response.OK(c, http.StatusOK, LoginResponse{User: user.Ref(), Token: token})
}

// Me 当前登录用户
// @Summary 当前用户
// @Tags User
// @Produce json
// @Security Bearer
// @Success 200 {object} UserResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.OK(c, http.StatusOK, UserResponse{User: user.Ref()})
}
