package handler

import (
	"errors"
	"net/http"
	"strconv"

	"social_feed/internal/domain/post/model"
	"social_feed/internal/domain/post/service"
	userModel "social_feed/internal/domain/user/model"
	"social_feed/internal/pkg/middleware"
	"social_feed/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostHandler 帖子处理器
type PostHandler struct {
	service service.PostService
	log     *zap.Logger
}

func NewPostHandler(service service.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{service: service, log: log}
}

// 请求体中的 userId 仅为兼容旧客户端，一律以 token 中的用户为准

// PostInput 发帖输入
type PostInput struct {
	Caption string   `json:"caption" binding:"max=2200"`
	Images  []string `json:"images" binding:"required,min=1,dive,url"`
	UserID  string   `json:"userId"`
}

// UpdatePostInput 编辑输入
type UpdatePostInput struct {
	Caption string   `json:"caption" binding:"max=2200"`
	Images  []string `json:"images" binding:"omitempty,dive,url"`
}

// LikeInput 帖子点赞输入
type LikeInput struct {
	PostID string `json:"postId" binding:"required,uuid"`
	UserID string `json:"userId"`
}

// CommentInput 评论输入
type CommentInput struct {
	PostID        string `json:"postId" binding:"required,uuid"`
	Text          string `json:"text" binding:"required,max=1000"`
	ParentComment string `json:"parentComment" binding:"omitempty,uuid"`
	UserID        string `json:"userId"`
}

// LikeCommentInput 评论点赞输入
type LikeCommentInput struct {
	PostID    string `json:"postId" binding:"required,uuid"`
	CommentID string `json:"commentId" binding:"required,uuid"`
	UserID    string `json:"userId"`
}

// PostResponse 单个帖子
type PostResponse struct {
	Post model.PostView `json:"post"`
}

// PostLikesResponse 帖子点赞，元素为用户对象
type PostLikesResponse struct {
	Likes []userModel.Ref `json:"likes"`
}

// CommentLikesResponse 评论点赞，元素为用户ID
type CommentLikesResponse struct {
	Likes []string `json:"likes"`
}

// CommentResponse 新评论
type CommentResponse struct {
	Comment model.CommentView `json:"comment"`
}

// MessageResponse 仅包含提示信息
type MessageResponse struct {
	Message string `json:"message"`
}

// GetPaginated 分页获取帖子
// @Summary 帖子信息流
// @Tags Post
// @Produce json
// @Param page query int false "页码，从1开始"
// @Param limit query int false "每页条数"
// @Success 200 {array} model.PostView
// @Router /posts/paginated [get]
func (h *PostHandler) GetPaginated(c *gin.Context) {
	page, limit := pageQuery(c)

	posts, err := h.service.GetFeed(c.Request.Context(), page, limit)
	if err != nil {
		h.fail(c, "get feed", err)
		return
	}
	response.OK(c, http.StatusOK, posts)
}

// CreatePost 发帖
// @Summary 发帖
// @Tags Post
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body PostInput true "帖子内容"
// @Success 201 {object} PostResponse
// @Router /posts/create [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), middleware.CurrentUserID(c), service.PostInput{
		Caption: input.Caption,
		Images:  input.Images,
	})
	if err != nil {
		h.fail(c, "create post", err)
		return
	}
	response.OK(c, http.StatusCreated, PostResponse{Post: *post})
}

// UpdatePost 编辑帖子
// @Summary 编辑帖子
// @Tags Post
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "帖子ID"
// @Param input body UpdatePostInput true "新内容"
// @Success 200 {object} PostResponse
// @Failure 403 {object} response.Response
// @Router /posts/updatepost/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	var input UpdatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), middleware.CurrentUserID(c), postID, service.PostInput{
		Caption: input.Caption,
		Images:  input.Images,
	})
	if err != nil {
		h.fail(c, "update post", err)
		return
	}
	response.OK(c, http.StatusOK, PostResponse{Post: *post})
}

// DeletePost 删除帖子
// @Summary 删除帖子
// @Tags Post
// @Produce json
// @Security Bearer
// @Param id path string true "帖子ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} response.Response
// @Router /posts/deletepost/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeletePost(c.Request.Context(), middleware.CurrentUserID(c), postID); err != nil {
		h.fail(c, "delete post", err)
		return
	}
	response.OK(c, http.StatusOK, MessageResponse{Message: "Post deleted"})
}

// LikePost 点赞/取消点赞帖子
// @Summary 切换帖子点赞
// @Tags Post
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body LikeInput true "帖子ID"
// @Success 200 {object} PostLikesResponse
// @Router /posts/like [post]
func (h *PostHandler) LikePost(c *gin.Context) {
	var input LikeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	likes, err := h.service.TogglePostLike(c.Request.Context(), middleware.CurrentUserID(c), input.PostID)
	if err != nil {
		h.fail(c, "toggle post like", err)
		return
	}
	response.OK(c, http.StatusOK, PostLikesResponse{Likes: likes})
}

// AddComment 评论或回复
// @Summary 发表评论
// @Tags Post
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body CommentInput true "评论内容，parentComment 为被回复的评论ID"
// @Success 201 {object} CommentResponse
// @Router /posts/comment [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	comment, err := h.service.AddComment(middleware.CurrentUserID(c), service.CommentInput{
		PostID:   input.PostID,
		Text:     input.Text,
		ParentID: input.ParentComment,
	})
	if err != nil {
		h.fail(c, "add comment", err)
		return
	}
	response.OK(c, http.StatusCreated, CommentResponse{Comment: *comment})
}

// LikeComment 点赞/取消点赞评论
// @Summary 切换评论点赞
// @Tags Post
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body LikeCommentInput true "帖子ID与评论ID"
// @Success 200 {object} CommentLikesResponse
// @Router /posts/like-comment [put]
func (h *PostHandler) LikeComment(c *gin.Context) {
	var input LikeCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	likes, err := h.service.ToggleCommentLike(middleware.CurrentUserID(c), input.PostID, input.CommentID)
	if err != nil {
		h.fail(c, "toggle comment like", err)
		return
	}
	response.OK(c, http.StatusOK, CommentLikesResponse{Likes: likes})
}

// GetLikers 点赞用户分页
// @Summary 点赞用户列表
// @Tags Post
// @Produce json
// @Param id path string true "帖子ID"
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Success 200 {object} model.LikersView
// @Failure 404 {object} response.Response
// @Router /posts/{id}/likers [get]
func (h *PostHandler) GetLikers(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	page, limit := pageQuery(c)

	likers, err := h.service.GetLikers(c.Request.Context(), postID, page, limit)
	if err != nil {
		h.fail(c, "get likers", err)
		return
	}
	response.OK(c, http.StatusOK, likers)
}

// postIDParam 路径中的帖子ID不是 uuid 时不可能存在，直接返回 404
func postIDParam(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrPostNotFound, "Post not found")
		return "", false
	}
	return id.String(), true
}

// pageQuery 非法值交给服务层按默认值处理
func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return page, limit
}

func (h *PostHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, response.ErrPostNotFound, "Post not found")
	case errors.Is(err, service.ErrCommentNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCommentNotFound, "Comment not found")
	case errors.Is(err, service.ErrInvalidParent):
		response.Error(c, http.StatusBadRequest, response.ErrCommentNotFound, "Parent comment not found")
	case errors.Is(err, service.ErrNotOwner):
		response.Error(c, http.StatusForbidden, response.ErrNotPostOwner, "You can only modify your own posts")
	case errors.Is(err, service.ErrEmptyComment):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Comment text is required")
	default:
		h.log.Error(op+" failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}
