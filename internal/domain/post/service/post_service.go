package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"social_feed/internal/domain/post/model"
	"social_feed/internal/domain/post/repository"
	userModel "social_feed/internal/domain/user/model"
	userRepository "social_feed/internal/domain/user/repository"
	"social_feed/pkg/cache"
	"social_feed/pkg/metrics"
	"social_feed/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotOwner        = errors.New("not the owner of this post")
	ErrInvalidParent   = errors.New("parent comment does not belong to this post")
	ErrEmptyComment    = errors.New("comment text is empty")
)

const (
	likersCachePrefix = "likers"
	likersCacheTTL    = 5 * time.Minute
)

// PostInput 发帖/编辑参数
type PostInput struct {
	Caption string
	Images  []string
}

// CommentInput 评论参数，ParentID 为空时是一级评论
type CommentInput struct {
	PostID   string
	Text     string
	ParentID string
}

// PostService 帖子服务接口
type PostService interface {
	GetFeed(ctx context.Context, page, limit int) ([]model.PostView, error)
	GetPost(ctx context.Context, postID string) (*model.PostView, error)
	CreatePost(ctx context.Context, userID string, in PostInput) (*model.PostView, error)
	UpdatePost(ctx context.Context, userID, postID string, in PostInput) (*model.PostView, error)
	DeletePost(ctx context.Context, userID, postID string) error

	TogglePostLike(ctx context.Context, userID, postID string) ([]userModel.Ref, error)
	AddComment(userID string, in CommentInput) (*model.CommentView, error)
	ToggleCommentLike(userID, postID, commentID string) ([]string, error)
	GetLikers(ctx context.Context, postID string, page, limit int) (*model.LikersView, error)
}

type postService struct {
	repo    repository.PostRepository
	users   userRepository.UserRepository
	cache   cache.CacheService
	metrics *metrics.Collector
	log     *zap.Logger
}

// NewPostService 创建帖子服务，metrics 可以为 nil
func NewPostService(repo repository.PostRepository, users userRepository.UserRepository, cache cache.CacheService, m *metrics.Collector, log *zap.Logger) PostService {
	if log == nil {
		log = zap.NewNop()
	}
	return &postService{repo: repo, users: users, cache: cache, metrics: m, log: log}
}

// GetFeed 分页获取帖子，评论组装成树，点赞为用户ID列表
func (s *postService) GetFeed(ctx context.Context, page, limit int) ([]model.PostView, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()

	posts, err := s.repo.GetPosts(offset, limit)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, posts)
}

func (s *postService) GetPost(ctx context.Context, postID string) (*model.PostView, error) {
	post, err := s.findPost(postID)
	if err != nil {
		return nil, err
	}
	views, err := s.assemble(ctx, []model.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *postService) assemble(ctx context.Context, posts []model.Post) ([]model.PostView, error) {
	views := make([]model.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	var (
		comments  []model.Comment
		postLikes map[string][]string
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = s.repo.GetCommentsByPostIDs(ids)
		return err
	})
	g.Go(func() error {
		var err error
		postLikes, err = s.repo.GetLikeUserIDs(model.TargetPost, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	commentLikes := map[string][]string{}
	if len(comments) > 0 {
		commentIDs := make([]string, len(comments))
		for i := range comments {
			commentIDs[i] = comments[i].ID
		}
		var err error
		if commentLikes, err = s.repo.GetLikeUserIDs(model.TargetComment, commentIDs); err != nil {
			return nil, err
		}
	}

	byPost := make(map[string][]model.Comment, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	for i := range posts {
		id := posts[i].ID
		views = append(views, postView(&posts[i], postLikes[id], buildCommentTree(byPost[id], commentLikes)))
	}
	return views, nil
}

func (s *postService) CreatePost(ctx context.Context, userID string, in PostInput) (*model.PostView, error) {
	post := &model.Post{
		UserID:  userID,
		Caption: strings.TrimSpace(in.Caption),
	}
	post.SetImages(in.Images)

	if err := s.repo.CreatePost(post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, post.ID)
}

// UpdatePost 仅作者可编辑，Images 为空时保留原图片
func (s *postService) UpdatePost(ctx context.Context, userID, postID string, in PostInput) (*model.PostView, error) {
	post, err := s.ownedPost(userID, postID)
	if err != nil {
		return nil, err
	}

	post.Caption = strings.TrimSpace(in.Caption)
	if len(in.Images) > 0 {
		post.SetImages(in.Images)
	}
	if err := s.repo.UpdatePost(post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, postID)
}

func (s *postService) DeletePost(ctx context.Context, userID, postID string) error {
	if _, err := s.ownedPost(userID, postID); err != nil {
		return err
	}
	if err := s.repo.DeletePost(postID); err != nil {
		return err
	}
	s.invalidateLikers(ctx, postID)
	return nil
}

// TogglePostLike 切换点赞，返回帖子完整的点赞用户列表
func (s *postService) TogglePostLike(ctx context.Context, userID, postID string) ([]userModel.Ref, error) {
	if _, err := s.findPost(postID); err != nil {
		return nil, err
	}

	liked, err := s.repo.ToggleLike(userID, postID, model.TargetPost)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLikeToggle(model.TargetPost, liked)
	s.invalidateLikers(ctx, postID)

	likes, err := s.repo.GetLikeUserIDs(model.TargetPost, []string{postID})
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetByIDs(likes[postID])
	if err != nil {
		return nil, err
	}
	refs := make([]userModel.Ref, 0, len(users))
	for i := range users {
		refs = append(refs, users[i].Ref())
	}
	return refs, nil
}

// AddComment 发表评论或回复任意层级的评论
func (s *postService) AddComment(userID string, in CommentInput) (*model.CommentView, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	if _, err := s.findPost(in.PostID); err != nil {
		return nil, err
	}

	comment := &model.Comment{PostID: in.PostID, UserID: userID, Text: text}
	if in.ParentID != "" {
		parent, err := s.repo.GetCommentByID(in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, ErrInvalidParent
		}
		comment.ParentID = &parent.ID
	}

	if err := s.repo.CreateComment(comment); err != nil {
		return nil, err
	}
	s.metrics.RecordComment(comment.ParentID != nil)

	// 重新读取以带上作者信息
	saved, err := s.repo.GetCommentByID(comment.ID)
	if err != nil {
		return nil, err
	}
	view := commentView(saved, nil)
	return &view, nil
}

// ToggleCommentLike 切换评论点赞，返回评论的点赞用户ID
func (s *postService) ToggleCommentLike(userID, postID, commentID string) ([]string, error) {
	comment, err := s.repo.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.PostID != postID {
		return nil, ErrCommentNotFound
	}

	liked, err := s.repo.ToggleLike(userID, commentID, model.TargetComment)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLikeToggle(model.TargetComment, liked)

	likes, err := s.repo.GetLikeUserIDs(model.TargetComment, []string{commentID})
	if err != nil {
		return nil, err
	}
	return nonNil(likes[commentID]), nil
}

// GetLikers 分页获取点赞用户，结果按页缓存
func (s *postService) GetLikers(ctx context.Context, postID string, page, limit int) (*model.LikersView, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	key := fmt.Sprintf("%s:%s:%d:%d", likersCachePrefix, postID, p.Page, limit)

	var cached model.LikersView
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.metrics.RecordCache(likersCachePrefix, true)
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("likers cache get failed", zap.String("key", key), zap.Error(err))
	}
	s.metrics.RecordCache(likersCachePrefix, false)

	if _, err := s.findPost(postID); err != nil {
		return nil, err
	}
	users, total, err := s.repo.GetLikers(postID, model.TargetPost, offset, limit)
	if err != nil {
		return nil, err
	}

	view := &model.LikersView{
		Users:      make([]userModel.Ref, 0, len(users)),
		TotalPages: utils.TotalPages(total, limit),
	}
	for i := range users {
		view.Users = append(view.Users, users[i].Ref())
	}

	if err := s.cache.Set(ctx, key, view, likersCacheTTL); err != nil {
		s.log.Warn("likers cache set failed", zap.String("key", key), zap.Error(err))
	}
	return view, nil
}

func (s *postService) findPost(postID string) (*model.Post, error) {
	post, err := s.repo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) ownedPost(userID, postID string) (*model.Post, error) {
	post, err := s.findPost(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrNotOwner
	}
	return post, nil
}

func (s *postService) invalidateLikers(ctx context.Context, postID string) {
	pattern := fmt.Sprintf("%s:%s:*", likersCachePrefix, postID)
	if err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
		s.log.Warn("likers cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
