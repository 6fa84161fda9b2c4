package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"social_feed/internal/domain/post/model"
	userModel "social_feed/internal/domain/user/model"
	"social_feed/pkg/cache"
	baseModel "social_feed/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockPostRepository is a mock of PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(post *model.Post) error {
	args := m.Called(post)
	if args.Error(0) == nil && post.ID == "" {
		post.ID = "P-new"
	}
	return args.Error(0)
}

func (m *MockPostRepository) GetPostByID(id string) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) GetPosts(offset, limit int) ([]model.Post, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) UpdatePost(post *model.Post) error {
	return m.Called(post).Error(0)
}

func (m *MockPostRepository) DeletePost(id string) error {
	return m.Called(id).Error(0)
}

func (m *MockPostRepository) CreateComment(comment *model.Comment) error {
	args := m.Called(comment)
	if args.Error(0) == nil && comment.ID == "" {
		comment.ID = "C-new"
	}
	return args.Error(0)
}

func (m *MockPostRepository) GetCommentByID(id string) (*model.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockPostRepository) GetCommentsByPostIDs(postIDs []string) ([]model.Comment, error) {
	args := m.Called(postIDs)
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockPostRepository) ToggleLike(userID, targetID, targetType string) (bool, error) {
	args := m.Called(userID, targetID, targetType)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) GetLikeUserIDs(targetType string, targetIDs []string) (map[string][]string, error) {
	args := m.Called(targetType, targetIDs)
	return args.Get(0).(map[string][]string), args.Error(1)
}

func (m *MockPostRepository) GetLikers(targetID, targetType string, offset, limit int) ([]userModel.User, int64, error) {
	args := m.Called(targetID, targetType, offset, limit)
	return args.Get(0).([]userModel.User), args.Get(1).(int64), args.Error(2)
}

// MockUserRepository 只实现点赞列表用到的读取
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *userModel.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*userModel.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*userModel.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ids []string) ([]userModel.User, error) {
	args := m.Called(ids)
	return args.Get(0).([]userModel.User), args.Error(1)
}

func newTestService(repo *MockPostRepository) (PostService, cache.CacheService) {
	s, c, _ := newTestServiceWithUsers(repo)
	return s, c
}

func newTestServiceWithUsers(repo *MockPostRepository) (PostService, cache.CacheService, *MockUserRepository) {
	c := cache.NewMemoryCache()
	users := new(MockUserRepository)
	return NewPostService(repo, users, c, nil, zap.NewNop()), c, users
}

func user(id, name string) userModel.User {
	return userModel.User{BaseModel: baseModel.BaseModel{ID: id}, Username: name}
}

func post(id, owner string) *model.Post {
	p := &model.Post{BaseModel: baseModel.BaseModel{ID: id, CreatedAt: time.Now()}, UserID: owner, Caption: "cap " + id, User: user(owner, "u-"+owner)}
	p.SetImages([]string{"https://cdn/" + id + ".png"})
	return p
}

func comment(id, postID, parent string) model.Comment {
	c := model.Comment{BaseModel: baseModel.BaseModel{ID: id}, PostID: postID, UserID: "U2", Text: "text " + id, User: user("U2", "bob")}
	if parent != "" {
		c.ParentID = &parent
	}
	return c
}

func TestGetFeedAssemblesTree(t *testing.T) {
	repo := new(MockPostRepository)
	s, _ := newTestService(repo)

	posts := []model.Post{*post("P1", "U1"), *post("P2", "U1")}
	comments := []model.Comment{
		comment("C1", "P1", ""),
		comment("C2", "P1", "C1"),
		comment("C3", "P1", "C2"),
		comment("C4", "P1", "gone"),
		comment("C5", "P2", ""),
	}
	repo.On("GetPosts", 7, 7).Return(posts, nil)
	repo.On("GetCommentsByPostIDs", []string{"P1", "P2"}).Return(comments, nil)
	repo.On("GetLikeUserIDs", model.TargetPost, []string{"P1", "P2"}).Return(map[string][]string{"P1": {"U3"}}, nil)
	repo.On("GetLikeUserIDs", model.TargetComment, []string{"C1", "C2", "C3", "C4", "C5"}).
		Return(map[string][]string{"C3": {"U1", "U3"}}, nil)

	feed, err := s.GetFeed(context.Background(), 2, 7)

	require.NoError(t, err)
	require.Len(t, feed, 2)

	p1 := feed[0]
	assert.Equal(t, "P1", p1.ID)
	assert.Equal(t, []string{"U3"}, p1.Likes)
	assert.Equal(t, []string{"https://cdn/P1.png"}, p1.Images)
	assert.Equal(t, "u-U1", p1.User.Username)
	// C4 的父评论不存在，提升为一级评论
	require.Len(t, p1.Comments, 2)
	assert.Equal(t, "C1", p1.Comments[0].ID)
	assert.Equal(t, "C4", p1.Comments[1].ID)

	c2 := p1.Comments[0].Replies[0]
	assert.Equal(t, "C2", c2.ID)
	assert.Equal(t, "C1", c2.ParentComment)
	c3 := c2.Replies[0]
	assert.Equal(t, "C3", c3.ID)
	assert.Equal(t, []string{"U1", "U3"}, c3.Likes)
	assert.Empty(t, c3.Replies)

	assert.NotNil(t, feed[1].Likes)
	assert.Len(t, feed[1].Comments, 1)
	repo.AssertExpectations(t)
}

func TestGetFeedEmptyPage(t *testing.T) {
	repo := new(MockPostRepository)
	s, _ := newTestService(repo)
	repo.On("GetPosts", 0, 10).Return([]model.Post{}, nil)

	feed, err := s.GetFeed(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
	repo.AssertNotCalled(t, "GetCommentsByPostIDs", mock.Anything)
}

func TestGetFeedRepositoryError(t *testing.T) {
	repo := new(MockPostRepository)
	s, _ := newTestService(repo)
	boom := errors.New("db down")
	repo.On("GetPosts", 0, 7).Return([]model.Post{*post("P1", "U1")}, nil)
	repo.On("GetCommentsByPostIDs", []string{"P1"}).Return([]model.Comment{}, boom)
	repo.On("GetLikeUserIDs", model.TargetPost, []string{"P1"}).Return(map[string][]string{}, nil)

	_, err := s.GetFeed(context.Background(), 1, 7)

	assert.ErrorIs(t, err, boom)
}

func expectAssemble(repo *MockPostRepository, id string) {
	repo.On("GetCommentsByPostIDs", []string{id}).Return([]model.Comment{}, nil)
	repo.On("GetLikeUserIDs", model.TargetPost, []string{id}).Return(map[string][]string{}, nil)
}

func TestCreatePost(t *testing.T) {
	repo := new(MockPostRepository)
	s, _ := newTestService(repo)
	repo.On("CreatePost", mock.MatchedBy(func(p *model.Post) bool {
		return p.UserID == "U1" && p.Caption == "hello" && len(p.ImageURLs()) == 2
	})).Return(nil)
	repo.On("GetPostByID", "P-new").Return(post("P-new", "U1"), nil)
	expectAssemble(repo, "P-new")

	view, err := s.CreatePost(context.Background(), "U1", PostInput{Caption: " hello ", Images: []string{"https://a", "https://b"}})

	require.NoError(t, err)
	assert.Equal(t, "P-new", view.ID)
	assert.Empty(t, view.Comments)
	repo.AssertExpectations(t)
}

func TestUpdatePost(t *testing.T) {
	t.Run("Owner keeps images when none given", func(t *testing.T) {
		repo := new(MockPostRepository)
		s, _ := newTestService(repo)
		existing := post("P1", "U1")
		repo.On("GetPostByID", "P1").Return(existing, nil)
		repo.On("UpdatePost", mock.MatchedBy(func(p *model.Post) bool {
			return p.Caption == "edited" && p.ImageURLs()[0] == "https://cdn/P1.png"
		})).Return(nil)
		expectAssemble(repo, "P1")

		view, err := s.UpdatePost(context.Background(), "U1", "P1", PostInput{Caption: "edited"})

		require.NoError(t, err)
		assert.Equal(t, "edited", view.Caption)
	})

	t.Run("Other user is rejected", func(t *testing.T) {
		repo := new(MockPostRepository)
		s, _ := newTestService(repo)
		repo.On("GetPostByID", "P1").Return(post("P1", "U1"), nil)

		_, err := s.UpdatePost(context.Background(), "U2", "P1", PostInput{Caption: "x"})

		assert.ErrorIs(t, err, ErrNotOwner)
		repo.AssertNotCalled(t, "UpdatePost", mock.Anything)
	})

	t.Run("Missing post", func(t *testing.T) {
		repo := new(MockPostRepository)
		s, _ := newTestService(repo)
		repo.On("GetPostByID", "P9").Return(nil, gorm.ErrRecordNotFound)

		_, err := s.UpdatePost(context.Background(), "U1", "P9", PostInput{})

		assert.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestDeletePostInvalidatesLikers(t *testing.T) {
	repo := new(MockPostRepository)
	s, c := newTestService(repo)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "likers:P1:1:10", model.LikersView{TotalPages: 1}, time.Minute))
	require.NoError(t, c.Set(ctx, "likers:P2:1:10", model.LikersView{TotalPages: 1}, time.Minute))
	repo.On("GetPostByID", "P1").Return(post("P1", "U1"), nil)
	repo.On("DeletePost", "P1").Return(nil)

	require.NoError(t, s.DeletePost(ctx, "U1", "P1"))

	var v model.LikersView
	assert.ErrorIs(t, c.Get(ctx, "likers:P1:1:10", &v), cache.ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, "likers:P2:1:10", &v))
}

func TestTogglePostLike(t *testing.T) {
	repo := new(MockPostRepository)
	s, _, users := newTestServiceWithUsers(repo)
	repo.On("GetPostByID", "P1").Return(post("P1", "U1"), nil)
	repo.On("ToggleLike", "U2", "P1", model.TargetPost).Return(true, nil)
	repo.On("GetLikeUserIDs", model.TargetPost, []string{"P1"}).
		Return(map[string][]string{"P1": {"U3", "U2"}}, nil)
	users.On("GetByIDs", []string{"U3", "U2"}).Return([]userModel.User{user("U3", "cy"), user("U2", "bob")}, nil)

	likes, err := s.TogglePostLike(context.Background(), "U2", "P1")

	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, "U2", likes[1].ID)
	assert.Equal(t, "bob", likes[1].Username)
}

func TestTogglePostLikeLastUnlike(t *testing.T) {
	repo := new(MockPostRepository)
	s, _, users := newTestServiceWithUsers(repo)
	repo.On("GetPostByID", "P1").Return(post("P1", "U1"), nil)
	repo.On("ToggleLike", "U2", "P1", model.TargetPost).Return(false, nil)
	repo.On("GetLikeUserIDs", model.TargetPost, []string{"P1"}).Return(map[string][]string{}, nil)
	users.On("GetByIDs", []string(nil)).Return([]userModel.User{}, nil)

	likes, err := s.TogglePostLike(context.Background(), "U2", "P1")

	require.NoError(t, err)
	assert.NotNil(t, likes)
	assert.Empty(t, likes)
}

func TestTogglePostLikeMissingPost(t *testing.T) {
	repo := new(MockPostRepository)
	s, _ := newTestService(repo)
	repo.On("GetPostByID", "P9").Return(nil, gorm.ErrRecordNotFound)

	_, err := s.TogglePostLike(context.Background(), "U2", "P9")

	assert.ErrorIs(t, err, ErrPostNotFound)
	repo.AssertNotCalled(t, "ToggleLike", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddComment(t *testing.T) {
	t.Run("Reply to nested comment", func(t *testing.T) {
		repo := new(MockPostRepository)
		s, _ := newTestService(repo)
		parent := comment("C2", "P1", "C1")
		saved := comment("C-new", "P1", "C2")
		repo.On("GetPostByID", "P1").Return(post("P1", "U1"), nil)
		repo.On("GetCommentByID", "C2").Return(&parent, nil)
		repo.On("CreateComment", mock.MatchedBy(func(c *model.Comment) bool {
			return c.ParentID != nil && *c.ParentID == "C2" && c.Text == "hi"
		})).Return(nil)
		repo.On("GetCommentByID", "C-new").Return(&saved, nil)

		view, err := s.AddComment("U2", CommentInput{PostID: "P1", Text: " hi ", ParentID: "C2"})

		require.NoError(t, err)
		assert.Equal(t, "C-new", view.ID)
		assert.Equal(t, "C2", view.ParentComment)
		assert.Equal(t, "bob", view.User.Username)
		assert.NotNil(t, view.Likes)
	})

	t.Run("Parent from another post", func(t *testing.T) {
		repo := new(MockPostRepository)
		s, _ := newTestService(repo)
		parent := comment("C7", "P2", "")
		repo.On("GetPostByID", "P1").Return(post("P1", "U1"), nil)
		repo.On("GetCommentByID", "C7").Return(&parent, nil)

		_, err := s.AddComment("U2", CommentInput{PostID: "P1", Text: "hi", ParentID: "C7"})

		assert.ErrorIs(t, err, ErrInvalidParent)
		repo.AssertNotCalled(t, "CreateComment", mock.Anything)
	})

	t.Run("Unknown parent", func(t *testing.T) {
		repo := new(MockPostRepository)
		s, _ := newTestService(repo)
		repo.On("GetPostByID", "P1").Return(post("P1", "U1"), nil)
		repo.On("GetCommentByID", "C9").Return(nil, gorm.ErrRecordNotFound)

		_, err := s.AddComment("U2", CommentInput{PostID: "P1", Text: "hi", ParentID: "C9"})

		assert.ErrorIs(t, err, ErrInvalidParent)
	})

	t.Run("Blank text", func(t *testing.T) {
		repo := new(MockPostRepository)
		s, _ := newTestService(repo)

		_, err := s.AddComment("U2", CommentInput{PostID: "P1", Text: "   "})

		assert.ErrorIs(t, err, ErrEmptyComment)
	})
}

func TestToggleCommentLike(t *testing.T) {
	t.Run("Returns liker ids", func(t *testing.T) {
		repo := new(MockPostRepository)
		s, _ := newTestService(repo)
		c := comment("C1", "P1", "")
		repo.On("GetCommentByID", "C1").Return(&c, nil)
		repo.On("ToggleLike", "U2", "C1", model.TargetComment).Return(false, nil)
		repo.On("GetLikeUserIDs", model.TargetComment, []string{"C1"}).Return(map[string][]string{}, nil)

		likes, err := s.ToggleCommentLike("U2", "P1", "C1")

		require.NoError(t, err)
		assert.NotNil(t, likes)
		assert.Empty(t, likes)
	})

	t.Run("Comment of another post", func(t *testing.T) {
		repo := new(MockPostRepository)
		s, _ := newTestService(repo)
		c := comment("C1", "P2", "")
		repo.On("GetCommentByID", "C1").Return(&c, nil)

		_, err := s.ToggleCommentLike("U2", "P1", "C1")

		assert.ErrorIs(t, err, ErrCommentNotFound)
	})
}

func TestGetLikersCached(t *testing.T) {
	repo := new(MockPostRepository)
	s, _ := newTestService(repo)
	repo.On("GetPostByID", "P1").Return(post("P1", "U1"), nil)
	repo.On("GetLikers", "P1", model.TargetPost, 10, 10).
		Return([]userModel.User{user("U2", "bob")}, int64(23), nil)

	first, err := s.GetLikers(context.Background(), "P1", 2, 10)
	require.NoError(t, err)
	second, err := s.GetLikers(context.Background(), "P1", 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "GetLikers", 1)
}

func TestGetLikersInvalidatedByToggle(t *testing.T) {
	repo := new(MockPostRepository)
	s, _, users := newTestServiceWithUsers(repo)
	repo.On("GetPostByID", "P1").Return(post("P1", "U1"), nil)
	repo.On("GetLikers", "P1", model.TargetPost, 0, 10).Return([]userModel.User{}, int64(0), nil)
	repo.On("ToggleLike", "U2", "P1", model.TargetPost).Return(true, nil)
	repo.On("GetLikeUserIDs", model.TargetPost, []string{"P1"}).
		Return(map[string][]string{"P1": {"U2"}}, nil)
	users.On("GetByIDs", []string{"U2"}).Return([]userModel.User{user("U2", "bob")}, nil)

	_, err := s.GetLikers(context.Background(), "P1", 1, 10)
	require.NoError(t, err)
	_, err = s.TogglePostLike(context.Background(), "U2", "P1")
	require.NoError(t, err)
	_, err = s.GetLikers(context.Background(), "P1", 1, 10)
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "GetLikers", 2)
}

func TestGetLikersMissingPost(t *testing.T) {
	repo := new(MockPostRepository)
	s, _ := newTestService(repo)
	repo.On("GetPostByID", "P9").Return(nil, gorm.ErrRecordNotFound)

	_, err := s.GetLikers(context.Background(), "P9", 1, 10)

	assert.ErrorIs(t, err, ErrPostNotFound)
}
