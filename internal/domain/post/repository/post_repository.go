package repository

import (
	"social_feed/internal/domain/post/model"
	userModel "social_feed/internal/domain/user/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	CreatePost(post *model.Post) error
	GetPostByID(id string) (*model.Post, error)
	GetPosts(offset, limit int) ([]model.Post, error)
	UpdatePost(post *model.Post) error
	DeletePost(id string) error

	CreateComment(comment *model.Comment) error
	GetCommentByID(id string) (*model.Comment, error)
	GetCommentsByPostIDs(postIDs []string) ([]model.Comment, error)

	ToggleLike(userID, targetID, targetType string) (bool, error)
	GetLikeUserIDs(targetType string, targetIDs []string) (map[string][]string, error)
	GetLikers(targetID, targetType string, offset, limit int) ([]userModel.User, int64, error)
}

const likeTarget = "target_id = ? AND target_type = ?"

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// --- Post ---

func (r *postRepository) CreatePost(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) GetPostByID(id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("User").Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPosts 最新的在前，同一时刻按ID稳定排序
func (r *postRepository) GetPosts(offset, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Preload("User").
		Order("created_at desc").Order("id desc").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) UpdatePost(post *model.Post) error {
	return r.db.Model(post).Select("caption", "images").Updates(post).Error
}

func (r *postRepository) DeletePost(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Post{}).Error
}

// --- Comment ---

func (r *postRepository) CreateComment(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *postRepository) GetCommentByID(id string) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Preload("User").Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *postRepository) GetCommentsByPostIDs(postIDs []string) ([]model.Comment, error) {
	var comments []model.Comment
	if len(postIDs) == 0 {
		return comments, nil
	}
	err := r.db.Preload("User").
		Where("post_id IN ?", postIDs).
		Order("created_at asc").Order("id asc").
		Find(&comments).Error
	return comments, err
}

// --- Like ---

// ToggleLike 已赞则取消，否则点赞，返回操作后是否处于已赞状态
func (r *postRepository) ToggleLike(userID, targetID, targetType string) (bool, error) {
	liked := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).
			Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		// 唯一约束报错会中止事务；冲突时并发请求已插入，结果同样是已赞
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Like{UserID: userID, TargetID: targetID, TargetType: targetType})
		if res.Error != nil {
			return res.Error
		}
		liked = true
		return nil
	})
	return liked, err
}

// GetLikeUserIDs targetID -> 点赞用户ID，按点赞时间排序
func (r *postRepository) GetLikeUserIDs(targetType string, targetIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(targetIDs))
	if len(targetIDs) == 0 {
		return out, nil
	}

	var likes []model.Like
	err := r.db.Select("user_id", "target_id").
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Order("created_at asc").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		out[l.TargetID] = append(out[l.TargetID], l.UserID)
	}
	return out, nil
}

// GetLikers 分页返回点赞用户，最近点赞的在前
func (r *postRepository) GetLikers(targetID, targetType string, offset, limit int) ([]userModel.User, int64, error) {
	var total int64
	if err := r.db.Model(&model.Like{}).Where(likeTarget, targetID, targetType).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var likes []model.Like
	if err := r.db.Preload("User").Where(likeTarget, targetID, targetType).Order("created_at desc").Offset(offset).Limit(limit).Find(&likes).Error; err != nil {
		return nil, 0, err
	}
	return likeUsers(likes), total, nil
}

func likeUsers(likes []model.Like) []userModel.User {
	users := make([]userModel.User, 0, len(likes))
	for _, l := range likes {
		users = append(users, l.User)
	}
	return users
}
