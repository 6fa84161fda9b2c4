package model

import (
	"encoding/json"
	"time"

	userModel "social_feed/internal/domain/user/model"
	baseModel "social_feed/pkg/model"
)

// 点赞目标类型
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Post 帖子
type Post struct {
	baseModel.BaseModel
	UserID  string          `gorm:"type:uuid;index;not null" json:"userId"`
	Caption string          `json:"caption"`
	Images  json.RawMessage `gorm:"type:jsonb" json:"images"` // 图片 URL 数组

	User userModel.User `gorm:"foreignKey:UserID" json:"-"`
}

// ImageURLs 解析图片列表
func (p *Post) ImageURLs() []string {
	var urls []string
	if len(p.Images) > 0 {
		_ = json.Unmarshal(p.Images, &urls)
	}
	if urls == nil {
		urls = []string{}
	}
	return urls
}

// SetImages 写入图片列表
func (p *Post) SetImages(urls []string) {
	if urls == nil {
		urls = []string{}
	}
	p.Images, _ = json.Marshal(urls)
}

// Comment 评论。ParentID 为空表示一级评论，否则为对任意层级评论的回复
type Comment struct {
	baseModel.BaseModel
	PostID   string  `gorm:"type:uuid;index;not null" json:"postId"`
	UserID   string  `gorm:"type:uuid;not null" json:"userId"`
	ParentID *string `gorm:"type:uuid;index" json:"parentComment,omitempty"`
	Text     string  `gorm:"not null" json:"text"`

	User userModel.User `gorm:"foreignKey:UserID" json:"-"`
}

// Like 点赞，取消点赞时物理删除
type Like struct {
	ID         string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_target"`
	TargetID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_target;index"`
	TargetType string    `gorm:"size:16;not null;uniqueIndex:idx_likes_user_target"`
	CreatedAt  time.Time

	User userModel.User `gorm:"foreignKey:UserID"`
}
