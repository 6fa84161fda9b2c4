package model

import (
	baseModel "social_feed/pkg/model"
)

// User 用户模型
type User struct {
	baseModel.BaseModel
	Username       string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Password       string `gorm:"not null" json:"-"` // bcrypt 哈希，不返回给前端
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
}

// Ref 嵌入在帖子、评论和点赞列表中的作者信息
type Ref struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Bio            string `json:"bio,omitempty"`
}

// Ref 转为对外的精简结构
func (u *User) Ref() Ref {
	return Ref{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
	}
}
