package model

import (
	"time"

	userModel "social_feed/internal/domain/user/model"
)

// PostView 帖子对外结构，评论已组装为树
type PostView struct {
	ID        string        `json:"_id"`
	Caption   string        `json:"caption"`
	Images    []string      `json:"images"`
	User      userModel.Ref `json:"user"`
	Likes     []string      `json:"likes"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"createdAt"`
}

// CommentView 评论树节点
type CommentView struct {
	ID            string        `json:"_id"`
	Text          string        `json:"text"`
	User          userModel.Ref `json:"user"`
	CreatedAt     time.Time     `json:"createdAt"`
	Likes         []string      `json:"likes"`
	Replies       []CommentView `json:"replies"`
	ParentComment string        `json:"parentComment,omitempty"`
}

// LikersView 点赞用户分页
type LikersView struct {
	Users      []userModel.Ref `json:"users"`
	TotalPages int             `json:"totalPages"`
}
