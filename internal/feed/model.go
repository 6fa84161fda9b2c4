package feed

import "time"

// UserRef 帖子/评论作者的引用
type UserRef struct {
	ID             string `json:"_id"`
	Username       string `json:"username,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Bio            string `json:"bio,omitempty"`
}

// Post 信息流中的帖子
type Post struct {
	ID        string    `json:"_id"`
	Caption   string    `json:"caption,omitempty"`
	Images    []string  `json:"images"`
	User      UserRef   `json:"user"`
	Likes     LikeSet   `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment 评论，Replies 与自身同构，可以任意嵌套
type Comment struct {
	ID            string    `json:"_id"`
	Text          string    `json:"text"`
	User          UserRef   `json:"user"`
	CreatedAt     time.Time `json:"createdAt"`
	Likes         LikeSet   `json:"likes"`
	Replies       []Comment `json:"replies,omitempty"`
	ParentComment string    `json:"parentComment,omitempty"`

	// Pending 为 true 表示这是尚未被服务端确认的占位节点
	Pending bool `json:"-"`
}

// Liked 当前用户是否已点赞该帖子
func (p Post) Liked(userID string) bool {
	return p.Likes.Has(userID)
}

// CountComments 统计整棵评论树的节点数
func CountComments(tree []Comment) int {
	n := 0
	for _, c := range tree {
		n += 1 + CountComments(c.Replies)
	}
	return n
}
