package feed

import "context"

// PageFetcher 按页号拉取帖子
type PageFetcher interface {
	FetchPage(ctx context.Context, page, limit int) ([]Post, error)
}

// API 信息流依赖的远端接口，实现见 internal/feed/api
type API interface {
	PageFetcher

	CreatePost(ctx context.Context, caption string, images []string) (Post, error)
	UpdatePost(ctx context.Context, postID, caption string, images []string) (Post, error)
	DeletePost(ctx context.Context, postID string) error

	TogglePostLike(ctx context.Context, postID string) (LikeSet, error)
	AddComment(ctx context.Context, postID, text, parentID string) (Comment, error)
	ToggleCommentLike(ctx context.Context, postID, commentID string) (LikeSet, error)

	Likers(ctx context.Context, postID string, page, limit int) (LikersPage, error)
}

// AuthAPI 登录/注册接口
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (UserRef, string, error)
	Signup(ctx context.Context, req SignupRequest) (UserRef, error)
}

// AssetUploader 资源托管方，返回可公开访问的 URL
type AssetUploader interface {
	Upload(ctx context.Context, file Upload) (string, error)
	UploadAll(ctx context.Context, files []Upload) ([]string, error)
}

// Upload 待上传的文件
type Upload struct {
	Filename string
	Content  []byte
}

// LikersPage 点赞用户分页结果
type LikersPage struct {
	Users      []UserRef `json:"users"`
	TotalPages int       `json:"totalPages"`
}

// SignupRequest 注册请求体
type SignupRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
}
