package post

import (
	"social_feed/internal/domain/post/handler"
	"social_feed/internal/domain/post/repository"
	"social_feed/internal/domain/post/service"
	userRepository "social_feed/internal/domain/user/repository"
	"social_feed/internal/pkg/middleware"
	"social_feed/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PostModule 帖子、评论与点赞
type PostModule struct{}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

func (m *PostModule) Priority() int {
	return 10
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewPostRepository(ctx.DB)
	svc := service.NewPostService(repo, userRepository.NewUserRepository(ctx.DB), ctx.Cache, ctx.Metrics, ctx.Logger.Named("post"))
	h := handler.NewPostHandler(svc, ctx.Logger.Named("post"))

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PostHandler) {
	posts := r.Group("/posts")
	{
		posts.GET("/paginated", h.GetPaginated)
		posts.GET("/:id/likers", h.GetLikers)

		auth := posts.Group("", middleware.AuthMiddleware())
		auth.POST("/create", h.CreatePost)
		auth.PUT("/updatepost/:id", h.UpdatePost)
		auth.DELETE("/deletepost/:id", h.DeletePost)
		auth.POST("/like", h.LikePost)
		auth.POST("/comment", h.AddComment)
		auth.PUT("/like-comment", h.LikeComment)
	}
}
