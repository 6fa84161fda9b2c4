package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options Feed 的可选配置
type Options struct {
	PageSize  int
	Threshold float64
	Assets    AssetUploader
	Logger    *zap.Logger
	Notifier  Notifier
	// NewTempID 生成临时ID，默认 tmp-<uuid>
	NewTempID func() string
	// Now 默认 time.Now
	Now func() time.Time
}

// Feed 把分页器、滚动触发器和乐观变更协调器组装成一个信息流
type Feed struct {
	api      API
	session  *Session
	assets   AssetUploader
	store    *Store
	pager    *Paginator
	trigger  *Trigger
	coord    *Coordinator
	log      *zap.Logger
	notifier Notifier

	newTempID func() string
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	loads  sync.WaitGroup

	// 仅在 trigger 的锁内读写
	armedPage int
}

// New 创建信息流，ctx 决定后台加载的生命周期
func New(ctx context.Context, api API, session *Session, opts Options) *Feed {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = discardNotifier{}
	}
	newTempID := opts.NewTempID
	if newTempID == nil {
		newTempID = func() string { return "tmp-" + uuid.NewString() }
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	f := &Feed{
		api:       api,
		session:   session,
		assets:    opts.Assets,
		store:     NewStore(),
		pager:     NewPaginator(api, opts.PageSize),
		coord:     NewCoordinator(log, notifier),
		log:       log,
		notifier:  notifier,
		newTempID: newTempID,
		now:       now,
	}
	f.ctx, f.cancel = context.WithCancel(ctx)
	f.trigger = NewTrigger(opts.Threshold, f.armLoad, f.fireLoad)
	return f
}

// Start 同步加载第一页
func (f *Feed) Start(ctx context.Context) error {
	_, err := f.LoadMore(ctx)
	return err
}

// LoadMore 同步加载下一页，返回新增帖子数
func (f *Feed) LoadMore(ctx context.Context) (int, error) {
	page, ok := f.pager.Begin()
	if !ok {
		if !f.pager.HasMore() {
			return 0, ErrNoMorePages
		}
		return 0, ErrFetchInFlight
	}
	return f.loadPage(ctx, page)
}

// Visible 哨兵可见性事件
func (f *Feed) Visible(ratio float64) bool {
	return f.trigger.Notify(ratio)
}

// Watch 消费可见性事件流，直到 Close 或 ctx 结束
func (f *Feed) Watch(ctx context.Context, events <-chan float64) {
	f.trigger.Watch(ctx, events)
}

// WaitLoads 等待所有由触发器发起的加载完成
func (f *Feed) WaitLoads() {
	f.loads.Wait()
}

func (f *Feed) armLoad() bool {
	page, ok := f.pager.Begin()
	if ok {
		f.armedPage = page
	}
	return ok
}

func (f *Feed) fireLoad() {
	page := f.armedPage
	f.loads.Add(1)
	go func() {
		defer f.loads.Done()
		if _, err := f.loadPage(f.ctx, page); err != nil {
			f.log.Debug("background page load failed", zap.Int("page", page), zap.Error(err))
		}
	}()
}

func (f *Feed) loadPage(ctx context.Context, page int) (int, error) {
	posts, err := f.pager.Fetch(ctx, page)
	if err != nil {
		f.log.Error("failed to fetch posts", zap.Int("page", page), zap.Error(err))
		f.notifier.Notify(Notice{Kind: NoticeError, Message: failureMessage(err, "Failed to fetch posts"), Err: err})
		return 0, err
	}
	if f.closed() {
		return 0, ErrClosed
	}

	added := 0
	f.store.Update(func(prev []Post) []Post {
		next := MergePage(prev, posts)
		added = len(next) - len(prev)
		return next
	})
	f.log.Debug("page merged",
		zap.Int("page", page),
		zap.Int("fetched", len(posts)),
		zap.Int("added", added),
		zap.Bool("has_more", f.pager.HasMore()),
	)
	return added, nil
}

// Refresh 回到第一页并用最新数据替换整个列表
func (f *Feed) Refresh(ctx context.Context) error {
	page, ok := f.pager.Restart()
	if !ok {
		return ErrFetchInFlight
	}
	posts, err := f.pager.Fetch(ctx, page)
	if err != nil {
		f.notifier.Notify(Notice{Kind: NoticeError, Message: failureMessage(err, "Failed to fetch posts"), Err: err})
		return err
	}
	f.store.Update(func([]Post) []Post { return MergePage(nil, posts) })
	return nil
}

// Posts 当前帖子列表快照
func (f *Feed) Posts() []Post {
	return f.store.Snapshot()
}

// Post 按ID取帖子
func (f *Feed) Post(id string) (Post, bool) {
	return f.store.Post(id)
}

// HasMore 是否还有下一页
func (f *Feed) HasMore() bool {
	return f.pager.HasMore()
}

// Loading 是否有页面请求在途
func (f *Feed) Loading() bool {
	return f.pager.InFlight()
}

// Paginator 暴露分页器状态
func (f *Feed) Paginator() *Paginator {
	return f.pager
}

// Coordinator 暴露乐观变更统计
func (f *Feed) Coordinator() *Coordinator {
	return f.coord
}

// Subscribe 监听列表变更
func (f *Feed) Subscribe(fn func([]Post)) func() {
	return f.store.Subscribe(fn)
}

// Close 断开触发器并停止后台加载
func (f *Feed) Close() {
	f.trigger.Disconnect()
	f.cancel()
	f.loads.Wait()
}

func (f *Feed) closed() bool {
	return f.ctx.Err() != nil
}

func (f *Feed) currentUser() (UserRef, error) {
	user, ok := f.session.User()
	if !ok {
		return UserRef{}, ErrNotLoggedIn
	}
	return user, nil
}

// AddComment 乐观地发表一级评论
func (f *Feed) AddComment(ctx context.Context, postID, text string) (Comment, error) {
	if strings.TrimSpace(text) == "" {
		return Comment{}, validationError("comment text is required")
	}
	user, err := f.currentUser()
	if err != nil {
		return Comment{}, err
	}
	if _, ok := f.store.Post(postID); !ok {
		return Comment{}, ErrPostNotFound
	}

	tempID := f.newTempID()
	placeholder := Comment{
		ID:        tempID,
		Text:      text,
		User:      UserRef{ID: user.ID, Username: user.Username},
		CreatedAt: f.now(),
		Likes:     LikeSet{},
		Pending:   true,
	}

	comment, _, err := Run(ctx, f.coord, Mutation[Comment]{
		Name:           "add_comment",
		FailureMessage: "Failed to submit comment",
		Apply: func() {
			f.store.UpdatePost(postID, func(p Post) Post {
				comments := make([]Comment, len(p.Comments), len(p.Comments)+1)
				copy(comments, p.Comments)
				p.Comments = append(comments, placeholder)
				return p
			})
		},
		Send: func(ctx context.Context) (Comment, error) {
			return f.api.AddComment(ctx, postID, text, "")
		},
		Reconcile: func(server Comment) {
			f.store.UpdatePost(postID, func(p Post) Post {
				p.Comments, _ = ReplaceNode(p.Comments, tempID, server)
				return p
			})
		},
		Rollback: func(error) {
			f.store.UpdatePost(postID, func(p Post) Post {
				p.Comments, _ = RemoveNode(p.Comments, tempID)
				return p
			})
		},
	})
	return comment, err
}

// AddReply 乐观地回复任意深度的评论
func (f *Feed) AddReply(ctx context.Context, postID, parentID, text string) (Comment, error) {
	if strings.TrimSpace(text) == "" {
		return Comment{}, validationError("reply text is required")
	}
	user, err := f.currentUser()
	if err != nil {
		return Comment{}, err
	}
	post, ok := f.store.Post(postID)
	if !ok {
		return Comment{}, ErrPostNotFound
	}
	parent, ok := FindNode(post.Comments, parentID)
	if !ok {
		return Comment{}, ErrCommentMissing
	}
	if parent.Pending {
		return Comment{}, validationError("comment is still sending")
	}

	tempID := f.newTempID()
	placeholder := Comment{
		ID:            tempID,
		Text:          text,
		User:          UserRef{ID: user.ID, Username: user.Username},
		CreatedAt:     f.now(),
		Likes:         LikeSet{},
		ParentComment: parentID,
		Pending:       true,
	}

	reply, _, err := Run(ctx, f.coord, Mutation[Comment]{
		Name:           "add_reply",
		FailureMessage: "Failed to submit reply",
		Apply: func() {
			f.store.UpdatePost(postID, func(p Post) Post {
				p.Comments, _ = InsertReply(p.Comments, parentID, placeholder)
				return p
			})
		},
		Send: func(ctx context.Context) (Comment, error) {
			return f.api.AddComment(ctx, postID, text, parentID)
		},
		Reconcile: func(server Comment) {
			f.store.UpdatePost(postID, func(p Post) Post {
				p.Comments, _ = ReplaceNode(p.Comments, tempID, server)
				return p
			})
		},
		Rollback: func(error) {
			f.store.UpdatePost(postID, func(p Post) Post {
				p.Comments, _ = RemoveNode(p.Comments, tempID)
				return p
			})
		},
	})
	return reply, err
}

// TogglePostLike 乐观地切换帖子点赞，返回切换后是否处于已赞状态
func (f *Feed) TogglePostLike(ctx context.Context, postID string) (bool, error) {
	user, err := f.currentUser()
	if err != nil {
		return false, err
	}
	post, ok := f.store.Post(postID)
	if !ok {
		return false, ErrPostNotFound
	}
	wasLiked := post.Likes.Has(user.ID)

	likes, _, err := Run(ctx, f.coord, Mutation[LikeSet]{
		Name:           "toggle_post_like",
		FailureMessage: "Failed to like post",
		Apply: func() {
			f.store.UpdatePost(postID, func(p Post) Post {
				p.Likes = p.Likes.Restore(user.ID, !wasLiked)
				return p
			})
		},
		Send: func(ctx context.Context) (LikeSet, error) {
			return f.api.TogglePostLike(ctx, postID)
		},
		Reconcile: func(server LikeSet) {
			// 以服务端为准，连续两次切换的竞态最终收敛到服务端状态
			f.store.UpdatePost(postID, func(p Post) Post {
				p.Likes = server
				return p
			})
		},
		Rollback: func(error) {
			f.store.UpdatePost(postID, func(p Post) Post {
				p.Likes = p.Likes.Restore(user.ID, wasLiked)
				return p
			})
		},
	})
	if err != nil {
		return wasLiked, err
	}
	return likes.Has(user.ID), nil
}

// ToggleCommentLike 乐观地切换评论或回复的点赞
func (f *Feed) ToggleCommentLike(ctx context.Context, postID, commentID string) (bool, error) {
	user, err := f.currentUser()
	if err != nil {
		return false, err
	}
	post, ok := f.store.Post(postID)
	if !ok {
		return false, ErrPostNotFound
	}
	target, ok := FindNode(post.Comments, commentID)
	if !ok {
		return false, ErrCommentMissing
	}
	wasLiked := target.Likes.Has(user.ID)

	setLikes := func(fn func(LikeSet) LikeSet) {
		f.store.UpdatePost(postID, func(p Post) Post {
			p.Comments, _ = UpdateNode(p.Comments, commentID, func(c Comment) Comment {
				c.Likes = fn(c.Likes)
				return c
			})
			return p
		})
	}

	likes, _, err := Run(ctx, f.coord, Mutation[LikeSet]{
		Name:           "toggle_comment_like",
		FailureMessage: "Failed to like comment",
		Apply: func() {
			setLikes(func(l LikeSet) LikeSet { return l.Restore(user.ID, !wasLiked) })
		},
		Send: func(ctx context.Context) (LikeSet, error) {
			return f.api.ToggleCommentLike(ctx, postID, commentID)
		},
		Reconcile: func(server LikeSet) {
			setLikes(func(LikeSet) LikeSet { return server })
		},
		Rollback: func(error) {
			setLikes(func(l LikeSet) LikeSet { return l.Restore(user.ID, wasLiked) })
		},
	})
	if err != nil {
		return wasLiked, err
	}
	return likes.Has(user.ID), nil
}

// CreatePost 上传图片后创建帖子，成功后放在列表最前面
func (f *Feed) CreatePost(ctx context.Context, caption string, files []Upload) (Post, error) {
	if len(files) == 0 {
		err := validationError("please select images")
		f.notifier.Notify(Notice{Kind: NoticeError, Message: "Please select images", Err: err})
		return Post{}, err
	}
	if _, err := f.currentUser(); err != nil {
		return Post{}, err
	}
	if f.assets == nil {
		return Post{}, fmt.Errorf("%w: no asset host configured", ErrUpload)
	}

	urls, err := f.assets.UploadAll(ctx, files)
	if err != nil {
		f.log.Error("image upload failed", zap.Int("files", len(files)), zap.Error(err))
		f.notifier.Notify(Notice{Kind: NoticeError, Message: "Failed to create post.", Err: err})
		return Post{}, err
	}

	post, err := f.api.CreatePost(ctx, caption, urls)
	if err != nil {
		f.log.Error("post creation failed", zap.Error(err))
		f.notifier.Notify(Notice{Kind: NoticeError, Message: "Failed to create post.", Err: err})
		return Post{}, err
	}

	f.store.Update(func(prev []Post) []Post { return Prepend(prev, post) })
	f.notifier.Notify(Notice{Kind: NoticeSuccess, Message: "Post created!"})
	return post, nil
}

// EditPost 更新标题和图片，成功后整体替换列表中的帖子
func (f *Feed) EditPost(ctx context.Context, postID, caption string, images []string) (Post, error) {
	if _, err := f.currentUser(); err != nil {
		return Post{}, err
	}
	post, err := f.api.UpdatePost(ctx, postID, caption, images)
	if err != nil {
		f.log.Error("post update failed", zap.String("post_id", postID), zap.Error(err))
		f.notifier.Notify(Notice{Kind: NoticeError, Message: failureMessage(err, "Error updating post."), Err: err})
		return Post{}, err
	}
	f.store.Update(func(prev []Post) []Post { return ReplacePost(prev, post) })
	return post, nil
}

// DeletePost 删除成功后从列表移除
func (f *Feed) DeletePost(ctx context.Context, postID string) error {
	if _, err := f.currentUser(); err != nil {
		return err
	}
	if err := f.api.DeletePost(ctx, postID); err != nil {
		f.log.Error("post delete failed", zap.String("post_id", postID), zap.Error(err))
		f.notifier.Notify(Notice{Kind: NoticeError, Message: "Error deleting post.", Err: err})
		return err
	}
	f.store.Update(func(prev []Post) []Post { return RemovePost(prev, postID) })
	return nil
}

// Likers 为某个帖子创建点赞用户分页器
func (f *Feed) Likers(postID string) *LikersPager {
	return NewLikersPager(f.api, postID, DefaultLikersPageSize)
}
