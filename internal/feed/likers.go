package feed

import (
	"context"
	"sync"
)

// DefaultLikersPageSize 点赞列表每页条数
const DefaultLikersPageSize = 20

// LikersPager 分页加载某帖子的点赞用户，page < totalPages 时还有下一页
type LikersPager struct {
	api    API
	postID string
	limit  int

	mu       sync.Mutex
	page     int
	hasMore  bool
	inFlight bool
	users    []UserRef
}

func NewLikersPager(api API, postID string, limit int) *LikersPager {
	if limit <= 0 {
		limit = DefaultLikersPageSize
	}
	return &LikersPager{api: api, postID: postID, limit: limit, page: 1, hasMore: true}
}

// Load 加载下一页，返回本次新增的用户
func (l *LikersPager) Load(ctx context.Context) ([]UserRef, error) {
	l.mu.Lock()
	if !l.hasMore {
		l.mu.Unlock()
		return nil, ErrNoMorePages
	}
	if l.inFlight {
		l.mu.Unlock()
		return nil, ErrFetchInFlight
	}
	l.inFlight = true
	page := l.page
	l.mu.Unlock()

	res, err := l.api.Likers(ctx, l.postID, page, l.limit)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight = false
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(l.users))
	for _, u := range l.users {
		seen[u.ID] = struct{}{}
	}
	added := make([]UserRef, 0, len(res.Users))
	for _, u := range res.Users {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		added = append(added, u)
	}
	l.users = append(l.users, added...)
	l.hasMore = page < res.TotalPages
	l.page = page + 1
	return added, nil
}

// Users 已加载的全部用户
func (l *LikersPager) Users() []UserRef {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]UserRef, len(l.users))
	copy(out, l.users)
	return out
}

func (l *LikersPager) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}
