package feed

import (
	"context"
	"sync"
)

// DefaultPageSize 信息流每页条数
const DefaultPageSize = 7

// Paginator 顺序拉取页面。
// 同一时刻最多一个请求在途；某页条数少于 pageSize 即视为最后一页，此后不再拉取。
type Paginator struct {
	fetcher  PageFetcher
	pageSize int

	mu       sync.Mutex
	nextPage int
	hasMore  bool
	inFlight bool
	fetches  int
}

func NewPaginator(fetcher PageFetcher, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{
		fetcher:  fetcher,
		pageSize: pageSize,
		nextPage: 1,
		hasMore:  true,
	}
}

// Begin 尝试占用本次拉取，成功时返回要拉取的页号。
// 已无更多数据或已有请求在途时返回 false。
func (p *Paginator) Begin() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasMore || p.inFlight {
		return 0, false
	}
	p.inFlight = true
	p.fetches++
	return p.nextPage, true
}

// Fetch 拉取已通过 Begin 占用的页面，并释放在途标记
func (p *Paginator) Fetch(ctx context.Context, page int) ([]Post, error) {
	posts, err := p.fetcher.FetchPage(ctx, page, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	if err != nil {
		// 页号不前进，下一次触发重新拉取同一页
		return nil, err
	}
	if len(posts) < p.pageSize {
		p.hasMore = false
	}
	p.nextPage = page + 1
	return posts, nil
}

// Load 依次执行 Begin 与 Fetch
func (p *Paginator) Load(ctx context.Context) ([]Post, error) {
	page, ok := p.Begin()
	if !ok {
		if !p.HasMore() {
			return nil, ErrNoMorePages
		}
		return nil, ErrFetchInFlight
	}
	return p.Fetch(ctx, page)
}

// Restart 回到第一页并占用本次拉取。已有请求在途时不改动任何状态
func (p *Paginator) Restart() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight {
		return 0, false
	}
	p.nextPage = 1
	p.hasMore = true
	p.inFlight = true
	p.fetches++
	return p.nextPage, true
}

func (p *Paginator) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *Paginator) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// NextPage 下一次将要拉取的页号
func (p *Paginator) NextPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextPage
}

// Fetches 已发起的拉取次数
func (p *Paginator) Fetches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

func (p *Paginator) PageSize() int {
	return p.pageSize
}

// MergePage 把新页合并到已持有的帖子之后，过滤掉已存在的ID（包括页内重复）
func MergePage(held, fetched []Post) []Post {
	seen := make(map[string]struct{}, len(held)+len(fetched))
	for _, p := range held {
		seen[p.ID] = struct{}{}
	}

	out := make([]Post, len(held), len(held)+len(fetched))
	copy(out, held)
	for _, p := range fetched {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
