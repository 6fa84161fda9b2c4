package feed

import "sync"

// Store 持有内存中的帖子列表。
// 每次修改都是对上一个快照的纯变换，在锁内执行，避免两个变更先后完成时丢失更新。
type Store struct {
	mu        sync.Mutex
	posts     []Post
	version   uint64
	listeners map[int]func([]Post)
	nextID    int
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]func([]Post))}
}

// Snapshot 返回当前快照，调用方不得修改
func (s *Store) Snapshot() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts
}

// Version 每次修改递增
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Update 用 fn 把旧快照变换为新快照
func (s *Store) Update(fn func(prev []Post) []Post) {
	s.mu.Lock()
	s.posts = fn(s.posts)
	s.version++
	snapshot := s.posts
	listeners := make([]func([]Post), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// UpdatePost 只变换ID匹配的帖子，返回是否找到
func (s *Store) UpdatePost(id string, fn func(Post) Post) bool {
	found := false
	s.Update(func(prev []Post) []Post {
		for i := range prev {
			if prev[i].ID != id {
				continue
			}
			found = true
			out := make([]Post, len(prev))
			copy(out, prev)
			out[i] = fn(prev[i])
			return out
		}
		return prev
	})
	return found
}

// Post 按ID取帖子
func (s *Store) Post(id string) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

// Subscribe 注册变更监听，返回取消函数
func (s *Store) Subscribe(fn func([]Post)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Prepend 新帖子放在最前面
func Prepend(posts []Post, post Post) []Post {
	out := make([]Post, 0, len(posts)+1)
	out = append(out, post)
	for _, p := range posts {
		if p.ID != post.ID {
			out = append(out, p)
		}
	}
	return out
}

// ReplacePost 整体替换ID匹配的帖子
func ReplacePost(posts []Post, post Post) []Post {
	out := make([]Post, len(posts))
	for i, p := range posts {
		if p.ID == post.ID {
			out[i] = post
		} else {
			out[i] = p
		}
	}
	return out
}

// RemovePost 移除ID匹配的帖子
func RemovePost(posts []Post, id string) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
