package feed

import "sync"

// Session 显式的会话上下文，登录时 Begin，登出时 End
type Session struct {
	mu    sync.RWMutex
	user  *UserRef
	token string
}

func NewSession() *Session {
	return &Session{}
}

// Begin 登录成功后初始化会话
func (s *Session) Begin(user UserRef, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.token = token
}

// End 登出
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
}

// User 返回当前用户
func (s *Session) User() (UserRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return UserRef{}, false
	}
	return *s.user, true
}

// UserID 返回当前用户ID
func (s *Session) UserID() (string, bool) {
	u, ok := s.User()
	return u.ID, ok
}

// Token 返回请求鉴权用的令牌，未登录时为空
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Active 是否已登录
func (s *Session) Active() bool {
	_, ok := s.UserID()
	return ok
}
