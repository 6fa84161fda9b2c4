package feed

import (
	"errors"
	"sync"
)

// NoticeKind 提示类型
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice 面向用户的短暂提示
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
}

// Notifier 由视图层实现，用来展示提示
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc 适配普通函数
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

// NoticeBuffer 收集提示，主要用于测试和非交互场景
type NoticeBuffer struct {
	mu      sync.Mutex
	notices []Notice
}

func (b *NoticeBuffer) Notify(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
}

// Drain 取出并清空已收集的提示
func (b *NoticeBuffer) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	return out
}

// failureMessage 优先使用服务端返回的 message
func failureMessage(err error, fallback string) string {
	var msg interface{ ServerMessage() string }
	if errors.As(err, &msg) && msg.ServerMessage() != "" {
		return msg.ServerMessage()
	}
	if errors.Is(err, ErrValidation) {
		return err.Error()
	}
	return fallback
}
