package feed

import (
	"context"
	"sync"
)

// FullVisibility 哨兵完全可见的阈值
const FullVisibility = 1.0

// Trigger 观察哨兵元素的可见比例。
// 比例达到阈值且 arm 返回 true 时触发一次 fire；每个事件都重新评估条件，
// 观察者本身不会在触发后失效。Disconnect 之后不再触发。
type Trigger struct {
	threshold float64
	arm       func() bool
	fire      func()

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewTrigger arm 负责检查并占用（hasMore 且无在途请求），fire 负责发起加载
func NewTrigger(threshold float64, arm func() bool, fire func()) *Trigger {
	if threshold <= 0 {
		threshold = FullVisibility
	}
	return &Trigger{
		threshold: threshold,
		arm:       arm,
		fire:      fire,
		done:      make(chan struct{}),
	}
}

// Notify 处理一次可见性事件，返回是否触发了加载
func (t *Trigger) Notify(ratio float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || ratio < t.threshold {
		return false
	}
	if !t.arm() {
		return false
	}
	t.fire()
	return true
}

// Watch 持续消费可见性事件，直到 ctx 结束、通道关闭或 Disconnect
func (t *Trigger) Watch(ctx context.Context, events <-chan float64) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case ratio, ok := <-events:
			if !ok {
				return
			}
			t.Notify(ratio)
		}
	}
}

// Disconnect 视图销毁时调用，可重复调用
func (t *Trigger) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	close(t.done)
}

// Connected 是否仍在观察
func (t *Trigger) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}
