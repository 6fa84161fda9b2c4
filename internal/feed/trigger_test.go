package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type armState struct {
	hasMore  bool
	inFlight bool
	fired    int
}

func newTestTrigger(s *armState) *Trigger {
	return NewTrigger(FullVisibility,
		func() bool {
			if !s.hasMore || s.inFlight {
				return false
			}
			s.inFlight = true
			return true
		},
		func() { s.fired++ },
	)
}

func TestTriggerThreshold(t *testing.T) {
	s := &armState{hasMore: true}
	tr := newTestTrigger(s)

	assert.False(t, tr.Notify(0.5))
	assert.False(t, tr.Notify(0.99))
	assert.True(t, tr.Notify(1.0))
	assert.Equal(t, 1, s.fired)
}

func TestTriggerGuards(t *testing.T) {
	s := &armState{hasMore: true}
	tr := newTestTrigger(s)

	assert.True(t, tr.Notify(1))
	// 请求在途，不会重复触发
	assert.False(t, tr.Notify(1))
	assert.Equal(t, 1, s.fired)

	// 请求完成后观察者仍然有效
	s.inFlight = false
	assert.True(t, tr.Notify(1))
	assert.Equal(t, 2, s.fired)

	s.inFlight = false
	s.hasMore = false
	assert.False(t, tr.Notify(1))
	assert.Equal(t, 2, s.fired)
}

func TestTriggerDisconnect(t *testing.T) {
	s := &armState{hasMore: true}
	tr := newTestTrigger(s)

	tr.Disconnect()
	tr.Disconnect()

	assert.False(t, tr.Connected())
	assert.False(t, tr.Notify(1))
	assert.Equal(t, 0, s.fired)
}

func TestTriggerWatch(t *testing.T) {
	s := &armState{hasMore: true}
	tr := newTestTrigger(s)
	events := make(chan float64)
	done := make(chan struct{})

	go func() {
		tr.Watch(context.Background(), events)
		close(done)
	}()

	events <- 0.2
	events <- 1.0
	// 无缓冲通道：下一次发送成功说明上一个事件已处理完
	events <- 0.3
	tr.Disconnect()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after Disconnect")
	}
	assert.Equal(t, 1, s.fired)
}
