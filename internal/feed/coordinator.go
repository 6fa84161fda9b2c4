package feed

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// State 单次乐观变更的状态
type State int

const (
	Applying State = iota
	Confirmed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Applying:
		return "applying"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Mutation 一次乐观变更。
// Apply 同步修改本地状态（占位值立即可见），Send 发出权威请求，
// 成功后 Reconcile 用服务端数据覆盖占位值，失败后 Rollback 精确撤销 Apply。
type Mutation[T any] struct {
	Name           string
	Apply          func()
	Send           func(ctx context.Context) (T, error)
	Reconcile      func(result T)
	Rollback       func(err error)
	FailureMessage string
}

// Coordinator 执行乐观变更，负责日志和失败提示。
// 各次变更相互独立，可以并发在途。
type Coordinator struct {
	log      *zap.Logger
	notifier Notifier

	inFlight   atomic.Int64
	confirmed  atomic.Int64
	rolledBack atomic.Int64
}

func NewCoordinator(log *zap.Logger, notifier Notifier) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &Coordinator{log: log, notifier: notifier}
}

// Run 执行一次变更，返回服务端结果与最终状态
func Run[T any](ctx context.Context, c *Coordinator, m Mutation[T]) (T, State, error) {
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	if m.Apply != nil {
		m.Apply()
	}

	result, err := m.Send(ctx)
	if err != nil {
		if m.Rollback != nil {
			m.Rollback(err)
		}
		c.rolledBack.Add(1)
		c.log.Warn("optimistic mutation rolled back",
			zap.String("mutation", m.Name),
			zap.Error(err),
		)
		msg := m.FailureMessage
		if msg == "" {
			msg = "Request failed"
		}
		c.notifier.Notify(Notice{Kind: NoticeError, Message: failureMessage(err, msg), Err: err})
		var zero T
		return zero, RolledBack, err
	}

	if m.Reconcile != nil {
		m.Reconcile(result)
	}
	c.confirmed.Add(1)
	c.log.Debug("optimistic mutation confirmed", zap.String("mutation", m.Name))
	return result, Confirmed, nil
}

// Stats 返回在途、已确认、已回滚的数量
func (c *Coordinator) Stats() (inFlight, confirmed, rolledBack int64) {
	return c.inFlight.Load(), c.confirmed.Load(), c.rolledBack.Load()
}
