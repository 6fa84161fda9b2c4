package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport 网络不可达或服务端返回非 2xx
	ErrTransport = errors.New("transport failure")
	// ErrValidation 本地校验失败，请求不会发出
	ErrValidation = errors.New("validation failed")
	// ErrUpload 资源托管方拒绝上传
	ErrUpload = errors.New("asset upload failed")

	ErrNoMorePages    = errors.New("no more pages")
	ErrFetchInFlight  = errors.New("page fetch already in flight")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrPostNotFound   = errors.New("post not found in feed")
	ErrCommentMissing = errors.New("comment not found in post")
	ErrClosed         = errors.New("feed closed")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
