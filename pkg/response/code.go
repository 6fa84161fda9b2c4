package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists   = 10001
	ErrUserNotFound = 10002
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 帖子模块错误 200xx
	ErrPostNotFound    = 20001
	ErrCommentNotFound = 20002
	ErrNotPostOwner    = 20003

	// 资源托管错误 300xx
	ErrUploadFailed  = 30001
	ErrUnknownPreset = 30002
	ErrFileTooLarge  = 30003

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
