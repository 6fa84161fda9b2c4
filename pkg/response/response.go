package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一错误/状态响应结构
type Response struct {
	Code    int         `json:"code"`    // 业务码
	Message string      `json:"message"` // 提示信息
	Data    interface{} `json:"data"`    // 数据
}

// Success 成功响应，带统一信封
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// OK 直接返回资源本身，信息流接口的约定格式
func OK(c *gin.Context, httpCode int, data interface{}) {
	c.JSON(httpCode, data)
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// Abort 错误响应并终止后续处理，供中间件使用
func Abort(c *gin.Context, httpCode int, errCode int, msg string) {
	Error(c, httpCode, errCode, msg)
	c.Abort()
}
