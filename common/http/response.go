package http

import "net/http"

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// 预定义的响应码
const (
	CodeSuccess         = 0     // 成功
	CodeError           = -1    // 通用错误
	CodeInvalidParam    = 10001 // 参数错误
	CodeNotFound        = 10004 // 资源不存在
	CodeServerError     = 10005 // 服务器内部错误
	CodeTooManyRequests = 10029 // 请求过于频繁
)

// 预定义的响应消息
const (
	MsgSuccess         = "success"
	MsgError           = "error"
	MsgInvalidParam    = "invalid parameters"
	MsgNotFound        = "not found"
	MsgServerError     = "internal server error"
	MsgTooManyRequests = "too many requests"
)

// NewResponse 创建响应
func NewResponse(code int, message string, data interface{}) *Response {
	return &Response{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// Context 响应方法扩展

// Success 成功响应
func (c *Context) Success(data interface{}) {
	c.JSON(http.StatusOK, NewResponse(CodeSuccess, MsgSuccess, data))
}

// ErrorWithCode 错误响应（自定义错误码）
func (c *Context) ErrorWithCode(code int, message string) {
	c.JSON(http.StatusOK, NewResponse(code, message, nil))
}

// ErrorWithStatus 错误响应（自定义状态码和错误码）
func (c *Context) ErrorWithStatus(status, code int, message string) {
	c.JSON(status, NewResponse(code, message, nil))
}

// BadRequest 400 错误请求
func (c *Context) BadRequest(message string) {
	if message == "" {
		message = MsgInvalidParam
	}
	c.JSON(http.StatusBadRequest, NewResponse(CodeInvalidParam, message, nil))
}

// NotFound 404 资源不存在
func (c *Context) NotFound(message string) {
	if message == "" {
		message = MsgNotFound
	}
	c.JSON(http.StatusNotFound, NewResponse(CodeNotFound, message, nil))
}

// InternalServerError 500 服务器内部错误
func (c *Context) InternalServerError(message string) {
	if message == "" {
		message = MsgServerError
	}
	c.JSON(http.StatusInternalServerError, NewResponse(CodeServerError, message, nil))
}
