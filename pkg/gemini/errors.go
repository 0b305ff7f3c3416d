package gemini

import (
	"fmt"
	"net/http"
)

// ========== 错误类型层次结构 ==========

// Error 基础错误接口
type Error interface {
	error
	GetType() string
	GetCode() int
}

// BaseError 基础错误结构
type BaseError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) GetType() string {
	return e.Type
}

func (e *BaseError) GetCode() int {
	return e.Code
}

// NotConfigured 生成服务未配置，对请求而言是致命错误
type NotConfigured struct {
	*BaseError
}

func NewNotConfigured(message string) *NotConfigured {
	return &NotConfigured{
		BaseError: &BaseError{Type: "NotConfigured", Message: message},
	}
}

// NetworkError 网络错误
type NetworkError struct {
	*BaseError
}

func NewNetworkError(message string) *NetworkError {
	return &NetworkError{
		BaseError: &BaseError{Type: "NetworkError", Message: message},
	}
}

// RequestTimeout 请求超时错误
type RequestTimeout struct {
	*BaseError
}

func NewRequestTimeout(message string) *RequestTimeout {
	return &RequestTimeout{
		BaseError: &BaseError{Type: "RequestTimeout", Message: message, Code: http.StatusGatewayTimeout},
	}
}

// AuthenticationError 认证错误（401/403）
type AuthenticationError struct {
	*BaseError
}

func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{
		BaseError: &BaseError{Type: "AuthenticationError", Message: message, Code: http.StatusUnauthorized},
	}
}

// RateLimitExceeded 限流错误
type RateLimitExceeded struct {
	*BaseError
	RetryAfter int // 重试等待时间（秒）
}

func NewRateLimitExceeded(message string, retryAfter int) *RateLimitExceeded {
	return &RateLimitExceeded{
		BaseError:  &BaseError{Type: "RateLimitExceeded", Message: message, Code: http.StatusTooManyRequests},
		RetryAfter: retryAfter,
	}
}

// BadRequest 客户端请求错误（其余4xx）
type BadRequest struct {
	*BaseError
}

func NewBadRequest(message string) *BadRequest {
	return &BadRequest{
		BaseError: &BaseError{Type: "BadRequest", Message: message, Code: http.StatusBadRequest},
	}
}

// UpstreamError 生成服务端错误（5xx）
type UpstreamError struct {
	*BaseError
}

func NewUpstreamError(message string) *UpstreamError {
	return &UpstreamError{
		BaseError: &BaseError{Type: "UpstreamError", Message: message, Code: http.StatusBadGateway},
	}
}

// EmptyResponse 响应语法合法但文本载荷为空，等同于传输失败，
// 空文本绝不能喂给归一化器
type EmptyResponse struct {
	*BaseError
}

func NewEmptyResponse(message string) *EmptyResponse {
	return &EmptyResponse{
		BaseError: &BaseError{Type: "EmptyResponse", Message: message},
	}
}

// classifyStatus 按HTTP状态类别归类为带类型的错误
func classifyStatus(statusCode int, body string) Error {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewAuthenticationError(fmt.Sprintf("生成服务认证失败: HTTP %d", statusCode))
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitExceeded("生成服务限流", 60)
	case statusCode >= 500:
		return NewUpstreamError(fmt.Sprintf("生成服务端错误: HTTP %d: %s", statusCode, body))
	case statusCode >= 400:
		return NewBadRequest(fmt.Sprintf("生成请求被拒绝: HTTP %d: %s", statusCode, body))
	default:
		return NewNetworkError(fmt.Sprintf("生成服务异常响应: HTTP %d", statusCode))
	}
}

// IsRetryable 检查错误是否可重试，传输类失败对用户呈现为可重试状态
func IsRetryable(err error) bool {
	switch err.(type) {
	case *NetworkError, *RequestTimeout, *RateLimitExceeded, *UpstreamError, *EmptyResponse:
		return true
	default:
		return false
	}
}
