package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestResolveModel(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"", DefaultModel},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
		{"gemini-1.5-pro", "gemini-1.5-pro"},
		{"  gemini-2.0-pro  ", "gemini-2.0-pro"},
		{"gpt-4", DefaultModel},
		{"gemini-9.9-ultra", DefaultModel},
	}

	for _, c := range cases {
		if got := ResolveModel(c.input); got != c.expected {
			t.Errorf("模型标识 %q 解析错误: 期望 %s, 实际 %s", c.input, c.expected, got)
		}
	}
}

func TestGenerateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("API密钥请求头缺失或错误: %s", r.Header.Get("x-goog-api-key"))
		}
		if r.URL.Path != "/models/gemini-2.0-flash:generateContent" {
			t.Errorf("请求路径错误: %s", r.URL.Path)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"phân tích "},{"text":"kỹ thuật"}]}}]}`))
	}))
	defer server.Close()

	client := New(Config{APIKey: "test-key", BaseURL: server.URL})
	text, err := client.Generate(context.Background(), "prompt", "")
	if err != nil {
		t.Fatalf("生成调用不应失败: %v", err)
	}
	if text != "phân tích kỹ thuật" {
		t.Errorf("文本分片拼接错误: %q", text)
	}
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	client := New(Config{})
	_, err := client.Generate(context.Background(), "prompt", "")

	var notConfigured *NotConfigured
	if !errors.As(err, &notConfigured) {
		t.Fatalf("缺少API密钥应返回NotConfigured: %v", err)
	}
	if IsRetryable(err) {
		t.Error("配置缺失不应标记为可重试")
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := New(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Generate(context.Background(), "prompt", "")

	var empty *EmptyResponse
	if !errors.As(err, &empty) {
		t.Fatalf("空候选列表应返回EmptyResponse: %v", err)
	}
	if !IsRetryable(err) {
		t.Error("空响应应标记为可重试")
	}
}

func TestGenerateBlankText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`))
	}))
	defer server.Close()

	client := New(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Generate(context.Background(), "prompt", "")

	var empty *EmptyResponse
	if !errors.As(err, &empty) {
		t.Fatalf("纯空白文本应返回EmptyResponse: %v", err)
	}
}

func TestGenerateStatusClassification(t *testing.T) {
	cases := []struct {
		status    int
		retryable bool
		check     func(error) bool
	}{
		{http.StatusUnauthorized, false, func(err error) bool {
			var e *AuthenticationError
			return errors.As(err, &e)
		}},
		{http.StatusForbidden, false, func(err error) bool {
			var e *AuthenticationError
			return errors.As(err, &e)
		}},
		{http.StatusTooManyRequests, true, func(err error) bool {
			var e *RateLimitExceeded
			return errors.As(err, &e) && e.RetryAfter == 60
		}},
		{http.StatusBadRequest, false, func(err error) bool {
			var e *BadRequest
			return errors.As(err, &e)
		}},
		{http.StatusInternalServerError, true, func(err error) bool {
			var e *UpstreamError
			return errors.As(err, &e)
		}},
		{http.StatusServiceUnavailable, true, func(err error) bool {
			var e *UpstreamError
			return errors.As(err, &e)
		}},
	}

	for _, c := range cases {
		status := c.status
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"boom"}`))
		}))

		client := New(Config{APIKey: "test-key", BaseURL: server.URL})
		_, err := client.Generate(context.Background(), "prompt", "")
		server.Close()

		if err == nil {
			t.Fatalf("HTTP %d 应返回错误", status)
		}
		if !c.check(err) {
			t.Errorf("HTTP %d 错误分类不正确: %v", status, err)
		}
		if IsRetryable(err) != c.retryable {
			t.Errorf("HTTP %d 可重试标记错误: 期望 %v", status, c.retryable)
		}
	}
}

func TestGenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := New(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Generate(context.Background(), "prompt", "")

	var timeout *RequestTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("超时应返回RequestTimeout: %v", err)
	}
	if !IsRetryable(err) {
		t.Error("超时应标记为可重试")
	}
}

func TestGenerateContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := New(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Generate(ctx, "prompt", "")

	var timeout *RequestTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("上下文超时应返回RequestTimeout: %v", err)
	}
}
