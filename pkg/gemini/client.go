// Package gemini 封装外部文本生成服务，对管线暴露 generate(prompt, model) -> text
// 这一个能力。客户端在进程启动时显式构造一次，按引用传入管线，
// 配置是不可变结构体，不做懒初始化的全局单例。
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultModel 未识别或缺省的模型标识一律回落到这个固定默认值
const DefaultModel = "gemini-2.0-flash"

// DefaultTimeout 整个流程中唯一的外部阻塞步骤的超时上限
const DefaultTimeout = 30 * time.Second

// allowedModels 模型标识白名单
var allowedModels = map[string]bool{
	"gemini-2.0-flash": true,
	"gemini-2.0-pro":   true,
	"gemini-1.5-flash": true,
	"gemini-1.5-pro":   true,
}

// ResolveModel 校验模型标识，白名单之外或为空时回落默认模型
func ResolveModel(model string) string {
	model = strings.TrimSpace(model)
	if allowedModels[model] {
		return model
	}
	if model != "" {
		logrus.Warnf("未识别的模型标识 %s，回落默认模型 %s", model, DefaultModel)
	}
	return DefaultModel
}

// Config 客户端不可变配置
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client 文本生成服务客户端
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New 创建客户端，配置在构造后不再变化
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// generateContent 请求/响应的线格式
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate 发送提示词并返回原始文本
// 失败按状态类别归类为带类型的错误；响应合法但文本为空同样视为传输失败
func (c *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	if c.apiKey == "" {
		return "", NewNotConfigured("生成服务未配置API密钥")
	}

	model = ResolveModel(model)
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("编码生成请求失败: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("创建生成请求失败: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", NewRequestTimeout("生成请求超时")
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", NewRequestTimeout("生成请求超时")
		}
		return "", NewNetworkError(fmt.Sprintf("生成请求失败: %v", err))
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, string(body))
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", NewUpstreamError(fmt.Sprintf("解析生成响应失败: %v", err))
	}

	text := extractText(&decoded)
	if strings.TrimSpace(text) == "" {
		return "", NewEmptyResponse("生成响应文本为空")
	}
	return text, nil
}

// extractText 拼接首个候选的全部文本分片
func extractText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
