package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"sma-bench/internal/bench"
	"sma-bench/internal/config"
)

// Client 封装 OpenAI 调用逻辑。
type Client struct {
	cfg    config.OpenAIConfig
	logger *zap.Logger
	sdk    *openai.Client
}

// NewClient 使用给定配置创建 AI 客户端。
func NewClient(cfg config.OpenAIConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api_key 不能为空")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout + 5*time.Second,
	}
	clientConfig.HTTPClient = httpClient
	client := openai.NewClientWithConfig(clientConfig)

	return &Client{
		cfg:    cfg,
		logger: logger,
		sdk:    client,
	}, nil
}

// GenerateCommentary 根据基准结果获取模型点评。
func (c *Client) GenerateCommentary(ctx context.Context, rows []bench.Row) (Commentary, error) {
	if c.cfg.Model == "" {
		return Commentary{}, errors.New("openai model 不能为空")
	}

	prompt, err := BuildPrompt(rows)
	if err != nil {
		return Commentary{}, err
	}

	response, err := c.sdk.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0,
	})
	if err != nil {
		c.logger.Error("调用OpenAI失败", zap.Error(err))
		return Commentary{}, fmt.Errorf("调用OpenAI失败: %w", err)
	}

	if len(response.Choices) == 0 {
		return Commentary{}, errors.New("OpenAI 返回结果为空")
	}

	rawContent := strings.TrimSpace(response.Choices[0].Message.Content)
	if rawContent == "" {
		return Commentary{}, errors.New("OpenAI 返回内容为空")
	}

	commentary, err := parseCommentary(rawContent)
	if err != nil {
		c.logger.Error("解析模型点评失败",
			zap.Error(err),
			zap.String("raw_content", rawContent),
		)
		return Commentary{}, err
	}

	if err := commentary.Validate(); err != nil {
		return Commentary{}, err
	}

	c.logger.Info("模型点评生成成功",
		zap.String("verdict", commentary.Verdict),
		zap.Bool("matches_theory", commentary.MatchesTheory),
		zap.Int("highlights", len(commentary.Highlights)),
	)

	return commentary, nil
}

func parseCommentary(content string) (Commentary, error) {
	jsonPayload, err := extractJSON(content)
	if err != nil {
		return Commentary{}, err
	}

	var commentary Commentary
	if err = json.Unmarshal(jsonPayload, &commentary); err != nil {
		return Commentary{}, fmt.Errorf("解析点评JSON失败: %w", err)
	}

	return commentary, nil
}

func extractJSON(content string) ([]byte, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")

	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("模型输出未找到有效JSON: %s", content)
	}

	return []byte(content[start : end+1]), nil
}
