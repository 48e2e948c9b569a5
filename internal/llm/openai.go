package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/valpere/recast/internal/logger"
	"github.com/valpere/recast/internal/postprocess"
)

// OpenAIClient speaks the OpenAI chat completions protocol.
type OpenAIClient struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

func NewOpenAIClient(cfg Config, log *logger.Logger) *OpenAIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	name := cfg.Name
	if name == "" {
		name = ProviderOpenAI
	}
	return &OpenAIClient{
		name:    name,
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
		limiter: newLimiter(cfg.RequestsPerSecond),
		log:     componentLogger(log, name),
	}
}

func (c *OpenAIClient) Name() string {
	return c.name
}

func (c *OpenAIClient) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%s API key required", c.name)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()

	messages := []map[string]string{}
	if p.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": p.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": p.User})

	body := map[string]interface{}{
		"model":    c.model,
		"messages": messages,
	}
	if p.MaxTokens > 0 {
		body["max_tokens"] = p.MaxTokens
	}
	if p.Temperature > 0 {
		body["temperature"] = p.Temperature
	}
	if p.JSON {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/chat/completions", c.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	if c.name == ProviderOpenRouter {
		httpReq.Header.Set("X-Title", "recast")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		c.log.Warn("completion rejected",
			zap.Int("status", resp.StatusCode),
			zap.Any("body", errResp))
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	completion := &Completion{
		Text:             postprocess.Clean(chatResp.Choices[0].Message.Content),
		Model:            c.model,
		PromptTokens:     chatResp.Usage.PromptTokens,
		CompletionTokens: chatResp.Usage.CompletionTokens,
		Latency:          time.Since(start),
	}
	c.log.Debug("completion",
		zap.String("model", c.model),
		zap.Int("prompt_tokens", completion.PromptTokens),
		zap.Int("completion_tokens", completion.CompletionTokens),
		zap.Duration("latency", completion.Latency))

	return completion, nil
}

func (c *OpenAIClient) IsAvailable(ctx context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("%s API key not configured", c.name)
	}
	return nil
}
