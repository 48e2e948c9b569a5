// Package llm talks to the chat models that draft and rank posts.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/valpere/recast/internal/logger"
)

const (
	ProviderGroq       = "groq"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)

var defaultBaseURLs = map[string]string{
	ProviderGroq:       "https://api.groq.com/openai/v1",
	ProviderOpenAI:     "https://api.openai.com/v1",
	ProviderOpenRouter: "https://openrouter.ai/api/v1",
	ProviderOllama:     "http://localhost:11434",
}

var defaultModels = map[string]string{
	ProviderGroq:       "openai/gpt-oss-120b",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "meta-llama/llama-3.1-8b-instruct:free",
	ProviderOllama:     "llama3.2",
}

// Config selects and tunes a provider.
type Config struct {
	Name              string        `mapstructure:"name" json:"name"`
	BaseURL           string        `mapstructure:"base_url" json:"base_url"`
	APIKey            string        `mapstructure:"api_key" json:"-"`
	Model             string        `mapstructure:"model" json:"model"`
	Timeout           time.Duration `mapstructure:"timeout" json:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" json:"requests_per_second"`
}

// Prompt is a single system+user exchange.
type Prompt struct {
	System      string
	User        string
	JSON        bool
	MaxTokens   int
	Temperature float64
}

// Completion is a cleaned model answer.
type Completion struct {
	Text             string        `json:"text"`
	Model            string        `json:"model"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	Latency          time.Duration `json:"latency"`
}

// Client is implemented by every provider.
type Client interface {
	Name() string
	Complete(ctx context.Context, p Prompt) (*Completion, error)
	IsAvailable(ctx context.Context) error
}

// New builds the client for cfg.Name. Groq, OpenAI and OpenRouter share the
// OpenAI-compatible chat endpoint.
func New(cfg Config, log *logger.Logger) (Client, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))
	if name == "" {
		name = ProviderGroq
	}
	if _, ok := defaultBaseURLs[name]; !ok {
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURLs[name]
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[name]
	}
	cfg.Name = name

	if name == ProviderOllama {
		return NewOllamaClient(cfg, log), nil
	}
	return NewOpenAIClient(cfg, log), nil
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

func componentLogger(log *logger.Logger, name string) *logger.Logger {
	if log == nil {
		log = logger.Nop()
	}
	return log.WithComponent("llm." + name)
}
