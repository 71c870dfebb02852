package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/config"
	"github.com/zapdesk/zapdesk/internal/loaders"
	"github.com/zapdesk/zapdesk/internal/utils"
)

const (
	noProviderReply = "⚠️ Erro: Nenhuma chave de API válida configurada (OpenRouter ou Perplexity)."
	fallbackReply   = "Desculpe, não entendi."
	apologyReply    = "Desculpe, estou processando muitas solicitações no momento. Tente novamente em breve."

	defaultTemperature float32 = 0.8
	defaultMaxTokens           = 500
)

// SettingsReader is the slice of the settings store the responder needs.
type SettingsReader interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
}

type backend struct {
	name    string
	model   string
	client  *openai.Client
	enabled bool
}

// Responder generates assistant replies through an OpenAI-compatible chat
// completion backend. Backends are tried in priority order at construction
// time; the first one with a credential wins.
type Responder struct {
	settings SettingsReader
	backends []backend
}

func NewResponder(settings SettingsReader, cfg *config.Config) *Responder {
	r := &Responder{settings: settings}

	r.backends = []backend{
		newBackend("openrouter", cfg.OpenRouterAPIKey, "https://openrouter.ai/api/v1", "openai/gpt-3.5-turbo", map[string]string{
			"HTTP-Referer": "http://localhost:3000",
			"X-Title":      "Zapdesk",
		}),
		newBackend("perplexity", cfg.PerplexityAPIKey, "https://api.perplexity.ai", "sonar", nil),
	}
	return r
}

func newBackend(name, apiKey, baseURL, model string, extraHeaders map[string]string) backend {
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = baseURL
	clientCfg.HTTPClient = &http.Client{
		Timeout:   60 * time.Second,
		Transport: &headerTransport{headers: extraHeaders},
	}
	return backend{
		name:    name,
		model:   model,
		client:  openai.NewClientWithConfig(clientCfg),
		enabled: apiKey != "",
	}
}

// headerTransport injects static headers into every request. OpenRouter uses
// HTTP-Referer/X-Title for app attribution.
type headerTransport struct {
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return http.DefaultTransport.RoundTrip(req)
}

func (r *Responder) activeBackend() *backend {
	for i := range r.backends {
		if r.backends[i].enabled {
			return &r.backends[i]
		}
	}
	return nil
}

// LoadConfig reads the assistant config document. A missing or malformed
// document degrades to nil, which means default persona and enabled.
func (r *Responder) LoadConfig(ctx context.Context) *Config {
	value, found, err := r.settings.GetSetting(ctx, ConfigKey)
	if err != nil {
		utils.Zlog.Warn("Failed to load assistant config, using defaults", zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}

	var cfg Config
	if err := json.Unmarshal([]byte(value), &cfg); err != nil {
		utils.Zlog.Warn("Malformed assistant config document, using defaults", zap.Error(err))
		return nil
	}
	return &cfg
}

// GenerateReply produces the assistant's answer to userMessage given the
// chronological history. It never fails outward: backend or transport errors
// degrade to a user-safe apology string.
func (r *Responder) GenerateReply(ctx context.Context, userMessage string, history []loaders.MessageRecord) string {
	active := r.activeBackend()
	if active == nil {
		return noProviderReply
	}

	cfg := r.LoadConfig(ctx)
	systemPrompt := BuildSystemPrompt(cfg)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}

	if cfg != nil {
		for _, ex := range cfg.TrainingExamples {
			if ex.UserQuery == "" || ex.ExpectedResponse == "" {
				continue
			}
			messages = append(messages,
				openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: ex.UserQuery},
				openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: ex.ExpectedResponse},
			)
		}
	}

	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.FromMe {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}

	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userMessage})

	temperature := defaultTemperature
	maxTokens := defaultMaxTokens
	if cfg != nil {
		if cfg.Temperature != nil {
			temperature = *cfg.Temperature
		}
		if cfg.MaxTokens != nil {
			maxTokens = *cfg.MaxTokens
		}
	}

	utils.Zlog.Info("Requesting AI completion",
		zap.String("backend", active.name),
		zap.String("model", active.model),
		zap.Int("message_count", len(messages)))

	resp, err := active.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       active.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		utils.Zlog.Error("AI completion failed", zap.String("backend", active.name), zap.Error(err))
		return apologyReply
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return fallbackReply
	}
	return resp.Choices[0].Message.Content
}
