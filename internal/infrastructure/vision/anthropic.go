package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"

	"vision-mcp/config"
	"vision-mcp/internal/domain/entity"
	"vision-mcp/internal/domain/port"
	"vision-mcp/internal/infrastructure/imaging"
)

const (
	anthropicVersion  = "2023-06-01"
	anthropicMessages = "/v1/messages"
)

// Anthropic описывает изображения через Messages API
type Anthropic struct {
	model     string
	apiKey    string
	baseURL   string
	maxTokens int
	client    *resty.Client
	log       *slog.Logger
}

// NewAnthropic создаёт клиента. Без ключа API провайдер не строится.
func NewAnthropic(cfg config.ProviderConfig, logger *slog.Logger) (*Anthropic, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", entity.ErrConfiguration)
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultAnthropicModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultAnthropicBaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.DefaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultVisionTimeout
	}

	return &Anthropic{
		model:     model,
		apiKey:    cfg.APIKey,
		baseURL:   baseURL,
		maxTokens: maxTokens,
		client:    newHTTPClient(timeout),
		log:       loggerOrDefault(logger),
	}, nil
}

// AnthropicFactory фабрика для селектора провайдеров
func AnthropicFactory(cfg config.ProviderConfig, logger *slog.Logger) port.DescriberFactory {
	return func() (port.ImageDescriber, error) {
		return NewAnthropic(cfg, logger)
	}
}

// Name имя провайдера
func (a *Anthropic) Name() string {
	return string(entity.ProviderAnthropic)
}

// Describe отправляет изображение и prompt одним сообщением пользователя
func (a *Anthropic) Describe(ctx context.Context, imageBase64, prompt string) (string, error) {
	data := imaging.StripDataURL(imageBase64)
	request := anthropicRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []anthropicContent{
					{
						Type: "image",
						Source: &anthropicImageSource{
							Type:      "base64",
							MediaType: imaging.SniffMIME(data),
							Data:      data,
						},
					},
					{Type: "text", Text: prompt},
				},
			},
		},
	}

	a.log.Debug("sending request to anthropic", "model", a.model, "image_length", len(data))
	response, err := a.client.R().
		SetContext(ctx).
		SetHeader(headerContentType, contentTypeJSON).
		SetHeader("x-api-key", a.apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetBody(request).
		Post(a.baseURL + anthropicMessages)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	if !response.IsSuccess() {
		return "", fmt.Errorf("anthropic status %d: %s", response.StatusCode(), truncate(response.String(), errorSnippetLimit))
	}

	var result anthropicResponse
	if err := json.Unmarshal(response.Body(), &result); err != nil {
		return "", fmt.Errorf("parse anthropic response: %w", err)
	}

	var parts []string
	for _, block := range result.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	a.log.Debug("anthropic response received", "stop_reason", result.StopReason, "blocks", len(result.Content))
	return strings.Join(parts, "\n"), nil
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string                `json:"type"` // "image" | "text"
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	ID         string `json:"id"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

var _ port.ImageDescriber = (*Anthropic)(nil)
