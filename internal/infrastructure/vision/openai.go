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

const openAIChatCompletions = "/chat/completions"

// OpenAI описывает изображения через Chat Completions с image_url в виде data URL
type OpenAI struct {
	model     string
	apiKey    string
	baseURL   string
	maxTokens int
	client    *resty.Client
	log       *slog.Logger
}

// NewOpenAI создаёт клиента. Без ключа API провайдер не строится.
func NewOpenAI(cfg config.ProviderConfig, logger *slog.Logger) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", entity.ErrConfiguration)
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultOpenAIModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultOpenAIBaseURL
	}
	// Если в конфиг записали полный путь, не дублируем его
	baseURL = strings.TrimSuffix(baseURL, openAIChatCompletions)
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.DefaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultVisionTimeout
	}

	return &OpenAI{
		model:     model,
		apiKey:    cfg.APIKey,
		baseURL:   baseURL,
		maxTokens: maxTokens,
		client:    newHTTPClient(timeout),
		log:       loggerOrDefault(logger),
	}, nil
}

// OpenAIFactory фабрика для селектора провайдеров
func OpenAIFactory(cfg config.ProviderConfig, logger *slog.Logger) port.DescriberFactory {
	return func() (port.ImageDescriber, error) {
		return NewOpenAI(cfg, logger)
	}
}

// Name имя провайдера
func (o *OpenAI) Name() string {
	return string(entity.ProviderOpenAI)
}

// Describe отправляет prompt и изображение одним сообщением пользователя
func (o *OpenAI) Describe(ctx context.Context, imageBase64, prompt string) (string, error) {
	data := imaging.StripDataURL(imageBase64)
	dataURL := "data:" + imaging.SniffMIME(data) + ";base64," + data

	request := openAIRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openAIMessage{
			{
				Role: "user",
				Content: []openAIPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &openAIImageURL{URL: dataURL}},
				},
			},
		},
	}

	o.log.Debug("sending request to openai", "model", o.model, "image_length", len(data))
	response, err := o.client.R().
		SetContext(ctx).
		SetHeader(headerContentType, contentTypeJSON).
		SetHeader("Authorization", "Bearer "+o.apiKey).
		SetBody(request).
		Post(o.baseURL + openAIChatCompletions)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if !response.IsSuccess() {
		return "", fmt.Errorf("openai status %d: %s", response.StatusCode(), truncate(response.String(), errorSnippetLimit))
	}

	var result openAIResponse
	if err := json.Unmarshal(response.Body(), &result); err != nil {
		return "", fmt.Errorf("parse openai response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", nil
	}
	o.log.Debug("openai response received", "finish_reason", result.Choices[0].FinishReason)
	return result.Choices[0].Message.Content, nil
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string       `json:"role"`
	Content []openAIPart `json:"content"`
}

type openAIPart struct {
	Type     string          `json:"type"` // "text" | "image_url"
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

var _ port.ImageDescriber = (*OpenAI)(nil)
