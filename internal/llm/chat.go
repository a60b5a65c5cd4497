package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatClient implementa Gateway sobre chat completions usando go-openai. Sirve
// para proveedores que no exponen /responses. Las tools no se envian: chat
// completions no ejecuta web_search_preview.
type ChatClient struct {
	baseURL    string
	creds      *Credentials
	httpClient *http.Client
	logger     *zap.Logger
}

func NewChatClient(baseURL string, creds *Credentials, timeout time.Duration, logger *zap.Logger) *ChatClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if creds == nil {
		creds = NewCredentials("", "")
	}
	return &ChatClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *ChatClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	apiKey, model := c.creds.Get()
	if apiKey == "" {
		return "", ErrNotConfigured
	}

	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cfg.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(cfg)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if opts.Instructions != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: opts.Instructions})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	if len(opts.Tools) > 0 {
		c.logger.Debug("chat backend ignores tools", zap.Int("tools", len(opts.Tools)))
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		return "", c.wrapError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return NoTextPlaceholder, nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *ChatClient) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		c.logger.Warn("llm chat api error", zap.Int("status", apiErr.HTTPStatusCode), zap.String("message", apiErr.Message))
		return &TransportError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &TransportError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &TransportError{Timeout: isTimeout(err), Err: err}
}
