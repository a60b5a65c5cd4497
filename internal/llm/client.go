package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ResponsesClient implementa Gateway contra la API /responses (OpenAI-compatible).
type ResponsesClient struct {
	baseURL string
	creds   *Credentials
	client  *http.Client
	logger  *zap.Logger
}

// NewResponsesClient construye el cliente. timeout <= 0 usa 60s.
func NewResponsesClient(baseURL string, creds *Credentials, timeout time.Duration, logger *zap.Logger) *ResponsesClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if creds == nil {
		creds = NewCredentials("", "")
	}
	return &ResponsesClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *ResponsesClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	apiKey, model := c.creds.Get()
	if apiKey == "" {
		return "", ErrNotConfigured
	}

	reqBody := responsesRequest{
		Model:        model,
		Input:        prompt,
		Instructions: opts.Instructions,
		Tools:        opts.Tools,
	}
	if opts.Reasoning != "" {
		reqBody.Reasoning = &reasoning{Effort: opts.Reasoning}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Timeout: isTimeout(err), Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("llm error response",
			zap.Int("status", resp.StatusCode),
			zap.String("model", model),
			zap.String("body", truncate(string(respBody), 512)),
		)
		return "", &TransportError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	text, err := extractResponseText(respBody)
	if err != nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 512), Err: err}
	}
	return text, nil
}

type responsesRequest struct {
	Model        string     `json:"model"`
	Input        string     `json:"input"`
	Instructions string     `json:"instructions,omitempty"`
	Reasoning    *reasoning `json:"reasoning,omitempty"`
	Tools        []Tool     `json:"tools,omitempty"`
}

type reasoning struct {
	Effort ReasoningEffort `json:"effort"`
}

type responsesResponse struct {
	Output     []responseItem `json:"output"`
	OutputText *string        `json:"output_text"`
}

type responseItem struct {
	Type    string            `json:"type"`
	Content []responseContent `json:"content"`
	Input   json.RawMessage   `json:"input"`
}

type responseContent struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

// extractResponseText concatena los fragmentos de texto en el orden en que
// aparecen. Un eco de tool-call se agrega tal cual. Sin texto devuelve el placeholder.
func extractResponseText(body []byte) (string, error) {
	var r responsesResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	var b strings.Builder
	for _, item := range r.Output {
		if item.Content != nil {
			for _, c := range item.Content {
				if c.Text != nil {
					b.WriteString(*c.Text)
				}
			}
			continue
		}
		if item.Type != "" && len(item.Input) > 0 && string(item.Input) != "null" {
			b.WriteString(rawToString(item.Input))
		}
	}
	out := b.String()
	if out == "" && r.OutputText != nil {
		out = *r.OutputText
	}
	if out == "" {
		return NoTextPlaceholder, nil
	}
	return out, nil
}

func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
