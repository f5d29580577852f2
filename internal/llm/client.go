package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	requestTimeout  = 120 * time.Second
	temperature     = 0.7
	excerptLimit    = 500
)

// Client issues single synchronous requests to an OpenAI-compatible
// chat-completions endpoint. No retries, no streaming, no session state: each
// call is one POST with a bounded timeout, and a failed attempt is surfaced
// to the caller as-is.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	endpoint   string
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func NewClient(apiKey, model, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiKey:     apiKey,
		model:      model,
		endpoint:   normalizeEndpoint(baseURL),
	}, nil
}

// normalizeEndpoint accepts a bare host, a /v1 base or a full
// /chat/completions URL and returns the full endpoint.
func normalizeEndpoint(baseURL string) string {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		return defaultEndpoint
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if !strings.HasSuffix(endpoint, "/chat/completions") {
		if strings.HasSuffix(endpoint, "/v1") {
			endpoint += "/chat/completions"
		} else {
			endpoint += "/v1/chat/completions"
		}
	}
	return endpoint
}

// Complete sends one system+user exchange and returns the assistant's text.
// Three reply envelopes are recognized, in priority order: the standard
// choices[0].message.content, a bare top-level content field, and an explicit
// error envelope. Anything else is an UnknownEnvelopeError.
func (c *Client) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{Status: resp.StatusCode, BodyExcerpt: excerpt(raw)}
	}
	if strings.TrimSpace(string(raw)) == "" {
		return "", &EmptyResponseError{Model: c.model}
	}

	return c.extractText(raw)
}

func (c *Client) extractText(raw []byte) (string, error) {
	body := string(raw)
	if !gjson.Valid(body) {
		return "", &UnknownEnvelopeError{BodyExcerpt: excerpt(raw)}
	}

	// Standard OpenAI shape.
	if gjson.Get(body, "choices").Exists() {
		content := gjson.Get(body, "choices.0.message.content").String()
		if strings.TrimSpace(content) == "" {
			return "", &EmptyResponseError{Model: c.model}
		}
		return strings.TrimSpace(content), nil
	}

	// Some gateways return {"content": "..."} directly.
	if v := gjson.Get(body, "content"); v.Exists() {
		return strings.TrimSpace(v.String()), nil
	}

	if v := gjson.Get(body, "error"); v.Exists() {
		return "", &UpstreamError{Payload: v.Raw}
	}
	return "", &UnknownEnvelopeError{BodyExcerpt: excerpt(raw)}
}

func excerpt(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) <= excerptLimit {
		return s
	}
	// Back off to a rune boundary so the cut never mangles a multi-byte rune.
	limit := excerptLimit
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
