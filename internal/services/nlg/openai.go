package nlg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL    = "https://api.openai.com/v1"
	defaultSmallModel = "gpt-4o-mini"
	defaultLargeModel = "gpt-4o"
	defaultTimeout    = 30 * time.Second
)

// Config configures the OpenAI-compatible provider.
type Config struct {
	// APIKey is the bearer token used to authenticate against the API.
	APIKey string

	// BaseURL overrides the API endpoint. Useful for local models or any
	// other OpenAI-compatible endpoint. Defaults to the OpenAI API.
	BaseURL string

	// SmallModel serves SizeSmall requests. Defaults to gpt-4o-mini.
	SmallModel string

	// LargeModel serves SizeLarge requests. Defaults to gpt-4o.
	LargeModel string

	// Timeout is the HTTP request timeout. Defaults to 30 s.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client, for tests.
	HTTPClient *http.Client
}

// openAIProvider implements Provider using the chat completions API.
type openAIProvider struct {
	cfg    Config
	client *http.Client
}

// New returns a Provider backed by an OpenAI-compatible chat API.
// The returned provider is safe for concurrent use.
func New(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.SmallModel == "" {
		cfg.SmallModel = defaultSmallModel
	}
	if cfg.LargeModel == "" {
		cfg.LargeModel = defaultLargeModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &openAIProvider{cfg: cfg, client: client}
}

// --- minimal chat-completions wire types ---

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiRequest struct {
	Model     string       `json:"model"`
	Messages  []oaiMessage `json:"messages"`
	MaxTokens int          `json:"max_tokens,omitempty"`
	Stop      []string     `json:"stop,omitempty"`
}

type oaiResponse struct {
	Choices []struct {
		Message      oaiMessage `json:"message"`
		FinishReason string     `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the instruction as a single user message.
func (p *openAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := p.cfg.SmallModel
	if req.SizeHint == SizeLarge {
		model = p.cfg.LargeModel
	}

	body := oaiRequest{
		Model:     model,
		Messages:  []oaiMessage{{Role: "user", Content: req.Instruction}},
		MaxTokens: 512,
	}
	if req.Stop != "" {
		body.Stop = []string{req.Stop}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("nlg: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/chat/completions",
		bytes.NewReader(data),
	)
	if err != nil {
		return "", fmt.Errorf("nlg: create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("nlg: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("nlg: read response body: %w", err)
	}

	var oaiResp oaiResponse
	if err := json.Unmarshal(respBody, &oaiResp); err != nil {
		return "", fmt.Errorf("nlg: decode API response: %w", err)
	}
	if oaiResp.Error != nil {
		return "", fmt.Errorf("nlg: API error (%s): %s", oaiResp.Error.Type, oaiResp.Error.Message)
	}
	if len(oaiResp.Choices) == 0 {
		return "", fmt.Errorf("nlg: no choices returned (HTTP %d)", resp.StatusCode)
	}

	return oaiResp.Choices[0].Message.Content, nil
}
