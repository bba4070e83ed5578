// Package openrouter implements the llm.Provider interface on top of the
// OpenRouter chat completions API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qcmd/q/internal/config"
	"github.com/qcmd/q/internal/llm"
	"github.com/qcmd/q/internal/prompt"
	"github.com/qcmd/q/internal/sysinfo"
)

// maxErrorBody caps how much of an error response body is surfaced to the user.
const maxErrorBody = 512

// OpenRouter API structures
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	// Some OpenAI-compatible backends default to streaming when the field
	// is omitted. Explicitly include stream:false to force a single JSON
	// response.
	Stream bool `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error any `json:"error,omitempty"`
}

// Provider implements the llm.Provider interface for OpenRouter.
type Provider struct {
	cfg    config.ProviderSettings
	pm     *prompt.Manager
	client *http.Client
}

// NewProvider creates a new OpenRouter provider.
func NewProvider(cfg config.ProviderSettings, pm *prompt.Manager) (llm.Provider, error) {
	// Generous timeout to tolerate slow models and proxies that buffer
	client := &http.Client{
		Timeout: 90 * time.Second,
	}

	return &Provider{
		cfg:    cfg,
		pm:     pm,
		client: client,
	}, nil
}

func init() {
	llm.RegisterProvider(config.ProviderOpenRouter, NewProvider)
}

// GenerateCommand implements the llm.Provider interface.
func (p *Provider) GenerateCommand(ctx context.Context, query string, sysCtx *sysinfo.SystemContext) (*llm.Suggestion, error) {
	systemPrompt, err := p.pm.Render(prompt.KeyGenerateCommand, sysCtx)
	if err != nil {
		return nil, llm.WrapError(llm.ProviderError, "failed to build system prompt", err)
	}

	content, err := p.chatCompletion(ctx, systemPrompt, query)
	if err != nil {
		return nil, err
	}

	cleaned := stripCodeFences(content)
	var suggestion llm.Suggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestion); err != nil {
		return nil, llm.NewLLMError(llm.InvalidResponseError,
			"Failed to parse AI response as JSON. Response was not in expected format.", err)
	}

	suggestion.Command = strings.TrimSpace(suggestion.Command)
	suggestion.Explanation = strings.TrimSpace(suggestion.Explanation)
	suggestion.Warning = strings.TrimSpace(suggestion.Warning)
	if suggestion.Command == "" {
		return nil, llm.NewLLMError(llm.InvalidResponseError,
			"Failed to parse AI response as JSON. Response was not in expected format.", nil)
	}
	return &suggestion, nil
}

// VerifyConnection implements the llm.Provider interface.
func (p *Provider) VerifyConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint("/models"), nil)
	if err != nil {
		return llm.NewLLMError(llm.ProviderError, "failed to create request", err)
	}
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		terr := llm.ClassifyTransportError(err)
		return llm.NewLLMError(terr.Type, "Failed to send request to OpenRouter", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.NewLLMError(llm.NetworkError, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return llm.NewLLMError(llm.ClassifyHTTPStatus(resp.StatusCode),
			fmt.Sprintf("OpenRouter API error (%s): %s", resp.Status, firstN(strings.TrimSpace(string(body)), maxErrorBody)), nil)
	}
	return nil
}

// chatCompletion sends one chat completion request and returns the raw
// content of the first choice.
func (p *Provider) chatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.1,
		MaxTokens:   1000,
		Stream:      false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", llm.NewLLMError(llm.ProviderError, "failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint("/chat/completions"), bytes.NewReader(jsonBody))
	if err != nil {
		return "", llm.NewLLMError(llm.ProviderError, "failed to create request", err)
	}
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		terr := llm.ClassifyTransportError(err)
		return "", llm.NewLLMError(terr.Type, "Failed to send request to OpenRouter", err)
	}
	defer resp.Body.Close()

	// Read the entire body so error responses can be surfaced verbatim
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.NewLLMError(llm.NetworkError, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", llm.NewLLMError(llm.ClassifyHTTPStatus(resp.StatusCode),
			fmt.Sprintf("OpenRouter API error (%s): %s", resp.Status, firstN(strings.TrimSpace(string(body)), maxErrorBody)), nil)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", llm.NewLLMError(llm.InvalidResponseError, "Failed to parse OpenRouter response", err)
	}
	if completion.Error != nil {
		return "", llm.NewLLMError(llm.ProviderError,
			fmt.Sprintf("API error: %s", errorMessage(completion.Error)), nil)
	}
	if len(completion.Choices) == 0 {
		return "", llm.NewLLMError(llm.EmptyResponseError, "No response from AI", nil)
	}
	return completion.Choices[0].Message.Content, nil
}

func (p *Provider) endpoint(path string) string {
	return strings.TrimSuffix(p.cfg.BaseURL, "/") + path
}

func (p *Provider) setHeaders(req *http.Request) {
	// Some proxies reject empty Bearer tokens, so only set the header
	// when a key is configured.
	if strings.TrimSpace(p.cfg.APIKey) != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// Attribution headers recognized by OpenRouter
	req.Header.Set("HTTP-Referer", "https://github.com/qcmd/q")
	req.Header.Set("X-Title", "q")
}

// errorMessage extracts a human-readable message from an embedded API error.
func errorMessage(e any) string {
	if m, ok := e.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("%v", e)
}

// stripCodeFences removes common markdown code fences and json hints.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(strings.ToLower(rest), "json") {
			rest = strings.TrimSpace(rest[4:])
		}
		if idx := strings.LastIndex(rest, "```"); idx != -1 {
			rest = rest[:idx]
		}
		s = rest
	}
	return strings.TrimSpace(strings.Trim(s, "`"))
}

// firstN returns at most n bytes of s (safe for error messages)
func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
