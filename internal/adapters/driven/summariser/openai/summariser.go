// Package openai provides a proposal summariser using the OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sipdex/sipdex/internal/core/domain"
	"github.com/sipdex/sipdex/internal/core/ports/driven"
	"github.com/sipdex/sipdex/internal/logger"
)

// Ensure Summariser implements the interface.
var _ driven.Summariser = (*Summariser)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 60 * time.Second

	// MaxBodyChars caps how much proposal text goes into the prompt.
	MaxBodyChars = 12000

	// minInput is the smallest combined input worth summarising.
	minInput = 40
)

// Config holds configuration for the OpenAI summariser.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Summariser produces structured proposal summaries via the OpenAI
// chat completions API. Failures never escape: every path returns a
// usable result, degrading to the fixed sentinel.
type Summariser struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatCompletionMsg `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    float64             `json:"temperature,omitempty"`
	ResponseFormat *responseFormat     `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// summaryPayload is the JSON shape the model is instructed to return.
type summaryPayload struct {
	Headline      string `json:"headline"`
	WhatItIs      string `json:"what_it_is"`
	WhatItChanges string `json:"what_it_changes"`
	WhyItMatters  string `json:"why_it_matters"`
}

// New creates a new OpenAI summariser.
func New(cfg Config) (*Summariser, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Summariser{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

const summarisePrompt = `You summarise governance improvement proposals.
Return ONLY a JSON object with exactly these string fields:
{"headline": "...", "what_it_is": "...", "what_it_changes": "...", "why_it_matters": "..."}
headline is one sentence. Each other field is one to three sentences.
Use only the provided text; do not invent details.

Abstract:
%s

Proposal:
%s`

// Summarise summarises a proposal from its body and optional abstract.
// Sparse input, transport failures, and malformed model output all
// degrade to the sentinel result with a nil error.
func (s *Summariser) Summarise(ctx context.Context, body, abstract string) driven.SummaryResult {
	body = strings.TrimSpace(body)
	abstract = strings.TrimSpace(abstract)
	if len(body)+len(abstract) < minInput {
		return driven.FallbackSummaryResult()
	}
	if len(body) > MaxBodyChars {
		body = body[:MaxBodyChars]
	}

	prompt := fmt.Sprintf(summarisePrompt, abstract, body)
	content, err := s.chatCompletion(ctx, prompt)
	if err != nil {
		logger.Warn("summarise failed, using fallback: %v", err)
		return driven.FallbackSummaryResult()
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(extractJSON(content)), &payload); err != nil {
		logger.Warn("summarise returned malformed JSON, using fallback: %v", err)
		return driven.FallbackSummaryResult()
	}
	if payload.Headline == "" || payload.WhatItIs == "" {
		return driven.FallbackSummaryResult()
	}

	return driven.SummaryResult{
		Headline: strings.TrimSpace(payload.Headline),
		Structured: domain.StructuredSummary{
			WhatItIs:      orFallback(payload.WhatItIs),
			WhatItChanges: orFallback(payload.WhatItChanges),
			WhyItMatters:  orFallback(payload.WhyItMatters),
		},
	}
}

// ModelName returns the name of the model being used.
func (s *Summariser) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /models
// endpoint. This validates the API key without running inference.
func (s *Summariser) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai: API returned status %d: %w", resp.StatusCode, domain.ErrSummariserUnavailable)
	}
	return nil
}

// chatCompletion posts one prompt and returns the raw model content.
func (s *Summariser) chatCompletion(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: s.model,
		Messages: []chatCompletionMsg{
			{Role: "user", Content: prompt},
		},
		MaxTokens:      400,
		Temperature:    0.2,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// extractJSON strips markdown code fences some models wrap around JSON.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}
	return content
}

func orFallback(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.FallbackSummary
	}
	return s
}
