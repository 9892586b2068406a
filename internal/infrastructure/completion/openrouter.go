package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"smartfaq-shopify-layer/internal/config"
	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

const serviceName = "completion API"

// maxErrorBody bounds how much of an upstream error payload is kept for logging
const maxErrorBody = 8 << 10

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls an OpenAI-compatible chat-completions endpoint
type Client struct {
	cfg        config.CompletionConfig
	referer    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewClient creates a chat-completion client. Requests rely on the transport's
// defaults plus the caller's context for cancellation.
func NewClient(cfg config.CompletionConfig, referer string, m *metrics.Metrics, logger zerolog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		referer:    referer,
		httpClient: &http.Client{},
		metrics:    m,
		logger:     logger,
	}
}

// Generate sends one user message and returns the text of the first choice
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, outcome, err := c.generate(ctx, prompt)
	c.metrics.ObserveCompletion(outcome, time.Since(start))
	return text, err
}

func (c *Client) generate(ctx context.Context, prompt string) (string, string, error) {
	apiKey := ""
	if c.cfg.APIKey != nil {
		apiKey = c.cfg.APIKey()
	}
	if apiKey == "" {
		return "", metrics.OutcomeTransportError, &domain.UpstreamError{
			Service: serviceName,
			Err:     errors.New("API key not configured"),
		}
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", metrics.OutcomeTransportError, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", metrics.OutcomeTransportError, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("model", c.cfg.Model).Msg("Completion request failed")
		return "", metrics.OutcomeTransportError, &domain.UpstreamError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("model", c.cfg.Model).
			RawJSON("upstream_error", jsonOrString(payload)).
			Msg("Completion API error")
		return "", metrics.OutcomeUpstreamError, &domain.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Body:       string(payload),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Error().Err(err).Msg("Invalid response from completion API: undecodable body")
		return "", metrics.OutcomeInvalidResponse, fmt.Errorf("%w: %v", domain.ErrInvalidUpstreamResponse, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil || parsed.Choices[0].Message.Content == nil {
		c.logger.Error().Int("choices", len(parsed.Choices)).Msg("Invalid response from completion API: no message content")
		return "", metrics.OutcomeInvalidResponse, domain.ErrInvalidUpstreamResponse
	}

	return *parsed.Choices[0].Message.Content, metrics.OutcomeSuccess, nil
}

// jsonOrString keeps JSON payloads structured in the log line and quotes anything else
func jsonOrString(payload []byte) []byte {
	if json.Valid(payload) {
		return payload
	}
	quoted, _ := json.Marshal(string(payload))
	return quoted
}
