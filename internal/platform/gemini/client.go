package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bundasehat/screening-backend/internal/platform/envutil"
	"github.com/bundasehat/screening-backend/internal/platform/httpx"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

const (
	DefaultBaseURL          = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultModel            = "gemini-2.0-flash"
	DefaultTimeout          = 60 * time.Second
	DefaultMaxRetries       = 3
	DefaultRateLimitBackoff = 30 * time.Second
)

// Client issues JSON-only generation requests.
type Client interface {
	GenerateJSON(ctx context.Context, prompt string) (*Response, error)
	Model() string
}

// Response is a successfully parsed generation.
type Response struct {
	Object   map[string]any
	RawText  string
	Attempts int
	Usage    map[string]any
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds a single attempt, not the whole call.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts after a rate-limited response.
	MaxRetries       int
	RateLimitBackoff time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:           envutil.String("GEMINI_API_KEY", ""),
		BaseURL:          envutil.String("GEMINI_BASE_URL", DefaultBaseURL),
		Model:            envutil.String("GEMINI_MODEL", DefaultModel),
		Timeout:          envutil.Millis("GEMINI_TIMEOUT_MS", DefaultTimeout),
		MaxRetries:       envutil.Int("GEMINI_MAX_RETRIES", DefaultMaxRetries),
		RateLimitBackoff: envutil.Millis("GEMINI_RATE_LIMIT_BACKOFF_MS", DefaultRateLimitBackoff),
	}
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if strings.TrimSpace(c.Model) == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RateLimitBackoff < 0 {
		c.RateLimitBackoff = 0
	}
	return c
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	cfg = cfg.withDefaults()
	return &client{
		log: log.With("service", "GeminiClient", "model", cfg.Model),
		cfg: cfg,
		// Per-attempt deadlines come from the request context.
		httpClient: &http.Client{},
	}, nil
}

func (c *client) Model() string { return c.cfg.Model }

type generateRequest struct {
	Contents []struct {
		Parts []part `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback"`
	UsageMetadata map[string]any `json:"usageMetadata,omitempty"`
}

func (c *client) GenerateJSON(ctx context.Context, prompt string) (*Response, error) {
	ctx, span := otel.Tracer("gemini").Start(ctx, "gemini.generateContent")
	defer span.End()
	span.SetAttributes(attribute.String("gemini.model", c.cfg.Model))

	req := generateRequest{}
	req.Contents = append(req.Contents, struct {
		Parts []part `json:"parts"`
	}{Parts: []part{{Text: prompt}}})
	req.GenerationConfig.ResponseMimeType = "application/json"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ModelError{Kind: KindTransport, Err: err}
	}

	maxAttempts := c.cfg.MaxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := c.doOnce(ctx, body)
		if err == nil {
			resp, perr := parseResponse(raw)
			if perr != nil {
				me := &ModelError{Kind: KindInvalidResponse, Attempts: attempt, Err: perr}
				recordSpanError(span, me)
				return nil, me
			}
			resp.Attempts = attempt
			span.SetAttributes(attribute.Int("gemini.attempts", attempt))
			return resp, nil
		}

		status := httpx.StatusCode(err)
		var he *httpError
		errors.As(err, &he)
		rateLimited := he != nil && httpx.IsRateLimited(he.StatusCode, he.Body)
		if !rateLimited {
			me := &ModelError{Kind: KindTransport, Attempts: attempt, StatusCode: status, Err: err}
			if httpx.IsTimeout(err) && ctx.Err() == nil {
				me.Kind = KindTimeout
			}
			recordSpanError(span, me)
			return nil, me
		}

		lastErr = err
		if attempt == maxAttempts {
			break
		}
		c.log.Warn("Gemini rate limited; backing off",
			"attempt", attempt,
			"max_retries", c.cfg.MaxRetries,
			"sleep", c.cfg.RateLimitBackoff.String(),
			"status", status,
		)
		if serr := sleepCtx(ctx, c.cfg.RateLimitBackoff); serr != nil {
			me := &ModelError{Kind: KindTransport, Attempts: attempt, StatusCode: status, Err: serr}
			recordSpanError(span, me)
			return nil, me
		}
	}

	me := &ModelError{
		Kind:       KindRateLimitExhausted,
		Attempts:   maxAttempts,
		StatusCode: httpx.StatusCode(lastErr),
		Err:        fmt.Errorf("%w: %v", ErrRetriesExceeded, lastErr),
	}
	recordSpanError(span, me)
	return nil, me
}

func (c *client) doOnce(ctx context.Context, body []byte) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 2048)}
	}
	return raw, nil
}

func parseResponse(raw []byte) (*Response, error) {
	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if gr.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("prompt blocked: %s", gr.PromptFeedback.BlockReason)
	}
	var sb strings.Builder
	if len(gr.Candidates) > 0 {
		for _, p := range gr.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, errors.New("empty response from model")
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("model output is not a JSON object: %w", err)
	}
	if obj == nil {
		return nil, errors.New("model output is null")
	}
	return &Response{Object: obj, RawText: text, Usage: gr.UsageMetadata}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func recordSpanError(span trace.Span, me *ModelError) {
	span.SetAttributes(
		attribute.String("gemini.error_kind", string(me.Kind)),
		attribute.Int("gemini.attempts", me.Attempts),
	)
	span.RecordError(me)
	span.SetStatus(codes.Error, string(me.Kind))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
