package googletranslate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"vidsub/internal/services"
)

const (
	defaultBaseURL     = "https://translate.googleapis.com/translate_a/single"
	defaultHTTPTimeout = 15 * time.Second
	maxBodyBytes       = 1 << 20
)

// Config captures the runtime settings for the translation endpoint.
type Config struct {
	BaseURL           string
	SourceLanguage    string
	TimeoutSeconds    int
	RequestsPerSecond float64
}

// Client wraps the gtx translate endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a translate client. RequestsPerSecond <= 0 disables
// client-side limiting.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.SourceLanguage = strings.TrimSpace(cfg.SourceLanguage)
	if cfg.SourceLanguage == "" {
		cfg.SourceLanguage = "auto"
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("translate request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Translate sends text to the endpoint and returns the joined translation.
// Every failure is marked services.ErrTransient (or ErrRateLimited for 429)
// so the caller can retry it.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	params := url.Values{
		"client": {"gtx"},
		"sl":     {c.cfg.SourceLanguage},
		"tl":     {targetLang},
		"dt":     {"t"},
		"q":      {text},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "translate", "build request", "", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", services.Wrap(services.ErrTransient, "translate", "request", "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "translate", "read response", "", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", services.Wrap(services.ErrRateLimited, "translate", "request", "", &httpStatusError{StatusCode: resp.StatusCode, Body: snippet(body)})
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrTransient, "translate", "request", "", &httpStatusError{StatusCode: resp.StatusCode, Body: snippet(body)})
	}
	// An HTML body means the endpoint served a block or captcha page.
	if strings.HasPrefix(strings.TrimSpace(string(body)), "<") {
		return "", services.Wrap(services.ErrTransient, "translate", "parse response", "endpoint returned an HTML page, possibly blocked", nil)
	}
	translated, err := parseResponse(body)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "translate", "parse response", "", err)
	}
	return translated, nil
}

// parseResponse joins the segments of a [[["text","source",...],...],...] payload.
func parseResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}
	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected response format: %w", err)
	}
	var b strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(segment[0], &part); err != nil {
			continue
		}
		b.WriteString(part)
	}
	return b.String(), nil
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
