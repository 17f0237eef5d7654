package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/utils"
)

var (
	ErrUnsupportedScheme = errors.New("only http and https urls can be fetched")
	ErrNotHTML           = errors.New("response is not html")
	ErrHostUnavailable   = errors.New("host unavailable: circuit breaker open")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Status)
}

// Config controls the page client.
type Config struct {
	Timeout      time.Duration
	RPS          float64 // <= 0 means unlimited
	Retries      int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	UserAgent    string
	MaxBytes     int
	// BreakerThreshold consecutive failures against one host open its breaker.
	BreakerThreshold uint32
	BreakerCooldown  time.Duration
}

// DefaultConfig returns conservative crawl settings.
func DefaultConfig() Config {
	return Config{
		Timeout:          15 * time.Second,
		RPS:              2,
		Retries:          3,
		RetryWait:        500 * time.Millisecond,
		RetryMaxWait:     10 * time.Second,
		UserAgent:        "a11y-scanner/1.0",
		MaxBytes:         utils.DefaultMaxHTMLBytes,
		BreakerThreshold: 5,
		BreakerCooldown:  time.Minute,
	}
}

// Page is a fetched HTML document decoded to UTF-8.
type Page struct {
	URL         string
	FinalURL    string
	Status      int
	ContentType string
	HTML        string
	FetchedAt   time.Time
}

// Client fetches pages with retries, rate limiting and a breaker per host.
type Client struct {
	resty    *resty.Client
	limiter  *rate.Limiter
	breakers *resilience.Set
	maxBytes int
}

// NewClient creates a page client.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = def.RetryWait
	}
	if cfg.RetryMaxWait <= 0 {
		cfg.RetryMaxWait = def.RetryMaxWait
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = def.MaxBytes
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = def.BreakerThreshold
	}

	// Pooled transport from retryablehttp; resty drives the retries.
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil

	restyClient := resty.New().
		SetTransport(retryClient.HTTPClient.Transport).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5").
		AddRetryCondition(shouldRetry)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	return &Client{
		resty:   restyClient,
		limiter: limiter,
		breakers: resilience.NewSet(resilience.Settings{
			Threshold: cfg.BreakerThreshold,
			Cooldown:  cfg.BreakerCooldown,
		}),
		maxBytes: cfg.MaxBytes,
	}
}

// shouldRetry applies retryablehttp's policy: connection errors, 429 and
// 5xx other than 501 are retried.
func shouldRetry(r *resty.Response, err error) bool {
	ctx := context.Background()
	var raw *http.Response
	if r != nil {
		raw = r.RawResponse
		if r.Request != nil {
			ctx = r.Request.Context()
		}
	}
	retry, _ := retryablehttp.DefaultRetryPolicy(ctx, raw, err)
	return retry
}

// Fetch downloads rawURL and returns its HTML. Only 2xx HTML responses
// succeed. Transport errors and 5xx responses count against the host's
// breaker.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, rawURL)
	}

	breaker := c.breakers.Get(u.Host)
	if err := breaker.Allow(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrHostUnavailable, u.Host)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		breaker.Record(true)
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	page, err := c.get(ctx, rawURL)
	breaker.Record(!hostFault(err))
	return page, err
}

// hostFault reports whether err says something about the host's health
// rather than about the page.
func hostFault(err error) bool {
	if err == nil || errors.Is(err, ErrNotHTML) || errors.Is(err, utils.ErrHTMLTooLarge) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status >= 500
	}
	return true
}

func (c *Client) get(ctx context.Context, rawURL string) (*Page, error) {
	resp, err := c.resty.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &StatusError{URL: rawURL, Status: resp.StatusCode()}
	}

	body := resp.Body()
	if len(body) > c.maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes", utils.ErrHTMLTooLarge, rawURL, len(body))
	}

	contentType := resp.Header().Get("Content-Type")
	if !isHTML(contentType, body) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotHTML, rawURL, contentType)
	}

	finalURL := rawURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &Page{
		URL:         rawURL,
		FinalURL:    finalURL,
		Status:      resp.StatusCode(),
		ContentType: contentType,
		HTML:        decode(body, contentType),
		FetchedAt:   time.Now(),
	}, nil
}

// isHTML trusts an explicit HTML content type and sniffs everything else.
func isHTML(contentType string, body []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "text/html", "application/xhtml+xml":
			return true
		}
	}
	detected := mimetype.Detect(body)
	return detected.Is("text/html") || detected.Is("application/xhtml+xml")
}

// decode honors a charset in the content type before falling back to
// sniffing.
func decode(body []byte, contentType string) string {
	if _, params, err := mime.ParseMediaType(contentType); err == nil && params["charset"] != "" {
		if strings.EqualFold(params["charset"], "utf-8") {
			return string(body)
		}
		if r, err := charset.NewReader(bytes.NewReader(body), contentType); err == nil {
			if out, err := io.ReadAll(r); err == nil {
				return string(out)
			}
		}
	}
	return dom.Decode(body)
}
