// Package naver talks to the Naver Open API (DataLab, blog and cafe search)
// and the Naver search advertising API over fasthttp.
package naver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/retry"
)

const (
	DefaultOpenAPIURL  = "https://openapi.naver.com"
	DefaultSearchAdURL = "https://api.searchad.naver.com"
)

var (
	// ErrMissingCredentials is returned before any request is made when the
	// client lacks the keys an endpoint needs.
	ErrMissingCredentials = errors.New("naver: missing credentials")
	// ErrEmptyResponse means the API answered 200 without usable data.
	ErrEmptyResponse = errors.New("naver: empty response")
)

// Config holds credentials and transport settings for both APIs.
type Config struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	OpenAPIURL   string `mapstructure:"openapi_url"`

	AdAPIKey     string `mapstructure:"api_key"`
	AdSecretKey  string `mapstructure:"secret_key"`
	AdCustomerID string `mapstructure:"customer_id"`
	SearchAdURL  string `mapstructure:"searchad_url"`

	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

func DefaultConfig() Config {
	return Config{
		OpenAPIURL:  DefaultOpenAPIURL,
		SearchAdURL: DefaultSearchAdURL,
		Timeout:     10 * time.Second,
		MaxRetries:  2,
		RetryDelay:  500 * time.Millisecond,
	}
}

// HasOpenAPI reports whether DataLab and search calls can be made.
func (c Config) HasOpenAPI() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// HasSearchAd reports whether keywordstool calls can be made.
func (c Config) HasSearchAd() bool {
	return c.AdAPIKey != "" && c.AdSecretKey != "" && c.AdCustomerID != ""
}

// Client implements TrendClient, SearchClient and AdClient.
type Client struct {
	cfg   Config
	http  *fasthttp.Client
	retry *retry.SimpleRetry
	log   *logger.Logger
	now   func() time.Time
}

func NewClient(cfg Config) *Client {
	defaults := DefaultConfig()
	if cfg.OpenAPIURL == "" {
		cfg.OpenAPIURL = defaults.OpenAPIURL
	}
	if cfg.SearchAdURL == "" {
		cfg.SearchAdURL = defaults.SearchAdURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}

	return &Client{
		cfg: cfg,
		http: &fasthttp.Client{
			Name:                "keyword-scout/1.0",
			MaxConnsPerHost:     64,
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: 90 * time.Second,
		},
		retry: retry.NewSimpleRetry(cfg.MaxRetries, cfg.RetryDelay),
		log:   logger.GetLogger().WithField("component", "naver_client"),
		now:   time.Now,
	}
}

var (
	_ TrendClient  = (*Client)(nil)
	_ SearchClient = (*Client)(nil)
	_ AdClient     = (*Client)(nil)
)

// do executes the request built by build with retries and hands a 200 body
// to parse. Requests are rebuilt per attempt since signatures are
// time-based.
func (c *Client) do(ctx context.Context, service string, build func(req *fasthttp.Request), parse func(body []byte) error) error {
	start := time.Now()
	err := c.retry.Execute(ctx, func() error {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		build(req)
		req.Header.Set("Accept", "application/json")

		if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
			return fmt.Errorf("%s request failed: %w", service, err)
		}
		if resp.StatusCode() != fasthttp.StatusOK {
			return &retry.StatusError{
				Service:    service,
				StatusCode: resp.StatusCode(),
				Body:       truncate(string(resp.Body()), 200),
			}
		}
		return parse(resp.Body())
	})

	fields := map[string]interface{}{
		"service":     service,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("Naver API call failed")
		return err
	}
	c.log.WithFields(fields).Debug("Naver API call completed")
	return nil
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
