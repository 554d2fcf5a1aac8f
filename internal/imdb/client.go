package imdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/metrics"
)

const (
	DefaultUserAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	DefaultAcceptLanguage = "en-US,en;q=0.9"
)

// HTTPStatusError is returned for non-2xx responses.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

// Options configure the page client.
type Options struct {
	UserAgent         string
	AcceptLanguage    string
	Proxy             string
	Timeout           time.Duration
	RequestsPerSecond float64
	// FailureThreshold consecutive failures open the breaker for BreakerTimeout.
	FailureThreshold uint32
	BreakerTimeout   time.Duration
}

// Client fetches IMDb pages, throttled and behind a circuit breaker.
type Client struct {
	client  *resty.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.AcceptLanguage == "" {
		opts.AcceptLanguage = DefaultAcceptLanguage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = time.Minute
	}

	c := resty.New()
	c.SetTimeout(opts.Timeout)
	if opts.Proxy != "" {
		c.SetProxy(opts.Proxy)
	}
	c.SetHeader("User-Agent", opts.UserAgent)
	c.SetHeader("Accept-Language", opts.AcceptLanguage)

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	threshold := opts.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "imdb",
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// a missing page says nothing about the site's health
		IsSuccessful: func(err error) bool {
			var se *HTTPStatusError
			return err == nil || (errors.As(err, &se) && se.StatusCode == http.StatusNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("IMDb: circuit breaker state changed")
		},
	})

	return &Client{
		client:  c,
		limiter: rate.NewLimiter(limit, 1),
		breaker: breaker,
	}
}

// Get returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := c.breaker.Execute(func() ([]byte, error) {
		resp, err := c.client.R().SetContext(ctx).Get(url)
		if err != nil {
			return nil, err
		}
		if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
			return nil, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode()}
		}
		return resp.Body(), nil
	})
	switch {
	case err == nil:
		metrics.ScraperRequests.WithLabelValues("ok").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ScraperRequests.WithLabelValues("rejected").Inc()
	default:
		metrics.ScraperRequests.WithLabelValues("error").Inc()
	}
	return body, err
}

// Fetch downloads and parses an HTML page.
func (c *Client) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
