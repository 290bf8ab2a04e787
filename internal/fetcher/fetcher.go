package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrFetchFailed is returned once every attempt has been exhausted.
var ErrFetchFailed = errors.New("failed to fetch product page")

type Options struct {
	Retries   int
	Timeout   time.Duration
	UserAgent string
}

func DefaultOptions() *Options {
	return &Options{
		Retries:   3,
		Timeout:   20 * time.Second,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	}
}

type Fetcher struct {
	client  *resty.Client
	retries int
	logger  *slog.Logger

	// backoff and sleep are replaced in tests.
	backoff func(attempt int) time.Duration
	sleep   func(time.Duration)
}

// New builds a Fetcher. Zero-valued Options fields fall back to
// DefaultOptions, so a partially-filled Options still carries the browser
// User-Agent and sane retry settings.
func New(opts *Options) *Fetcher {
	defaults := DefaultOptions()
	if opts == nil {
		opts = defaults
	}

	retries := opts.Retries
	if retries <= 0 {
		retries = defaults.Retries
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaults.Timeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaults.UserAgent
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &Fetcher{
		client:  client,
		retries: retries,
		logger:  slog.Default().With("component", "fetcher"),
		backoff: func(attempt int) time.Duration {
			return time.Duration(2*attempt) * time.Second
		},
		sleep: time.Sleep,
	}
}

// Fetch issues a GET for url and returns the raw document body. Transport
// errors and non-2xx responses are retried with an increasing backoff; the
// final attempt fails without sleeping.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.retries; attempt++ {
		resp, err := f.client.R().SetContext(ctx).Get(url)
		if err == nil && resp.IsSuccess() {
			return string(resp.Body()), nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("unexpected status %s", resp.Status())
		}

		if attempt == f.retries {
			break
		}

		delay := f.backoff(attempt)
		f.logger.Warn("fetch attempt failed", "url", url, "attempt", attempt, "retry_in", delay, "error", lastErr)
		f.sleep(delay)
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrFetchFailed, f.retries, lastErr)
}
