package httpclient

import (
	"time"

	"github.com/arbscan/arbscan/internal/backoff"
)

type options struct {
	providerName string
	baseURL      string
	headers      map[string]string
	timeout      time.Duration
	retries      int
	backoff      backoff.Policy
}

// Option configures a Client.
type Option func(*options)

func newOptions(opts ...Option) *options {
	o := &options{
		providerName: "default",
		timeout:      defaultRequestTimeout,
		retries:      2,
		backoff:      backoff.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithProviderName names the venue in metrics and traces.
func WithProviderName(name string) Option {
	return func(o *options) { o.providerName = name }
}

// WithBaseURL sets the base URL prepended to request paths.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHeaders sets default headers for all requests.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) { o.headers = headers }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetries sets how many retries follow a transient failure.
func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// WithBackoff overrides the retry backoff policy.
func WithBackoff(p backoff.Policy) Option {
	return func(o *options) { o.backoff = p }
}
