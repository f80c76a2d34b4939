// Package httpclient provides an instrumented HTTP client for venue REST
// APIs: OTEL tracing and metrics on every request, retry with backoff on
// transient failures, and venue errors mapped onto the apperror taxonomy.
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/arbscan/arbscan/internal/apperror"
	"github.com/arbscan/arbscan/internal/backoff"
)

const (
	defaultDialKeepAlive   = 10 * time.Second
	defaultRequestTimeout  = 10 * time.Second
	defaultMaxConnsPerHost = 5
	defaultIdleConnTimeout = 2 * time.Minute

	metricRequestCounter = "http_client_requests_total"
)

// Client is a JSON-over-HTTP client bound to one venue's base URL.
type Client struct {
	http           *http.Client
	requestCounter metric.Int64Counter
	tracer         trace.Tracer
	providerName   string
	baseURL        string
	headers        map[string]string
	retries        int
	backoff        backoff.Policy
}

// New builds a client. The transport is wrapped with otelhttp so every
// request produces client spans and propagates context.
func New(opts ...Option) (*Client, error) {
	o := newOptions(opts...)

	hc := &http.Client{
		Timeout: o.timeout,
		Transport: otelhttp.NewTransport(
			&http.Transport{
				DialContext: (&net.Dialer{
					KeepAlive: defaultDialKeepAlive,
				}).DialContext,
				MaxConnsPerHost: defaultMaxConnsPerHost,
				IdleConnTimeout: defaultIdleConnTimeout,
			},
			otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
				return otelhttptrace.NewClientTrace(ctx)
			}),
		),
	}

	meter := otel.Meter("venue_http_client",
		metric.WithInstrumentationAttributes(attribute.String("provider", o.providerName)))
	counter, err := meter.Int64Counter(metricRequestCounter,
		metric.WithDescription("Total number of venue HTTP requests"))
	if err != nil {
		return nil, err
	}

	return &Client{
		http:           hc,
		requestCounter: counter,
		tracer:         otel.Tracer("venue_http_client"),
		providerName:   o.providerName,
		baseURL:        strings.TrimSuffix(o.baseURL, "/"),
		headers:        o.headers,
		retries:        o.retries,
		backoff:        o.backoff,
	}, nil
}

// GetJSON fetches path with the given query and decodes the response body
// into out. Transient failures (timeouts, 429, 5xx) are retried with
// backoff up to the configured attempt budget; everything it returns is an
// *apperror.AppError.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = c.getJSONOnce(ctx, path, query, out)
		if lastErr == nil || !retryable(lastErr) || attempt >= c.retries {
			return lastErr
		}
		if err := c.backoff.Sleep(ctx, attempt); err != nil {
			return apperror.External(apperror.CodeServiceTimeout, c.providerName+path, err)
		}
	}
}

func (c *Client) getJSONOnce(ctx context.Context, path string, query url.Values, out any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, "venue.request",
		trace.WithAttributes(
			attribute.String("http.method", http.MethodGet),
			attribute.String("http.url", fullURL),
			attribute.String("provider", c.providerName),
		))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return apperror.Internal(apperror.CodeInternalError, "build request "+fullURL, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.count(ctx, false)
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return apperror.External(apperror.CodeServiceTimeout, fullURL, err)
		}
		return apperror.External(apperror.CodeVenueUnavailable, fullURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		c.count(ctx, false)
		return apperror.External(apperror.CodeVenueAPIError, "read body "+fullURL, err)
	}

	if resp.StatusCode >= 400 {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		span.SetStatus(codes.Error, resp.Status)
		c.count(ctx, false)
		return statusError(resp.StatusCode, fullURL, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			span.RecordError(err)
			c.count(ctx, false)
			return apperror.External(apperror.CodeTickerParseFailed, fullURL, err)
		}
	}
	c.count(ctx, true)
	return nil
}

func (c *Client) count(ctx context.Context, success bool) {
	c.requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", c.providerName),
		attribute.Bool("success", success),
	))
}

func statusError(status int, url string, body []byte) error {
	ctx := fmt.Sprintf("%s: status %d: %s", url, status, truncate(body, 256))
	switch {
	case status == http.StatusTooManyRequests:
		return apperror.New(apperror.CodeRateLimitExceeded, apperror.WithContext(ctx))
	case status >= 500:
		return apperror.New(apperror.CodeVenueUnavailable, apperror.WithContext(ctx))
	default:
		return apperror.New(apperror.CodeVenueAPIError, apperror.WithContext(ctx))
	}
}

func retryable(err error) bool {
	return apperror.IsCode(err, apperror.CodeServiceTimeout) ||
		apperror.IsCode(err, apperror.CodeRateLimitExceeded) ||
		apperror.IsCode(err, apperror.CodeVenueUnavailable)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
