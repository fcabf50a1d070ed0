package sdk

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultTemplateID is the LMA template deals are compared against.
const DefaultTemplateID = "LMA_Leveraged_2023.txt"

type options struct {
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	templateID string
}

func defaultOptions() options {
	return options{
		timeout:    30 * time.Second,
		httpClient: http.DefaultClient,
		templateID: DefaultTemplateID,
	}
}

// Option configures the SDK client.
type Option func(*options)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		if hc != nil {
			o.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTemplate overrides the template analyses are run against.
func WithTemplate(id string) Option {
	return func(o *options) {
		if id != "" {
			o.templateID = id
		}
	}
}
