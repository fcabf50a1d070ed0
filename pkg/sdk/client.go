package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/felixgeelhaar/doccompare/pkg/domain"
	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

// RequestIDHeader carries the per-call correlation id.
const RequestIDHeader = "X-Request-ID"

var _ domain.Backend = (*Client)(nil)

// Client is a typed client for the analysis backend. Construct one with
// NewClient and pass it to whatever needs it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	templateID string
	logger     *slog.Logger
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8000/api".
func NewClient(baseURL string, opts ...Option) *Client {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: o.httpClient,
		timeout:    o.timeout,
		templateID: o.templateID,
		logger:     logger,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// TemplateID returns the template analyses are run against.
func (c *Client) TemplateID() string { return c.templateID }

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	schema *gojsonschema.Schema
}

// do performs one request and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	requestID := uuid.NewString()
	started := time.Now()

	body, err := c.bounded(ctx, func(ctx context.Context) ([]byte, error) {
		return c.roundTrip(ctx, requestID, cl)
	})

	attrs := []any{
		slog.String("request_id", requestID),
		slog.String("method", cl.method),
		slog.String("path", cl.path),
		slog.Duration("elapsed", time.Since(started)),
	}
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			apiErr = transportError(requestID, err)
		}
		c.logger.Warn("backend call failed", append(attrs,
			slog.Int("status", apiErr.StatusCode),
			slog.String("error", apiErr.Message))...)
		return nil, apiErr
	}
	c.logger.Debug("backend call", attrs...)

	if cl.schema != nil {
		if err := validatePayload(cl.schema, requestID, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// bounded runs fn under the per-call timeout. There is no retry.
func (c *Client) bounded(ctx context.Context, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	t := timeout.New[[]byte](timeout.Config{
		DefaultTimeout: c.timeout,
	})
	return t.Execute(ctx, c.timeout, fn)
}

func (c *Client) roundTrip(ctx context.Context, requestID string, cl call) ([]byte, error) {
	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(requestID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(requestID, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(requestID, resp.StatusCode, extractDetail(data))
	}
	return data, nil
}

// extractDetail returns the backend's "detail" message when present.
func extractDetail(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil || eb.Detail == nil {
		return ""
	}
	switch d := eb.Detail.(type) {
	case string:
		return d
	default:
		raw, err := json.Marshal(d)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func decode[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &APIError{
			StatusCode: http.StatusBadGateway,
			Message:    "malformed response from backend",
			Err:        fmt.Errorf("unmarshal: %w", err),
		}
	}
	return &v, nil
}

// --- Analysis ---

// ListSamples returns the sample deal identifiers the backend can analyze.
func (c *Client) ListSamples(ctx context.Context) ([]string, error) {
	data, err := c.do(ctx, call{method: http.MethodGet, path: "/analyze/samples"})
	if err != nil {
		return nil, err
	}
	res, err := decode[samplesResponse](data)
	if err != nil {
		return nil, err
	}
	return res.Samples, nil
}

// Analyze runs an analysis. An empty TemplateID uses the client's template.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*deal.AnalysisResult, error) {
	if req.TemplateID == "" {
		req.TemplateID = c.templateID
	}
	data, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/analyze/",
		body:   req,
		schema: analysisSchema,
	})
	if err != nil {
		return nil, err
	}
	return decode[deal.AnalysisResult](data)
}

// AnalyzeSample analyzes one of the backend's sample deals.
func (c *Client) AnalyzeSample(ctx context.Context, sampleID string) (*deal.AnalysisResult, error) {
	return c.Analyze(ctx, AnalyzeRequest{SampleDealID: sampleID})
}

// AnalyzeText analyzes raw agreement text.
func (c *Client) AnalyzeText(ctx context.Context, text string) (*deal.AnalysisResult, error) {
	return c.Analyze(ctx, AnalyzeRequest{DealText: text})
}

// AddToPortfolio analyzes a sample and registers it in the portfolio.
func (c *Client) AddToPortfolio(ctx context.Context, sampleID string) (*deal.Registration, error) {
	data, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/analyze/add-to-portfolio",
		body:   AnalyzeRequest{SampleDealID: sampleID, TemplateID: c.templateID},
	})
	if err != nil {
		return nil, err
	}
	res := &deal.Registration{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, res); err != nil {
			c.logger.Debug("ignoring unreadable registration body", slog.String("error", err.Error()))
		}
	}
	return res, nil
}

// --- Portfolio ---

// GetPortfolio returns every analyzed deal.
func (c *Client) GetPortfolio(ctx context.Context) ([]deal.PortfolioItem, error) {
	data, err := c.do(ctx, call{method: http.MethodGet, path: "/portfolio/", schema: portfolioSchema})
	if err != nil {
		return nil, err
	}
	items, err := decode[[]deal.PortfolioItem](data)
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// GetPortfolioStats returns the backend's own portfolio aggregate.
func (c *Client) GetPortfolioStats(ctx context.Context) (*deal.PortfolioStats, error) {
	data, err := c.do(ctx, call{method: http.MethodGet, path: "/portfolio/stats"})
	if err != nil {
		return nil, err
	}
	res, err := decode[statsResponse](data)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, ErrNoPortfolioData
	}
	return &res.PortfolioStats, nil
}

// --- Amendments ---

// ListVersions returns the version identifiers of a deal family in
// chronological order.
func (c *Client) ListVersions(ctx context.Context, baseName string) ([]string, error) {
	data, err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/amendments/" + url.PathEscape(baseName) + "/versions",
	})
	if err != nil {
		return nil, err
	}
	res, err := decode[versionsResponse](data)
	if err != nil {
		return nil, err
	}
	return res.Versions, nil
}

// CompareVersions returns the redline from v1 to v2.
func (c *Client) CompareVersions(ctx context.Context, v1, v2 string) (*deal.VersionDiff, error) {
	data, err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/amendments/compare",
		query:  url.Values{"v1": {v1}, "v2": {v2}},
	})
	if err != nil {
		return nil, err
	}
	return decode[deal.VersionDiff](data)
}

// --- Reports ---

// ReportURL returns the address of the compliance report for a deal. The
// report is opened directly, never parsed.
func (c *Client) ReportURL(dealName string) string {
	return c.baseURL + "/report/" + url.PathEscape(dealName)
}

// DownloadReport fetches the raw report for a deal.
func (c *Client) DownloadReport(ctx context.Context, dealName string) ([]byte, error) {
	return c.do(ctx, call{method: http.MethodGet, path: "/report/" + url.PathEscape(dealName)})
}

// Health checks that the backend root answers.
func (c *Client) Health(ctx context.Context) error {
	root := c.baseURL
	if u, err := url.Parse(c.baseURL); err == nil {
		u.Path = strings.TrimSuffix(u.Path, "/api") + "/"
		root = u.String()
	}
	requestID := uuid.NewString()
	_, err := c.bounded(ctx, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, root, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set(RequestIDHeader, requestID)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, transportError(requestID, err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, statusError(requestID, resp.StatusCode, "")
		}
		return nil, nil
	})
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			return transportError(requestID, err)
		}
		return apiErr
	}
	return nil
}
