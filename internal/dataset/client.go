package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Sentinel errors for the datasets-server client.
var (
	ErrRequest         = errors.New("dataset request failed")
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrSplitNotFound   = errors.New("split not found")
	ErrUnauthorized    = errors.New("dataset access denied")
)

// DefaultEndpoint is the public Hugging Face datasets-server.
const DefaultEndpoint = "https://datasets-server.huggingface.co"

// PageSize is the largest page the datasets-server returns from /rows.
const PageSize = 100

// Client defaults.
const (
	defaultTimeout      = 30 * time.Second
	defaultRetries      = 2
	defaultRetryWait    = 500 * time.Millisecond
	defaultRetryMaxWait = 5 * time.Second
)

// SplitInfo names one (subset, split) pair of a dataset.
type SplitInfo struct {
	Dataset string
	Subset  string
	Split   string
}

// RowsRequest selects one page of a split.
type RowsRequest struct {
	Dataset string
	Subset  string
	Split   string
	Offset  int
	Length  int // clamped to 1..PageSize
}

// Page is one page of rows with the split schema.
type Page struct {
	Columns []Column
	Rows    []Row
	Offset  int
	Total   int // num_rows_total of the split
}

// Client talks to the datasets-server HTTP API.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	endpoint  string
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	token     string
	logger    *zap.Logger
}

// WithEndpoint overrides the datasets-server base URL.
func WithEndpoint(url string) ClientOption {
	return func(c *clientConfig) { c.endpoint = url }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.timeout = d }
}

// WithRetries sets how many times a retryable request is re-sent.
func WithRetries(n int) ClientOption {
	return func(c *clientConfig) { c.retries = n }
}

// WithRetryWait sets the initial backoff between retries.
func WithRetryWait(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.retryWait = d }
}

// WithToken sends a bearer token, required for gated datasets.
func WithToken(token string) ClientOption {
	return func(c *clientConfig) { c.token = token }
}

// WithClientLogger sets the logger for request tracing.
func WithClientLogger(l *zap.Logger) ClientOption {
	return func(c *clientConfig) { c.logger = l }
}

// NewClient creates a datasets-server client.
func NewClient(opts ...ClientOption) *Client {
	cfg := clientConfig{
		endpoint:  DefaultEndpoint,
		timeout:   defaultTimeout,
		retries:   defaultRetries,
		retryWait: defaultRetryWait,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := resty.New().
		SetBaseURL(cfg.endpoint).
		SetTimeout(cfg.timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.retries).
		SetRetryWaitTime(cfg.retryWait).
		SetRetryMaxWaitTime(defaultRetryMaxWait).
		SetLogger(cfg.logger.Sugar())

	client.AddRetryCondition(retryCondition)

	if cfg.token != "" {
		client.SetAuthToken(cfg.token)
	}

	return &Client{http: client, logger: cfg.logger}
}

// retryCondition determines if a request should be retried
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

// Splits lists the subsets and splits of a dataset.
func (c *Client) Splits(ctx context.Context, dataset string) ([]SplitInfo, error) {
	body, err := c.get(ctx, "/splits", map[string]string{"dataset": dataset})
	if err != nil {
		return nil, fmt.Errorf("listing splits of %s: %w", dataset, err)
	}

	splits := gjson.GetBytes(body, "splits")
	if !splits.IsArray() {
		return nil, fmt.Errorf("listing splits of %s: %w: missing splits array", dataset, ErrDecode)
	}

	var out []SplitInfo
	splits.ForEach(func(_, s gjson.Result) bool {
		out = append(out, SplitInfo{
			Dataset: s.Get("dataset").String(),
			Subset:  s.Get("config").String(),
			Split:   s.Get("split").String(),
		})
		return true
	})
	return out, nil
}

// Rows fetches one page of a split.
func (c *Client) Rows(ctx context.Context, req RowsRequest) (*Page, error) {
	length := req.Length
	if length <= 0 || length > PageSize {
		length = PageSize
	}
	params := map[string]string{
		"dataset": req.Dataset,
		"config":  req.Subset,
		"split":   req.Split,
		"offset":  strconv.Itoa(req.Offset),
		"length":  strconv.Itoa(length),
	}

	body, err := c.get(ctx, "/rows", params)
	if err != nil {
		return nil, fmt.Errorf("fetching rows %d-%d of %s/%s/%s: %w",
			req.Offset, req.Offset+length, req.Dataset, req.Subset, req.Split, err)
	}
	return parseRowsPage(body, req.Offset)
}

// parseRowsPage decodes a /rows response body.
func parseRowsPage(body []byte, offset int) (*Page, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrDecode)
	}
	doc := gjson.ParseBytes(body)

	columns, err := parseFeatures(doc.Get("features"))
	if err != nil {
		return nil, err
	}

	page := &Page{
		Columns: columns,
		Offset:  offset,
		Total:   int(doc.Get("num_rows_total").Int()),
	}

	var rowErr error
	doc.Get("rows").ForEach(func(_, entry gjson.Result) bool {
		row, err := decodeRow(columns, entry.Get("row"))
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", entry.Get("row_idx").Int(), err)
			return false
		}
		page.Rows = append(page.Rows, row)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return page, nil
}

// get issues a GET request and maps HTTP failures to sentinel errors.
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}

	c.logger.Debug("datasets-server request",
		zap.String("path", path),
		zap.Any("params", params),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch code := resp.StatusCode(); {
	case code == http.StatusOK:
		return resp.Body(), nil
	case code == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, serverError(resp))
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, serverError(resp))
	default:
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrRequest, code, serverError(resp))
	}
}

// serverError extracts the "error" message of a failed response.
func serverError(resp *resty.Response) string {
	if msg := gjson.GetBytes(resp.Body(), "error").String(); msg != "" {
		return msg
	}
	return resp.Status()
}
