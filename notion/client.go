// Package notion adapts the Notion API client to what folio needs: querying a
// database, retrieving a page, and walking a page's block tree into a
// RecordMap. Results are handed out as folio's own types so callers never
// depend on the SDK's property and block structs.
package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/eringen/folio/internal/logger"
)

const (
	// DefaultBaseURL is the public API endpoint.
	DefaultBaseURL = "https://api.notion.com/v1"
	// APIVersion is sent as the Notion-Version header.
	APIVersion = "2022-06-28"

	defaultTimeout     = 10 * time.Second
	defaultConcurrency = 3
	defaultMaxDepth    = 8
	defaultRetries     = 1
	maxPageSize        = 100
)

// Client talks to the workspace API with a single integration token.
type Client struct {
	api *notionapi.Client

	baseURL     string
	httpClient  *http.Client
	log         logger.Logger
	timeout     time.Duration
	concurrency int
	maxDepth    int
	retries     int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client. Its transport is wrapped, never
// modified in place.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for outbound request logging.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithConcurrency bounds how many block-children calls a resolve runs at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithMaxDepth caps how deep ResolvePage descends into nested blocks.
func WithMaxDepth(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithRetries sets how many attempts a rate-limited call makes before it
// gives up. The default is a single attempt.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retries = n
		}
	}
}

// New creates a Client authenticated with token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		log:         logger.Discard(),
		concurrency: defaultConcurrency,
		maxDepth:    defaultMaxDepth,
		retries:     defaultRetries,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.httpClient
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	inner := hc.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}
	hc.Transport = newAPITransport(c.baseURL, &loggingRoundTripper{inner: inner, log: c.log})
	c.httpClient = &hc

	c.api = notionapi.NewClient(notionapi.Token(token),
		notionapi.WithHTTPClient(c.httpClient),
		notionapi.WithVersion(APIVersion),
		notionapi.WithRetry(c.retries),
	)
	return c
}

// APIError is the error envelope returned for non-2xx responses.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion: %s (%d): %s", e.Code, e.Status, e.Message)
}

// IsNotFound reports whether err is a missing-object response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusNotFound || apiErr.Code == "object_not_found"
}

// apiError lifts the SDK's error envelope into an *APIError.
func apiError(err error) error {
	var sdkErr *notionapi.Error
	if errors.As(err, &sdkErr) {
		return &APIError{Status: sdkErr.Status, Code: string(sdkErr.Code), Message: sdkErr.Message}
	}
	return err
}

// QueryDatabase runs q against a database and follows cursors until every
// row has been read. Rows keep the order the API returns them in.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, q Query) ([]Page, error) {
	if databaseID == "" {
		return nil, errors.New("notion: empty database id")
	}
	req := &notionapi.DatabaseQueryRequest{
		StartCursor: notionapi.Cursor(q.StartCursor),
		PageSize:    q.PageSize,
	}
	if req.PageSize == 0 {
		req.PageSize = maxPageSize
	}
	for _, s := range q.Sorts {
		req.Sorts = append(req.Sorts, notionapi.SortObject{
			Property:  s.Property,
			Direction: notionapi.SortOrder(s.Direction),
		})
	}
	if f := q.Filter; f != nil {
		pf := &notionapi.PropertyFilter{Property: f.Property}
		if f.Select != nil {
			pf.Select = &notionapi.SelectFilterCondition{Equals: f.Select.Equals}
		}
		if f.Status != nil {
			pf.Status = &notionapi.StatusFilterCondition{Equals: f.Status.Equals}
		}
		req.Filter = pf
	}

	var pages []Page
	for {
		resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
		if err != nil {
			return nil, fmt.Errorf("query database %s: %w", databaseID, apiError(err))
		}
		for i := range resp.Results {
			var p Page
			if err := convert(&resp.Results[i], &p); err != nil {
				return nil, fmt.Errorf("query database %s: %w", databaseID, err)
			}
			pages = append(pages, p)
		}
		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		req.StartCursor = notionapi.Cursor(resp.NextCursor)
	}
}

// RetrievePage fetches a single page with its properties.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	if pageID == "" {
		return nil, errors.New("notion: empty page id")
	}
	sdkPage, err := c.api.Page.Get(ctx, notionapi.PageID(pageID))
	if err != nil {
		return nil, fmt.Errorf("retrieve page %s: %w", pageID, apiError(err))
	}
	var page Page
	if err := convert(sdkPage, &page); err != nil {
		return nil, fmt.Errorf("retrieve page %s: %w", pageID, err)
	}
	return &page, nil
}

// ListBlockChildren returns one page of a block's children starting at cursor.
func (c *Client) ListBlockChildren(ctx context.Context, blockID, cursor string) (*BlockList, error) {
	resp, err := c.api.Block.GetChildren(ctx, notionapi.BlockID(blockID), &notionapi.Pagination{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    maxPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", blockID, apiError(err))
	}
	list := &BlockList{
		Results:    make([]*Block, 0, len(resp.Results)),
		HasMore:    resp.HasMore,
		NextCursor: string(resp.NextCursor),
	}
	for _, sdkBlock := range resp.Results {
		var b Block
		if err := convert(sdkBlock, &b); err != nil {
			return nil, fmt.Errorf("list children of %s: %w", blockID, err)
		}
		list.Results = append(list.Results, &b)
	}
	return list, nil
}

// convert re-reads an SDK value through its wire form. Pages keep their raw
// property bags and blocks their type payloads this way.
func convert(from, to any) error {
	data, err := json.Marshal(from)
	if err != nil {
		return fmt.Errorf("encode %T: %w", from, err)
	}
	if err := json.Unmarshal(data, to); err != nil {
		return fmt.Errorf("decode %T: %w", to, err)
	}
	return nil
}
