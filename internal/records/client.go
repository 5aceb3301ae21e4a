// Package records provides a client for the low-code record-store REST API
// (tables of jobs, candidates and interviews).
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultPageSize is the number of records requested per page.
const DefaultPageSize = 100

// maxErrorBody caps how much of a failed response body is kept on Error.
const maxErrorBody = 2048

// Error represents a failed call against the record store.
type Error struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("records %s %s: %v", e.Op, e.URL, e.Cause)
	}
	return fmt.Sprintf("records %s %s: HTTP status %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. http://host:8080/api/v2.
	BaseURL string
	// FileBaseURL is prepended to attachment paths. Defaults to the scheme
	// and host of BaseURL.
	FileBaseURL string
	Token       string
	Timeout     time.Duration
	PageSize    int
	HTTPClient  *http.Client
}

// Query narrows a List call.
type Query struct {
	Where string
}

// Client talks to the record store. It is safe for concurrent use.
type Client struct {
	baseURL     string
	fileBaseURL string
	token       string
	pageSize    int
	http        *http.Client
}

// NewClient creates a client from opts.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid record store URL %q", opts.BaseURL)
	}

	fileBase := strings.TrimRight(opts.FileBaseURL, "/")
	if fileBase == "" {
		fileBase = parsed.Scheme + "://" + parsed.Host
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Client{
		baseURL:     base,
		fileBaseURL: fileBase,
		token:       opts.Token,
		pageSize:    pageSize,
		http:        httpClient,
	}, nil
}

type listResponse struct {
	List     []Record `json:"list"`
	PageInfo struct {
		TotalRows int `json:"totalRows"`
	} `json:"pageInfo"`
}

// List fetches every record of a table, following limit/offset pagination
// until a page comes back empty or pageInfo.totalRows records were read.
func (c *Client) List(ctx context.Context, tableID string, q *Query) ([]Record, error) {
	endpoint := c.recordsURL(tableID)

	var all []Record
	total := -1
	offset := 0

	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(c.pageSize))
		params.Set("shuffle", "0")
		params.Set("offset", strconv.Itoa(offset))
		if q != nil && q.Where != "" {
			params.Set("where", q.Where)
		}

		var page listResponse
		if err := c.do(ctx, "list", http.MethodGet, endpoint+"?"+params.Encode(), nil, &page, http.StatusOK); err != nil {
			return nil, err
		}

		all = append(all, page.List...)
		if total < 0 {
			total = page.PageInfo.TotalRows
		}
		if len(page.List) == 0 || len(all) >= total {
			break
		}
		offset += len(page.List)
	}

	return all, nil
}

// Find returns the first record matching where, or nil when none match.
func (c *Client) Find(ctx context.Context, tableID, where string) (Record, error) {
	recs, err := c.List(ctx, tableID, &Query{Where: where})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// Get reads a single record by id.
func (c *Client) Get(ctx context.Context, tableID string, id int) (Record, error) {
	var rec Record
	endpoint := fmt.Sprintf("%s/%d", c.recordsURL(tableID), id)
	if err := c.do(ctx, "get", http.MethodGet, endpoint, nil, &rec, http.StatusOK); err != nil {
		return nil, err
	}
	return rec, nil
}

// Create inserts a record and returns the store's response, which carries
// the generated "Id".
func (c *Client) Create(ctx context.Context, tableID string, fields Record) (Record, error) {
	var created Record
	if err := c.do(ctx, "create", http.MethodPost, c.recordsURL(tableID), fields, &created,
		http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return created, nil
}

// Update patches the record whose "Id" is set in fields.
func (c *Client) Update(ctx context.Context, tableID string, fields Record) error {
	if _, ok := fields.Int(IDField); !ok {
		return fmt.Errorf("update requires an Id field")
	}
	return c.do(ctx, "update", http.MethodPatch, c.recordsURL(tableID), fields, nil, http.StatusOK)
}

// Link attaches relatedIDs to recordID through the relation field linkField.
// Both 200 and 201 count as success.
func (c *Client) Link(ctx context.Context, tableID, linkField string, recordID int, relatedIDs ...int) error {
	if recordID == 0 || len(relatedIDs) == 0 {
		return fmt.Errorf("link requires a record id and at least one related id")
	}
	payload := make([]Record, 0, len(relatedIDs))
	for _, id := range relatedIDs {
		payload = append(payload, Record{IDField: id})
	}
	endpoint := fmt.Sprintf("%s/tables/%s/links/%s/records/%d", c.baseURL, tableID, linkField, recordID)
	return c.do(ctx, "link", http.MethodPost, endpoint, payload, nil, http.StatusOK, http.StatusCreated)
}

// Download fetches an attachment by its store-relative path.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	endpoint := c.fileBaseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Op: "download", URL: endpoint, Cause: err}
	}
	req.Header.Set("xc-token", c.token)
	req.Header.Set("accept", "*/*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Op: "download", URL: endpoint, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: "download", URL: endpoint, Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: "download", URL: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(data))}
	}
	return data, nil
}

func (c *Client) recordsURL(tableID string) string {
	return fmt.Sprintf("%s/tables/%s/records", c.baseURL, tableID)
}

// do executes one JSON request and decodes the response into out when out
// is non-nil. Any status outside ok is returned as *Error.
func (c *Client) do(ctx context.Context, op, method, endpoint string, body, out any, ok ...int) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, URL: endpoint, Cause: fmt.Errorf("failed to encode body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Error{Op: op, URL: endpoint, Cause: err}
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("xc-token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, URL: endpoint, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, URL: endpoint, Cause: fmt.Errorf("failed to read response body: %w", err)}
	}

	if !statusIn(resp.StatusCode, ok) {
		return &Error{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(data))}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Cause: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

func statusIn(code int, ok []int) bool {
	for _, c := range ok {
		if code == c {
			return true
		}
	}
	return false
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
