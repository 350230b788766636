// Package s2 is a client for the Semantic Scholar Graph API. It is the
// candidate source for discovery and the citation-count source for
// enrichment.
package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/litbib/internal/retry"
)

const (
	// BaseURL is the Graph API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is one request per second, the limit for keyed access.
	RateLimit = 1.0

	// AuthorPaperFields are requested for discovery.
	AuthorPaperFields = "year,title,authors,externalIds,citationCount,publicationTypes,journal"

	// CitationFields are requested for citation counts.
	CitationFields = "citationCount,externalIds"

	// AuthorPapersPageSize is the largest page the API serves.
	AuthorPapersPageSize = 500
)

// Client is a rate-limited Graph API client. Every request is retried
// according to its retry policy.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	policy     retry.Policy
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key sent in the x-api-key header.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithRetryPolicy replaces retry.DefaultPolicy.
func WithRetryPolicy(p retry.Policy) ClientOption {
	return func(c *Client) {
		c.policy = p
	}
}

// WithRateLimit sets the request rate. rate.Inf disables pacing.
func WithRateLimit(r rate.Limit) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(r, 1)
	}
}

// NewClient creates a client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		policy:     retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// classify maps client errors onto retry classes.
func classify(err error) retry.Class {
	switch {
	case IsRateLimited(err):
		return retry.RateLimited
	case IsTransient(err):
		return retry.Transient
	}
	return retry.Permanent
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, id string) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Message: string(body), ID: id}
	}
	return nil
}

// get fetches path with query and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, id string, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	return retry.Do(ctx, c.policy, classify, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", ErrNetworkError, err)
		}
		defer resp.Body.Close()

		if err := checkHTTPErrors(resp, id); err != nil {
			return err
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		return nil
	})
}

// AuthorPapers returns every paper of an author, following pagination.
func (c *Client) AuthorPapers(ctx context.Context, authorID string) ([]Paper, error) {
	var papers []Paper
	offset := 0
	for {
		q := url.Values{}
		q.Set("fields", AuthorPaperFields)
		q.Set("limit", strconv.Itoa(AuthorPapersPageSize))
		if offset > 0 {
			q.Set("offset", strconv.Itoa(offset))
		}

		var page papersPage
		path := "/author/" + url.PathEscape(authorID) + "/papers"
		if err := c.get(ctx, path, q, authorID, &page); err != nil {
			return nil, fmt.Errorf("fetching papers of author %s: %w", authorID, err)
		}
		papers = append(papers, page.Data...)

		if page.Next == nil || *page.Next <= offset || len(page.Data) == 0 {
			return papers, nil
		}
		offset = *page.Next
	}
}

// Paper fetches one paper. id may be a raw paper id or a prefixed
// external id such as DOI:10.1/abc.
func (c *Client) Paper(ctx context.Context, id string, fields string) (*Paper, error) {
	q := url.Values{}
	if fields != "" {
		q.Set("fields", fields)
	}
	var p Paper
	if err := c.get(ctx, "/paper/"+id, q, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CitationCount returns the citation count of one paper.
func (c *Client) CitationCount(ctx context.Context, id string) (int, error) {
	p, err := c.Paper(ctx, id, CitationFields)
	if err != nil {
		return 0, err
	}
	return p.CitationCount, nil
}
