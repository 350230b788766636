// Package doi resolves DOIs to CSL-JSON metadata through doi.org content
// negotiation, and finds an abstract for them.
package doi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/litbib/internal/match"
	"github.com/matsen/litbib/internal/retry"
)

const (
	// BaseURL is the DOI resolver.
	BaseURL = "https://doi.org"

	// CSLMediaType is requested from the resolver.
	CSLMediaType = "application/vnd.citationstyles.csl+json"

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit paces requests to the resolver and the publisher sites
	// it redirects to.
	RateLimit = 2.0

	// UserAgent is sent with every request.
	UserAgent = "litbib"

	// maxBodySize bounds landing pages read for abstracts.
	maxBodySize = 4 << 20
)

var (
	errNotFound    = errors.New("DOI not found")
	errRateLimited = errors.New("rate limited")
	errServer      = errors.New("server error")
	errNetwork     = errors.New("network error")
)

// Client resolves DOIs. It satisfies the metadata resolver used by the
// reconciler.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	policy     retry.Policy
	scrape     bool
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom resolver URL (for testing).
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

// WithoutScraping disables the landing page fallback for abstracts.
func WithoutScraping() ClientOption {
	return func(c *Client) {
		c.scrape = false
	}
}

// WithMailto identifies the caller to doi.org and publishers with a
// contact address, as their usage policies ask.
func WithMailto(addr string) ClientOption {
	return func(c *Client) {
		if addr != "" {
			c.userAgent = UserAgent + " (mailto:" + addr + ")"
		}
	}
}

// NewClient creates a client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		policy:     retry.DefaultPolicy(),
		scrape:     true,
		userAgent:  UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func classify(err error) retry.Class {
	switch {
	case errors.Is(err, errRateLimited):
		return retry.RateLimited
	case errors.Is(err, errServer), errors.Is(err, errNetwork):
		return retry.Transient
	}
	return retry.Permanent
}

// Resolve fetches the CSL item for doi and fills in its abstract. The
// abstract comes from the item itself, then from the landing page, and
// otherwise is DefaultAbstract.
func (c *Client) Resolve(ctx context.Context, doi string) Result {
	doi = match.NormalizeDOI(doi)
	if doi == "" {
		return Result{Status: StatusMalformed, Err: fmt.Errorf("%w: empty DOI", ErrMalformed)}
	}

	var item Item
	err := c.fetch(ctx, doi, CSLMediaType, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(&item); err != nil {
			return fmt.Errorf("%w: decoding CSL: %v", ErrMalformed, err)
		}
		return nil
	})
	switch {
	case errors.Is(err, errNotFound):
		return Result{Status: StatusNotFound, Err: err}
	case errors.Is(err, ErrMalformed):
		return Result{Status: StatusMalformed, Err: err}
	case err != nil:
		return Result{Status: StatusFailed, Err: err}
	}
	if err := item.Validate(); err != nil {
		return Result{Status: StatusMalformed, Item: &item, Err: err}
	}

	item.Abstract = CleanAbstract(item.Abstract)
	if item.Abstract == "" && c.scrape {
		item.Abstract = c.scrapeAbstract(ctx, doi)
	}
	if item.Abstract == "" {
		item.Abstract = DefaultAbstract
	}
	return Result{Status: StatusFound, Item: &item}
}

// fetch GETs the resolver URL for doi with the given Accept header and
// hands the body to decode. Requests are paced and retried.
func (c *Client) fetch(ctx context.Context, doi, accept string, decode func(io.Reader) error) error {
	endpoint := c.baseURL + "/" + doi
	return retry.Do(ctx, c.policy, classify, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", accept)
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", errNetwork, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", errNotFound, doi)
		case resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: status %d", errRateLimited, resp.StatusCode)
		case resp.StatusCode >= 500:
			return fmt.Errorf("%w: status %d", errServer, resp.StatusCode)
		case resp.StatusCode >= 400:
			return fmt.Errorf("resolving %s: status %d", doi, resp.StatusCode)
		}
		return decode(io.LimitReader(resp.Body, maxBodySize))
	})
}
