// Package guardtour implements the GuardTourClient port against the remote
// guard-tour REST service.
package guardtour

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/legitsystems/askari-relay/internal/domain/model"
	"github.com/legitsystems/askari-relay/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GuardTourClient = (*Client)(nil)

// DefaultTimeout bounds every outbound request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Client implements the driven.GuardTourClient port over plain HTTP with the
// following transport stack:
//  1. httpcache (ETag-based conditional request caching; the site collection
//     is re-fetched on every name lookup and benefits the most)
//  2. net/http with a fixed request timeout
//
// Authenticated requests obtain their bearer token from a TokenSource, so
// static-token and refresh-on-expiry deployments share one client.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewStaticClient creates a Client that presents the same fixed bearer token
// on every authenticated request.
func NewStaticClient(baseURL, token string, timeout time.Duration) *Client {
	c := newClient(baseURL, timeout)
	c.tokens = StaticToken(token)
	return c
}

// NewRefreshClient creates a Client that signs in with username/password
// whenever the cached token in store is expired, persisting each fresh token
// back to the store.
func NewRefreshClient(baseURL, username, password string, store driven.TokenStore, timeout time.Duration) *Client {
	c := newClient(baseURL, timeout)
	c.tokens = &refreshSource{
		client:   c,
		store:    store,
		username: username,
		password: password,
	}
	return c
}

func newClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: httpcache.NewMemoryCacheTransport(),
		},
	}
}

// ListSites returns the full site collection.
func (c *Client) ListSites(ctx context.Context) ([]model.Site, error) {
	var envelope struct {
		Data []siteJSON `json:"data"`
	}
	if err := c.get(ctx, "/sites", nil, true, &envelope); err != nil {
		return nil, err
	}

	sites := make([]model.Site, 0, len(envelope.Data))
	for _, s := range envelope.Data {
		sites = append(sites, mapSite(s))
	}
	return sites, nil
}

// GetSite returns detailed information for a single site.
func (c *Client) GetSite(ctx context.Context, id int64) (*model.Site, error) {
	var envelope struct {
		Data siteJSON `json:"data"`
	}
	if err := c.get(ctx, "/sites/"+strconv.FormatInt(id, 10), nil, true, &envelope); err != nil {
		return nil, err
	}

	site := mapSite(envelope.Data)
	return &site, nil
}

// ListPatrols returns patrols for a site, most recent first as ordered by
// the service. A non-nil since adds an inclusive lower-bound date filter.
func (c *Client) ListPatrols(ctx context.Context, siteID int64, since *time.Time) ([]model.Patrol, error) {
	query := url.Values{}
	if since != nil {
		query.Set("filter.date", "$gte:"+since.UTC().Format(time.RFC3339))
	}

	var envelope struct {
		Data []patrolJSON `json:"data"`
	}
	path := "/sites/" + strconv.FormatInt(siteID, 10) + "/patrols"
	if err := c.get(ctx, path, query, true, &envelope); err != nil {
		return nil, err
	}

	patrols := make([]model.Patrol, 0, len(envelope.Data))
	for _, p := range envelope.Data {
		patrols = append(patrols, mapPatrol(p))
	}
	return patrols, nil
}

// DayPerformance returns the performance summary for one calendar day.
func (c *Client) DayPerformance(ctx context.Context, siteID int64, year, month, day int) (*model.Performance, error) {
	path := fmt.Sprintf("/sites/%d/%d/%d/%d/performance", siteID, year, month, day)
	return c.performance(ctx, path)
}

// MonthPerformance returns the performance summary for one calendar month.
func (c *Client) MonthPerformance(ctx context.Context, siteID int64, year, month int) (*model.Performance, error) {
	path := fmt.Sprintf("/sites/%d/%d/%d/performance", siteID, year, month)
	return c.performance(ctx, path)
}

func (c *Client) performance(ctx context.Context, path string) (*model.Performance, error) {
	var envelope struct {
		Data performanceJSON `json:"data"`
	}
	if err := c.get(ctx, path, nil, true, &envelope); err != nil {
		return nil, err
	}

	perf := mapPerformance(envelope.Data)
	return &perf, nil
}

// ListGuards returns security guards matching the server-side search term.
// The guards endpoint returns a bare array, unlike the data-wrapped site
// endpoints.
func (c *Client) ListGuards(ctx context.Context, search string, limit int) ([]model.Guard, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var payload []guardJSON
	if err := c.get(ctx, "/users/security-guards", query, true, &payload); err != nil {
		return nil, err
	}

	guards := make([]model.Guard, 0, len(payload))
	for _, g := range payload {
		guards = append(guards, mapGuard(g))
	}
	return guards, nil
}

// Stats returns deployment-wide aggregate counts.
func (c *Client) Stats(ctx context.Context) (*model.SystemStats, error) {
	var payload statsJSON
	if err := c.get(ctx, "/stats", nil, true, &payload); err != nil {
		return nil, err
	}

	stats := mapStats(payload)
	return &stats, nil
}

// Ping issues a lightweight authenticated probe against the stats endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var payload statsJSON
	return c.get(ctx, "/stats", nil, true, &payload)
}
