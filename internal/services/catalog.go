// iTunes Search API [Catalog] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/shared"
	"golang.org/x/time/rate"
)

// ResultLimit is the fixed number of results requested per search.
const ResultLimit = 20

const (
	defaultCatalogURL = "https://itunes.apple.com/search"
	defaultTimeout    = 10 * time.Second
)

var _ Catalog = (*CatalogService)(nil)

// CatalogService implements [Catalog] for the iTunes Search API.
type CatalogService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// CatalogOpts configures a [CatalogService]. Zero values fall back to defaults.
type CatalogOpts struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	Burst             int
	HTTPClient        *http.Client
}

// CatalogOptsFromConfig builds [CatalogOpts] from the catalog section of the configuration.
func CatalogOptsFromConfig(c shared.CatalogConfig) CatalogOpts {
	return CatalogOpts{
		BaseURL:           c.Endpoint,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		RequestsPerMinute: c.RequestsPerMinute,
		Burst:             c.Burst,
	}
}

// NewCatalogService creates a new catalog client.
//
// A RequestsPerMinute of zero disables client-side throttling.
func NewCatalogService(opts CatalogOpts) *CatalogService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultCatalogURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		burst := max(opts.Burst, 1)
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), burst)
	}

	return &CatalogService{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		limiter:    limiter,
	}
}

// Name returns the catalog name.
func (c *CatalogService) Name() string {
	return "iTunes"
}

// SearchURL builds the request URL for a query.
func (c *CatalogService) SearchURL(q models.Query) string {
	params := url.Values{}
	params.Set("term", q.Term())
	params.Set("media", "music")
	params.Set("entity", q.Media.Entity())
	params.Set("limit", strconv.Itoa(ResultLimit))
	return c.baseURL + "?" + params.Encode()
}

// Search queries the catalog and returns normalized items in catalog order.
func (c *CatalogService) Search(ctx context.Context, q models.Query) ([]models.Item, error) {
	if q.Blank() {
		return nil, fmt.Errorf("%w: empty keyword", shared.ErrInvalidInput)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: catalog returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var body CatalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	if body.ResultCount == 0 || len(body.Results) == 0 {
		return nil, ErrNoResults
	}

	return NormalizeAll(body.Results), nil
}
