package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/autograph-kg/autograph/internal/model"
)

// ErrUnavailable marks an unreachable external source. Callers degrade to
// "not linked" instead of failing the document.
var ErrUnavailable = errors.New("external lookup unavailable")

// Result is one external lookup outcome. Found=false is a valid, cacheable
// answer.
type Result struct {
	Found  bool                 `json:"found"`
	Record *model.CatalogRecord `json:"record,omitempty"`
}

// Client is the external knowledge-base collaborator.
type Client interface {
	Lookup(ctx context.Context, text, entityType, domain string) (*Result, error)
}

// HTTPClient queries a JSON entity-search endpoint.
type HTTPClient struct {
	endpoint string
	http     *http.Client
}

func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	Entities []*model.CatalogRecord `json:"entities"`
}

func (c *HTTPClient) Lookup(ctx context.Context, text, entityType, domain string) (*Result, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("%w: no endpoint configured", ErrUnavailable)
	}

	q := url.Values{}
	q.Set("query", text)
	if entityType != "" {
		q.Set("type", entityType)
	}
	if domain != "" {
		q.Set("domain", domain)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	if len(sr.Entities) == 0 {
		return &Result{Found: false}, nil
	}
	rec := sr.Entities[0]
	rec.SourceCatalog = "external"
	return &Result{Found: true, Record: rec}, nil
}
