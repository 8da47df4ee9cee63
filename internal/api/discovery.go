package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// QueryParams holds optional query parameters; empty values are skipped.
type QueryParams map[string]string

// buildQuery appends query params to a path.
func buildQuery(path string, params QueryParams) string {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// Proxies lists the proxy servers announced on the discovery service.
func (c *Client) Proxies(ctx context.Context) ([]Proxy, error) {
	u := buildQuery(c.discoveryURL+"/api/services", QueryParams{"type": "proxy"})
	data, _, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]Proxy](data)
}
