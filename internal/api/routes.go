package api

import (
	"context"
	"strconv"
)

// Routes lists the routing rules of a visor.
func (c *Client) Routes(ctx context.Context, pk string) ([]Route, error) {
	data, err := c.get(ctx, visorPath(pk, "routes"))
	if err != nil {
		return nil, err
	}
	return decode[[]Route](data)
}

// Route retrieves a routing rule by key.
func (c *Client) Route(ctx context.Context, pk string, key int) (*Route, error) {
	data, err := c.get(ctx, visorPath(pk, "routes", strconv.Itoa(key)))
	if err != nil {
		return nil, err
	}
	r, err := decode[Route](data)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRoute removes a routing rule.
func (c *Client) DeleteRoute(ctx context.Context, pk string, key int) error {
	return c.del(ctx, visorPath(pk, "routes", strconv.Itoa(key)))
}
