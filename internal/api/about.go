package api

import "context"

// About calls /api/about and returns the hypervisor identity.
func (c *Client) About(ctx context.Context) (*About, error) {
	data, err := c.get(ctx, "/api/about")
	if err != nil {
		return nil, err
	}
	about, err := decode[About](data)
	if err != nil {
		return nil, err
	}
	return &about, nil
}

// Ping checks that the hypervisor answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/api/about")
	return err
}
