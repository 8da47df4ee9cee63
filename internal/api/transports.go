package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Transports lists the transports of a visor.
func (c *Client) Transports(ctx context.Context, pk string) ([]Transport, error) {
	data, err := c.get(ctx, visorPath(pk, "transports"))
	if err != nil {
		return nil, err
	}
	return decode[[]Transport](data)
}

// Transport retrieves a transport by id.
func (c *Client) Transport(ctx context.Context, pk, id string) (*Transport, error) {
	tid, err := parseTransportID(id)
	if err != nil {
		return nil, err
	}
	data, err := c.get(ctx, visorPath(pk, "transports", tid))
	if err != nil {
		return nil, err
	}
	tp, err := decode[Transport](data)
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

// TransportTypes lists the transport types the visor can create.
func (c *Client) TransportTypes(ctx context.Context, pk string) ([]string, error) {
	data, err := c.get(ctx, visorPath(pk, "transport-types"))
	if err != nil {
		return nil, err
	}
	return decode[[]string](data)
}

// CreateTransport opens a transport to a remote visor.
func (c *Client) CreateTransport(ctx context.Context, pk string, input CreateTransportInput) (*Transport, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	data, err := c.post(ctx, visorPath(pk, "transports"), input)
	if err != nil {
		return nil, err
	}
	tp, err := decode[Transport](data)
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

// DeleteTransport closes a transport.
func (c *Client) DeleteTransport(ctx context.Context, pk, id string) error {
	tid, err := parseTransportID(id)
	if err != nil {
		return err
	}
	return c.del(ctx, visorPath(pk, "transports", tid))
}

func parseTransportID(id string) (string, error) {
	tid, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid transport id %q: %w", id, err)
	}
	return tid.String(), nil
}
