package api

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Visors lists every visor connected to the hypervisor.
func (c *Client) Visors(ctx context.Context) ([]Visor, error) {
	data, err := c.get(ctx, "/api/visors")
	if err != nil {
		return nil, err
	}
	return decode[[]Visor](data)
}

// Visor retrieves the summary of one visor.
func (c *Client) Visor(ctx context.Context, pk string) (*Visor, error) {
	data, err := c.get(ctx, visorPath(pk))
	if err != nil {
		return nil, err
	}
	v, err := decode[Visor](data)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Snapshot fetches the summary, routes, transports and apps of a visor
// concurrently. The first failure cancels the other requests.
func (c *Client) Snapshot(ctx context.Context, pk string) (*Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := c.Visor(ctx, pk)
		if err != nil {
			return fmt.Errorf("visor: %w", err)
		}
		snap.Visor = *v
		return nil
	})
	g.Go(func() error {
		routes, err := c.Routes(ctx, pk)
		if err != nil {
			return fmt.Errorf("routes: %w", err)
		}
		snap.Routes = routes
		return nil
	})
	g.Go(func() error {
		tps, err := c.Transports(ctx, pk)
		if err != nil {
			return fmt.Errorf("transports: %w", err)
		}
		snap.Transports = tps
		return nil
	})
	g.Go(func() error {
		apps, err := c.Apps(ctx, pk)
		if err != nil {
			return fmt.Errorf("apps: %w", err)
		}
		snap.Apps = apps
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
