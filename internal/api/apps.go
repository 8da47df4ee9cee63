package api

import (
	"context"
	"time"
)

// Apps lists the apps of a visor.
func (c *Client) Apps(ctx context.Context, pk string) ([]App, error) {
	data, err := c.get(ctx, visorPath(pk, "apps"))
	if err != nil {
		return nil, err
	}
	return decode[[]App](data)
}

// UpdateApp changes the status, autostart flag or server key of an app.
func (c *Client) UpdateApp(ctx context.Context, pk, name string, input UpdateAppInput) (*App, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	data, err := c.put(ctx, visorPath(pk, "apps", name), input)
	if err != nil {
		return nil, err
	}
	app, err := decode[App](data)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// SetAppRunning starts or stops an app.
func (c *Client) SetAppRunning(ctx context.Context, pk, name string, running bool) (*App, error) {
	status := AppStopped
	if running {
		status = AppRunning
	}
	return c.UpdateApp(ctx, pk, name, UpdateAppInput{Status: &status})
}

// AppLogs returns the log lines of an app written after since. A zero since
// returns everything.
func (c *Client) AppLogs(ctx context.Context, pk, name string, since time.Time) ([]string, error) {
	path := visorPath(pk, "apps", name, "logs")
	if !since.IsZero() {
		path = buildQuery(path, QueryParams{"since": since.UTC().Format(time.RFC3339)})
	}
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	logs, err := decode[AppLogs](data)
	if err != nil {
		return nil, err
	}
	return logs.Logs, nil
}
