// Package bulk runs deletions one item at a time and reports per-item results.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Policy decides what happens to the queue after a failed item.
type Policy int

const (
	// Halt stops at the first failure; the rest of the queue is skipped.
	Halt Policy = iota
	// Continue attempts every queued item.
	Continue
)

func (p Policy) String() string {
	if p == Continue {
		return "continue"
	}
	return "halt"
}

// PolicyFor maps the continue_on_error setting to a Policy.
func PolicyFor(continueOnError bool) Policy {
	if continueOnError {
		return Continue
	}
	return Halt
}

// Outcome is what happened to one queued item.
type Outcome int

const (
	Done Outcome = iota
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Done:
		return "deleted"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

// Result is the outcome for a single id.
type Result[K comparable] struct {
	ID      K
	Outcome Outcome
	Err     error
}

// Report holds one Result per queued id, in queue order.
type Report[K comparable] struct {
	Results  []Result[K]
	Canceled bool
	// CtxErr is the context error that stopped a canceled run.
	CtxErr error
}

func (r Report[K]) ids(o Outcome) []K {
	var out []K
	for _, res := range r.Results {
		if res.Outcome == o {
			out = append(out, res.ID)
		}
	}
	return out
}

// Deleted returns the ids that were removed.
func (r Report[K]) Deleted() []K { return r.ids(Done) }

// Failed returns the ids whose delete call returned an error.
func (r Report[K]) Failed() []K { return r.ids(Failed) }

// Skipped returns the ids that were never attempted.
func (r Report[K]) Skipped() []K { return r.ids(Skipped) }

// OK reports whether every queued id was deleted.
func (r Report[K]) OK() bool {
	return !r.Canceled && len(r.Deleted()) == len(r.Results)
}

// Err joins the per-item failures, plus the context error when canceled.
func (r Report[K]) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Outcome == Failed {
			errs = append(errs, fmt.Errorf("%v: %w", res.ID, res.Err))
		}
	}
	if r.Canceled {
		errs = append(errs, r.CtxErr)
	}
	return errors.Join(errs...)
}

// Options configures Run.
type Options[K comparable] struct {
	Policy Policy
	// OnProgress is called after each attempted item.
	OnProgress func(done, total int, res Result[K])
	Logger     *log.Logger
}

// DeleteFunc removes one item.
type DeleteFunc[K comparable] func(ctx context.Context, id K) error

// Run deletes ids sequentially. Each call completes before the next starts.
// ctx is checked between items; a canceled run marks the rest as skipped.
func Run[K comparable](ctx context.Context, ids []K, del DeleteFunc[K], opts Options[K]) Report[K] {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	report := Report[K]{Results: make([]Result[K], 0, len(ids))}
	skipRest := func(from int) {
		for _, id := range ids[from:] {
			report.Results = append(report.Results, Result[K]{ID: id, Outcome: Skipped})
		}
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			report.Canceled = true
			report.CtxErr = err
			logger.Warn("bulk delete canceled", "remaining", len(ids)-i)
			skipRest(i)
			break
		}

		res := Result[K]{ID: id, Outcome: Done}
		if err := del(ctx, id); err != nil {
			res.Outcome = Failed
			res.Err = err
			logger.Error("delete failed", "id", id, "error", err)
		} else {
			logger.Info("deleted", "id", id)
		}
		report.Results = append(report.Results, res)
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(ids), res)
		}

		if res.Outcome == Failed && opts.Policy == Halt {
			skipRest(i + 1)
			break
		}
	}
	return report
}
