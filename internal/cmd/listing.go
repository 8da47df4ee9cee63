package cmd

import (
	"context"
	"fmt"

	"github.com/skyfleet/skymanager/internal/bulk"
	"github.com/skyfleet/skymanager/internal/listview"
	"github.com/skyfleet/skymanager/internal/lists"
	"github.com/skyfleet/skymanager/internal/prompt"
)

func pipelineFor[T any, K comparable](e *env, view lists.View[T, K]) *listview.Pipeline[T, K] {
	return view.Pipeline(listview.WithSortStore(e.sorts), listview.WithPageSizes(e.pageSizes()))
}

func printList[T any, K comparable](e *env, f *listFlags, view lists.View[T, K], items []T) error {
	p := pipelineFor(e, view)
	if err := applyList(f, p, items); err != nil {
		return err
	}
	if p.Len() == 0 {
		fmt.Fprintf(e.out, "no %s found\n", view.Kind)
		return nil
	}
	page := p.Page()
	if err := writeTable(e.out, view.Headers, view.Rows(page.Items)); err != nil {
		return err
	}
	writePageFooter(e.out, page, p.Len(), p.Sort())
	return nil
}

// pageKeys selects every row of the requested page and returns the ids in
// display order.
func pageKeys[T any, K comparable](e *env, f *listFlags, view lists.View[T, K], items []T) ([]K, error) {
	p := pipelineFor(e, view)
	if err := applyList(f, p, items); err != nil {
		return nil, err
	}
	sel := p.Selection()
	sel.SetAll(true)
	return sel.Selected(), nil
}

type deleteOptions struct {
	assumeYes       bool
	continueOnError bool
}

// deleteAll confirms, then deletes ids one by one and prints a per-item
// report.
func deleteAll[K comparable](ctx context.Context, e *env, confirm prompt.Confirmer, opts deleteOptions, noun string, ids []K, format func(K) string, del bulk.DeleteFunc[K]) error {
	if len(ids) == 0 {
		fmt.Fprintf(e.out, "no %s to delete\n", noun)
		return nil
	}

	title := fmt.Sprintf("Delete %d %s?", len(ids), noun)
	if len(ids) == 1 {
		title = fmt.Sprintf("Delete %s %s?", singular(noun), format(ids[0]))
	}
	ok, err := confirm.Confirm(ctx, prompt.Request{
		Title:       title,
		Affirmative: "Delete",
		Negative:    "Cancel",
	})
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		fmt.Fprintln(e.out, "canceled")
		return nil
	}

	policy := bulk.PolicyFor(e.cfg.ContinueOnError || opts.continueOnError)
	report := bulk.Run(ctx, ids, del, bulk.Options[K]{
		Policy: policy,
		Logger: e.logger,
		OnProgress: func(done, total int, res bulk.Result[K]) {
			if res.Err != nil {
				fmt.Fprintf(e.out, "[%d/%d] %s %s: %v\n", done, total, res.Outcome, format(res.ID), res.Err)
				return
			}
			fmt.Fprintf(e.out, "[%d/%d] %s %s\n", done, total, res.Outcome, format(res.ID))
		},
	})

	fmt.Fprintf(e.out, "%d deleted, %d failed, %d skipped\n",
		len(report.Deleted()), len(report.Failed()), len(report.Skipped()))
	if err := report.Err(); err != nil {
		return fmt.Errorf("delete %s: %w", noun, err)
	}
	return nil
}

func singular(noun string) string {
	if len(noun) > 1 && noun[len(noun)-1] == 's' {
		return noun[:len(noun)-1]
	}
	return noun
}
