// Package pipeline runs the workflow without a screen: it drives Cmds to
// completion and renders the final snapshot once.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/komsit37/gainers/pkg/gainers/render"
	"github.com/komsit37/gainers/pkg/gainers/types"
	"github.com/komsit37/gainers/pkg/gainers/workflow"
)

// Drive runs cmds and every follow-up Cmd they produce until none are left.
// Update is only called from the calling goroutine.
func Drive(ctx context.Context, w *workflow.Workflow, cmds []workflow.Cmd) error {
	msgs := make(chan workflow.Msg)
	pending := 0
	launch := func(cs []workflow.Cmd) {
		for _, c := range cs {
			if c == nil {
				continue
			}
			pending++
			go func(c workflow.Cmd) {
				m := c()
				select {
				case msgs <- m:
				case <-ctx.Done():
				}
			}(c)
		}
	}
	launch(cmds)
	for pending > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-msgs:
			pending--
			launch(w.Update(m))
		}
	}
	return nil
}

// AlertError is returned when the final snapshot carries an alert.
type AlertError struct {
	Alert types.Alert
}

func (e *AlertError) Error() string {
	return fmt.Sprintf("%s: %s", e.Alert.Title, e.Alert.Message)
}

type Runner struct {
	Workflow *workflow.Workflow
	Renderer render.Renderer
	Writer   io.Writer
}

type ExecuteOptions struct {
	// Index selects a company after the list loads; negative keeps the start-up symbol.
	Index       int
	List        bool
	Columns     []string
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
}

func (r *Runner) Execute(ctx context.Context, opts ExecuteOptions) error {
	w := r.Workflow
	if err := Drive(ctx, w, w.Start()); err != nil {
		return err
	}
	if opts.Index >= 0 && !opts.List {
		if err := Drive(ctx, w, w.Select(opts.Index)); err != nil {
			return err
		}
	}

	snap := render.Snapshot{
		Symbols:   w.Symbols(),
		Selection: w.Selection(),
		State:     w.Presentation(),
	}
	err := r.Renderer.Render(r.Writer, snap, render.RenderOptions{
		Columns:     opts.Columns,
		Color:       opts.Color,
		PrettyJSON:  opts.PrettyJSON,
		MaxColWidth: opts.MaxColWidth,
		List:        opts.List,
	})
	if err != nil {
		return err
	}
	if a := snap.State.Alert; a != nil {
		return &AlertError{Alert: *a}
	}
	return nil
}
