package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/komsit37/gainers/pkg/gainers/present"
	"github.com/komsit37/gainers/pkg/gainers/quotes"
	"github.com/komsit37/gainers/pkg/gainers/render"
	"github.com/komsit37/gainers/pkg/gainers/types"
	"github.com/komsit37/gainers/pkg/gainers/workflow"
)

type fakeSource []types.Symbol

func (s fakeSource) Load(context.Context) ([]types.Symbol, error) { return s, nil }

type fakeQuotes map[string]types.Quote

func (q fakeQuotes) Quote(_ context.Context, sym string) (types.Quote, error) {
	if v, ok := q[sym]; ok {
		return v, nil
	}
	return types.Quote{}, fmt.Errorf("%w: status 404", types.ErrTransport)
}

type noLogos struct{}

func (noLogos) LogoURL(context.Context, string) (types.LogoReference, error) {
	return types.LogoReference{URL: "https://img.example/x.png"}, nil
}

func (noLogos) Image(context.Context, string) ([]byte, error) { return []byte("nope"), nil }

type blockingQuotes struct{}

func (blockingQuotes) Quote(ctx context.Context, _ string) (types.Quote, error) {
	<-ctx.Done()
	return types.Quote{}, ctx.Err()
}

func newWorkflow(q quotes.QuoteService, opts workflow.Options) *workflow.Workflow {
	opts.Format = present.Shortest
	return workflow.New(context.Background(), workflow.Deps{
		Source: fakeSource{
			{Ticker: "AAA", CompanyName: "Alpha Co"},
			{Ticker: "BBB", CompanyName: "Beta Inc"},
		},
		Quotes: q,
		Logos:  noLogos{},
	}, opts)
}

var known = fakeQuotes{
	"AAA":  {CompanyName: "Alpha Co", Symbol: "AAA", LatestPrice: 10.5, Change: -0.5},
	"BBB":  {CompanyName: "Beta Inc", Symbol: "BBB", LatestPrice: 12, Change: 0.75},
	"KOSS": {CompanyName: "Koss Corp", Symbol: "KOSS", LatestPrice: 3.2, Change: 0.1},
}

func TestExecute_SelectsIndex(t *testing.T) {
	var buf bytes.Buffer
	r := &Runner{Workflow: newWorkflow(known, workflow.Options{}), Renderer: render.NewTableRenderer(), Writer: &buf}
	if err := r.Execute(context.Background(), ExecuteOptions{Index: 1}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Beta Inc") || !strings.Contains(out, "12.0") {
		t.Errorf("output:\n%s", out)
	}
}

func TestExecute_DefaultSymbol(t *testing.T) {
	var buf bytes.Buffer
	w := newWorkflow(known, workflow.Options{DefaultSymbol: "AAA"})
	r := &Runner{Workflow: w, Renderer: render.NewSymsRenderer(), Writer: &buf}
	if err := r.Execute(context.Background(), ExecuteOptions{Index: -1}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if buf.String() != "AAA\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestExecute_List(t *testing.T) {
	var buf bytes.Buffer
	r := &Runner{Workflow: newWorkflow(known, workflow.Options{}), Renderer: render.NewSymsRenderer(), Writer: &buf}
	if err := r.Execute(context.Background(), ExecuteOptions{Index: -1, List: true}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if buf.String() != "AAA,BBB\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestExecute_AlertError(t *testing.T) {
	var buf bytes.Buffer
	w := newWorkflow(fakeQuotes{}, workflow.Options{})
	r := &Runner{Workflow: w, Renderer: render.NewTableRenderer(), Writer: &buf}
	err := r.Execute(context.Background(), ExecuteOptions{Index: -1})
	var ae *AlertError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v; want *AlertError", err)
	}
	if ae.Alert.Message != workflow.MsgNoConnection {
		t.Errorf("alert = %+v", ae.Alert)
	}
	if !strings.Contains(buf.String(), workflow.MsgNoConnection) {
		t.Errorf("alert not rendered:\n%s", buf.String())
	}
}

func TestDrive_ContextDeadline(t *testing.T) {
	w := newWorkflow(blockingQuotes{}, workflow.Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := Drive(ctx, w, w.Start()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Drive = %v; want deadline exceeded", err)
	}
}
