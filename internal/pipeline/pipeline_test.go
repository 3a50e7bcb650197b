package pipeline_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/budgetwise/budgetwise/internal/document"
	"github.com/budgetwise/budgetwise/internal/domain"
	"github.com/budgetwise/budgetwise/internal/pipeline"
)

// fakeExtractor scripts per-window behavior and records every call so
// tests can assert which windows reached the oracle.
type fakeExtractor struct {
	fn    func(text string) ([]pipeline.RawRecord, error)
	calls []string
}

func (f *fakeExtractor) ExtractRecords(ctx context.Context, text string) ([]pipeline.RawRecord, error) {
	f.calls = append(f.calls, text)
	if f.fn != nil {
		return f.fn(text)
	}
	return nil, nil
}

func newTestProcessor(extractor pipeline.RecordExtractor) *pipeline.Processor {
	return pipeline.NewProcessor(
		extractor,
		domain.NewStatementPeriod(2025),
		pipeline.ProcessorConfig{},
		zerolog.Nop(),
	)
}

func record(date, desc string, amount float64, category string) pipeline.RawRecord {
	return pipeline.RawRecord{
		"date":        date,
		"description": desc,
		"amount":      amount,
		"category":    category,
	}
}

func TestProcess_NilDocument(t *testing.T) {
	p := newTestProcessor(&fakeExtractor{})
	_, err := p.Process(context.Background(), nil)
	if !errors.Is(err, pipeline.ErrNoDocument) {
		t.Errorf("err = %v, want ErrNoDocument", err)
	}
}

func TestProcess_EmptyDocumentIsSuccess(t *testing.T) {
	p := newTestProcessor(&fakeExtractor{})
	got, err := p.Process(context.Background(), &document.Document{})
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d transactions, want 0", len(got))
	}
}

// One window's oracle call failing must not fail the run; the other
// windows' records survive, in chunk order.
func TestProcess_WindowFailureIsNotFatal(t *testing.T) {
	extractor := &fakeExtractor{
		fn: func(text string) ([]pipeline.RawRecord, error) {
			switch {
			case strings.Contains(text, "BROKEN"):
				return nil, errors.New("oracle unavailable")
			case strings.Contains(text, "COFFEE"):
				return []pipeline.RawRecord{record("2025-01-03", "COFFEE BAR", 4.50, "Dining")}, nil
			case strings.Contains(text, "MARKET"):
				return []pipeline.RawRecord{record("2025-01-04", "MARKET GROCERY", 55.20, "Food")}, nil
			}
			return nil, nil
		},
	}

	doc := document.FromPages([]string{
		"01/03 COFFEE BAR 4.50",
		"01/03 BROKEN WINDOW",
		"01/04 MARKET GROCERY 55.20",
	})

	p := newTestProcessor(extractor)
	got, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}
	if got[0].Description != "COFFEE BAR" || got[1].Description != "MARKET GROCERY" {
		t.Errorf("transactions out of chunk order: %+v", got)
	}
}

func TestProcess_SkipsSummaryAndPaymentWindows(t *testing.T) {
	extractor := &fakeExtractor{}
	doc := document.FromPages([]string{
		"Spend Report\nTotal 2 1,000.00",
		"Your payments\nPAYMENT THANK YOU -500.00",
		"01/05 BOOKSTORE 20.00",
	})

	p := newTestProcessor(extractor)
	if _, err := p.Process(context.Background(), doc); err != nil {
		t.Fatalf("err = %v", err)
	}

	if len(extractor.calls) != 1 {
		t.Fatalf("oracle called %d times, want 1", len(extractor.calls))
	}
	if !strings.Contains(extractor.calls[0], "BOOKSTORE") {
		t.Errorf("oracle saw the wrong window: %q", extractor.calls[0])
	}
}

func TestProcess_DropsZeroValueRecords(t *testing.T) {
	extractor := &fakeExtractor{
		fn: func(text string) ([]pipeline.RawRecord, error) {
			return []pipeline.RawRecord{
				record("2025-01-03", "FEE WAIVED", 0, "Other"),
				record("2025-01-03", "LUNCH", 12.00, "Dining"),
			}, nil
		},
	}

	p := newTestProcessor(extractor)
	got, err := p.Process(context.Background(), document.FromPages([]string{"statement text"}))
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(got) != 1 || got[0].Description != "LUNCH" {
		t.Errorf("got %+v, want only LUNCH", got)
	}
}

// With a statement total on the page, the persisted sum must land within
// tolerance of it even when extraction missed line items.
func TestProcess_ReconciliationInvariant(t *testing.T) {
	extractor := &fakeExtractor{
		fn: func(text string) ([]pipeline.RawRecord, error) {
			if strings.Contains(text, "TRANSACTIONS") {
				return []pipeline.RawRecord{
					record("2025-01-03", "FLIGHTS", 600.00, "Transportation"),
					record("2025-01-04", "HOTEL", 400.00, "Entertainment"),
				}, nil
			}
			return nil, nil
		},
	}

	doc := document.FromPages([]string{
		"Spend Report\nTotal 3 1,050.00",
		"TRANSACTIONS\n...",
	})

	p := newTestProcessor(extractor)
	got, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d transactions, want 2 extracted + 1 balancing", len(got))
	}

	var sum float64
	for _, tx := range got {
		sum += tx.Amount
	}
	if math.Abs(sum-1050.00) > pipeline.ReconcileTolerance {
		t.Errorf("sum = %v, want within %v of 1050.00", sum, pipeline.ReconcileTolerance)
	}

	balancing := got[2]
	if balancing.Description != pipeline.BalancingDescription {
		t.Errorf("last transaction is not the balancing entry: %+v", balancing)
	}
	if balancing.Category != domain.CategoryTransportation {
		t.Errorf("balancing category = %q, want first-encountered majority Transportation", balancing.Category)
	}
}

func TestProcess_NoTotalMeansNoBalancingEntry(t *testing.T) {
	extractor := &fakeExtractor{
		fn: func(text string) ([]pipeline.RawRecord, error) {
			return []pipeline.RawRecord{record("2025-01-03", "DINNER", 80.00, "Dining")}, nil
		},
	}

	p := newTestProcessor(extractor)
	got, err := p.Process(context.Background(), document.FromPages([]string{"01/03 DINNER 80.00"}))
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d transactions, want 1 (no reconciliation without a total)", len(got))
	}
	for _, tx := range got {
		if tx.Description == pipeline.BalancingDescription {
			t.Error("balancing entry present without a statement total")
		}
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestProcessor(&fakeExtractor{})
	_, err := p.Process(ctx, document.FromPages([]string{"some text"}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
