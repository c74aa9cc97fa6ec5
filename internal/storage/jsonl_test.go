package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"gdaSwap/internal/model"
)

func TestJsonlStorageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "outcomes.jsonl")
	sink := NewJsonlStorage(path)

	records := []model.OutcomeRecord{
		{ChainID: 8453, Operation: model.OperationSwap, Status: "pending", Side: "unit_in", Amount: "5", RecordedAt: "2024-01-01T00:00:00Z"},
		{ChainID: 8453, Operation: model.OperationSwap, Status: "accepted", TxHash: "0xabc", RecordedAt: "2024-01-01T00:00:01Z"},
	}
	for _, record := range records {
		if err := sink.PutOutcome(context.Background(), record); err != nil {
			t.Fatalf("put outcome: %v", err)
		}
	}

	got, err := ReadOutcomes(path)
	if err != nil {
		t.Fatalf("read outcomes: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("records mismatch: %+v != %+v", got, records)
	}
}

type failingSink struct{ err error }

func (f failingSink) PutOutcome(context.Context, model.OutcomeRecord) error { return f.err }

type countingSink struct{ n int }

func (c *countingSink) PutOutcome(context.Context, model.OutcomeRecord) error {
	c.n++
	return nil
}

func TestMultiContinuesPastErrors(t *testing.T) {
	want := errors.New("disk full")
	counter := &countingSink{}
	multi := Multi{failingSink{err: want}, nil, counter, Nop{}}

	err := multi.PutOutcome(context.Background(), model.OutcomeRecord{})
	if !errors.Is(err, want) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if counter.n != 1 {
		t.Fatalf("later sinks should still receive the record")
	}
}
