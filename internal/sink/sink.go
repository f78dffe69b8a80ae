package sink

import (
	"context"
	"errors"
	"sync"

	"datalayer/internal/datalayer"
)

// Sink receives records in the order they are pushed.
type Sink interface {
	Push(ctx context.Context, r datalayer.Record) error
}

// DataLayer collects records in memory, mirroring window.dataLayer.
type DataLayer struct {
	mu      sync.Mutex
	records []datalayer.Record
}

func NewDataLayer() *DataLayer {
	return &DataLayer{}
}

func (d *DataLayer) Push(_ context.Context, r datalayer.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, r)
	return nil
}

// Records returns a copy of everything pushed so far.
func (d *DataLayer) Records() []datalayer.Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]datalayer.Record, len(d.records))
	copy(out, d.records)
	return out
}

// Multi pushes to every sink in order and joins their errors.
type Multi []Sink

func (m Multi) Push(ctx context.Context, r datalayer.Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Push(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BestEffort forwards to s and reports failures to onErr instead of
// returning them.
func BestEffort(s Sink, onErr func(datalayer.Record, error)) Sink {
	return bestEffort{sink: s, onErr: onErr}
}

type bestEffort struct {
	sink  Sink
	onErr func(datalayer.Record, error)
}

func (b bestEffort) Push(ctx context.Context, r datalayer.Record) error {
	if err := b.sink.Push(ctx, r); err != nil {
		b.onErr(r, err)
	}
	return nil
}
