// Package testutil provides deterministic test doubles shared across
// package tests.
package testutil

import (
	"context"

	"github.com/roach88/simtab/internal/source"
	"github.com/roach88/simtab/internal/table"
)

// RecordingSource wraps a Source and records every Fetch call, so tests
// can assert exactly which raw columns a resolution required.
type RecordingSource struct {
	Inner source.Source

	// Fetches holds the name list of each Fetch call, in call order.
	Fetches [][]string
}

// NewRecordingSource wraps src.
func NewRecordingSource(src source.Source) *RecordingSource {
	return &RecordingSource{Inner: src}
}

// ValidNames delegates to the wrapped source.
func (r *RecordingSource) ValidNames() []string {
	return r.Inner.ValidNames()
}

// Fetch records the requested names and delegates.
func (r *RecordingSource) Fetch(ctx context.Context, names []string) (*table.Table, error) {
	recorded := make([]string, len(names))
	copy(recorded, names)
	r.Fetches = append(r.Fetches, recorded)
	return r.Inner.Fetch(ctx, names)
}

// LastFetch returns the names of the most recent Fetch call, or nil if
// no fetch happened.
func (r *RecordingSource) LastFetch() []string {
	if len(r.Fetches) == 0 {
		return nil
	}
	return r.Fetches[len(r.Fetches)-1]
}

// Reset clears the recorded calls.
func (r *RecordingSource) Reset() {
	r.Fetches = nil
}
