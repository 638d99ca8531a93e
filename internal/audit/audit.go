// Package audit records one row per successful generation.
package audit

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/alkime/carepost/internal/content"
	"github.com/alkime/carepost/internal/sheets"
)

// Entry is a single audit record. RequestID is not part of the row; it
// identifies the request in append errors.
type Entry struct {
	RequestID   string
	Time        time.Time
	CenterID    string
	CenterName  string
	Mode        content.Mode
	Keyword     string
	SourceTitle string
	SourceURL   string
	Text        string
}

// Row renders the entry in the fifteen-column log layout.
func (e Entry) Row() []string {
	return []string{
		e.Time.UTC().Format(time.RFC3339),
		e.CenterID,
		e.CenterName,
		"",
		e.Mode.Label(),
		"",
		e.Keyword,
		"",
		e.SourceTitle,
		"0",
		strconv.Itoa(utf8.RuneCountInString(e.Text)),
		"",
		"",
		e.SourceURL,
		e.SourceTitle,
	}
}

// Sink appends entries to a row store range.
type Sink struct {
	store sheets.Store
	rng   string
}

// NewSink creates a sink writing to rng.
func NewSink(store sheets.Store, rng string) *Sink {
	return &Sink{store: store, rng: rng}
}

// Append writes e. Failures are returned to the caller.
func (s *Sink) Append(ctx context.Context, e Entry) error {
	if err := s.store.AppendRow(ctx, s.rng, e.Row()); err != nil {
		if e.RequestID != "" {
			return fmt.Errorf("failed to append audit row for request %s: %w", e.RequestID, err)
		}
		return fmt.Errorf("failed to append audit row: %w", err)
	}

	return nil
}
