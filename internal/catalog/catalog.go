// Package catalog resolves centers, source articles and topics from the row
// store.
package catalog

import (
	"errors"
	"fmt"

	"github.com/alkime/carepost/internal/sheets"
)

// Ranges read and written by the application.
const (
	CentersRange = "센터정보!A1:Z2000"
	PostsRange   = "posts_full!A:F"
	TopicsRange  = "주제!A:E"
	LogRange     = "Log!A:O"
)

var (
	// ErrMissingHeader means a required column header is absent from a sheet.
	ErrMissingHeader = errors.New("required header missing")
	// ErrNotFound is wrapped by every lookup miss below.
	ErrNotFound = errors.New("not found")
	// ErrCenterNotFound means no center row matches the requested id.
	ErrCenterNotFound = fmt.Errorf("center %w", ErrNotFound)
	// ErrSourceNotFound means no source article matches the requested url.
	ErrSourceNotFound = fmt.Errorf("source article %w", ErrNotFound)
	// ErrTopicNotFound means no topic matches the requested tag.
	ErrTopicNotFound = fmt.Errorf("topic %w", ErrNotFound)
)

// Catalog reads reference data from a row store. It holds no cached state.
type Catalog struct {
	store            sheets.Store
	defaultTelephone string
}

// New creates a catalog over store. defaultTelephone is used for centers
// without a telephone value.
func New(store sheets.Store, defaultTelephone string) *Catalog {
	return &Catalog{
		store:            store,
		defaultTelephone: defaultTelephone,
	}
}

// Store exposes the underlying row store.
func (c *Catalog) Store() sheets.Store {
	return c.store
}
