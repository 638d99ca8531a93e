package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/alkime/carepost/internal/sheets"
	"github.com/alkime/carepost/pkg/collections"
)

// Fixed posts_full columns. The sheet has no reliable header labels.
const (
	postTitleCol = 1 // B
	postURLCol   = 2 // C, unique key
	postBodyCol  = 5 // F
)

const (
	// DefaultPostLimit is used when a listing does not specify a limit.
	DefaultPostLimit = 200
	// MaxPostLimit caps listing size.
	MaxPostLimit = 500
)

// SourceArticle is a previously published post used as rewrite material.
type SourceArticle struct {
	URL   string `json:"pcUrl"`
	Title string `json:"title"`
	Body  string `json:"-"`
}

func sourceFromRow(row []string) SourceArticle {
	return SourceArticle{
		URL:   sheets.Cell(row, postURLCol),
		Title: sheets.Cell(row, postTitleCol),
		Body:  sheets.Cell(row, postBodyCol),
	}
}

// ClampLimit normalizes a requested listing size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPostLimit
	}
	if limit > MaxPostLimit {
		return MaxPostLimit
	}

	return limit
}

// SourceArticles returns every data row of the posts sheet in sheet order.
func (c *Catalog) SourceArticles(ctx context.Context) ([]SourceArticle, error) {
	table, err := c.store.FetchTable(ctx, PostsRange)
	if err != nil {
		return nil, err
	}

	return collections.Apply(table.Rows(), sourceFromRow), nil
}

// ListSourceArticles returns the newest limit articles, newest first. When
// service is non-empty only titles mentioning it are kept.
func (c *Catalog) ListSourceArticles(ctx context.Context, limit int, service string) ([]SourceArticle, error) {
	all, err := c.SourceArticles(ctx)
	if err != nil {
		return nil, err
	}

	latest := collections.Reversed(collections.Last(all, ClampLimit(limit)))
	service = sheets.Normalize(service)

	return collections.Filter(latest, func(a SourceArticle) bool {
		if a.Title == "" || a.URL == "" {
			return false
		}

		return service == "" || strings.Contains(a.Title, service)
	}), nil
}

// FindSourceArticle resolves an article by exact url match.
func (c *Catalog) FindSourceArticle(ctx context.Context, url string) (SourceArticle, error) {
	table, err := c.store.FetchTable(ctx, PostsRange)
	if err != nil {
		return SourceArticle{}, err
	}

	row, ok := table.FindRowByKey(postURLCol, url)
	if !ok {
		return SourceArticle{}, fmt.Errorf("%w: %s", ErrSourceNotFound, sheets.Normalize(url))
	}

	return sourceFromRow(row), nil
}
