package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/alkime/carepost/internal/sheets"
	"github.com/alkime/carepost/pkg/collections"
)

// Topic describes a content theme for a service.
type Topic struct {
	ID          string   `json:"topic_id"`
	Service     string   `json:"service"`
	Tag         string   `json:"topic_tag"`
	DisplayName string   `json:"display_name"`
	Keywords    []string `json:"keywords"`
}

// TopicListing is the result of ListTopics.
type TopicListing struct {
	Services []string `json:"services"`
	Topics   []Topic  `json:"topics"`
}

func (c *Catalog) topics(ctx context.Context) ([]Topic, error) {
	table, err := c.store.FetchTable(ctx, TopicsRange)
	if err != nil {
		return nil, err
	}

	var (
		idxID       = table.FindColumnIndex("topic_id")
		idxService  = table.FindColumnIndex("service")
		idxTag      = table.FindColumnIndex("topic_tag")
		idxName     = table.FindColumnIndex("display_name")
		idxKeywords = table.FindColumnIndex("keywords")
	)

	topics := collections.Apply(table.Rows(), func(row []string) Topic {
		return Topic{
			ID:          sheets.Cell(row, idxID),
			Service:     sheets.Cell(row, idxService),
			Tag:         sheets.Cell(row, idxTag),
			DisplayName: sheets.Cell(row, idxName),
			Keywords:    splitKeywords(sheets.Cell(row, idxKeywords)),
		}
	})

	return collections.Filter(topics, func(t Topic) bool {
		return t.Tag != "" && t.DisplayName != ""
	}), nil
}

// ListTopics returns topics, filtered by service when given, together with
// the sorted set of all services.
func (c *Catalog) ListTopics(ctx context.Context, service string) (TopicListing, error) {
	all, err := c.topics(ctx)
	if err != nil {
		return TopicListing{}, err
	}

	services := collections.Filter(
		collections.Apply(all, func(t Topic) string { return t.Service }),
		func(s string) bool { return s != "" },
	)

	filtered := all
	if service = sheets.Normalize(service); service != "" {
		filtered = collections.Filter(all, func(t Topic) bool { return t.Service == service })
	}

	return TopicListing{
		Services: collections.SortedUnique(services),
		Topics:   filtered,
	}, nil
}

// FindTopic resolves a topic by tag.
func (c *Catalog) FindTopic(ctx context.Context, tag string) (Topic, error) {
	all, err := c.topics(ctx)
	if err != nil {
		return Topic{}, err
	}

	tag = sheets.Normalize(tag)
	for _, t := range all {
		if t.Tag == tag {
			return t, nil
		}
	}

	return Topic{}, fmt.Errorf("%w: %s", ErrTopicNotFound, tag)
}

func splitKeywords(s string) []string {
	parts := collections.Apply(strings.Split(s, ","), strings.TrimSpace)

	return collections.Filter(parts, func(p string) bool { return p != "" })
}
