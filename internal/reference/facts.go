package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alkime/carepost/internal/sheets"
)

const factRowsPerTab = 30

// factTabsByService lists the fact tables consulted for each service.
var factTabsByService = map[string][]string{
	"주간보호":   {"월한도액", "주간보호수가", "주간보호본부금", "급여"},
	"방문요양":   {"월한도액", "방문요양수가", "방문요양본부금", "급여"},
	"가족요양":   {"월한도액", "급여"},
	"장기요양등급": {"월한도액", "급여"},
}

var defaultFactTabs = []string{"월한도액", "급여"}

// FactTabs returns the fact table names for service.
func FactTabs(service string) []string {
	if tabs, ok := factTabsByService[service]; ok {
		return tabs
	}

	return defaultFactTabs
}

// FactTable is one fact sheet as read from the store.
type FactTable struct {
	Tab  string
	Rows sheets.Table
}

// LoadFacts reads the tables for tabs in order. Absent sheets are skipped.
func LoadFacts(ctx context.Context, store sheets.Store, tabs []string) ([]FactTable, error) {
	tables := make([]FactTable, 0, len(tabs))
	for _, tab := range tabs {
		rows, err := store.FetchTable(ctx, tab+"!A:Z")
		if errors.Is(err, sheets.ErrRangeNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read fact table %s: %w", tab, err)
		}
		tables = append(tables, FactTable{Tab: tab, Rows: rows})
	}

	return tables, nil
}

// FactsBlock renders each table as its name followed by up to thirty
// tab-separated rows.
func FactsBlock(tables []FactTable) string {
	blocks := make([]string, 0, len(tables))
	for _, t := range tables {
		rows := t.Rows
		if len(rows) > factRowsPerTab {
			rows = rows[:factRowsPerTab]
		}

		lines := make([]string, 0, len(rows))
		for _, r := range rows {
			lines = append(lines, strings.Join(r, "\t"))
		}
		blocks = append(blocks, t.Tab+"\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(blocks, "\n\n")
}
