package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/alkime/carepost/internal/sheets"
	"github.com/alkime/carepost/pkg/collections"
)

// Center column headers.
const (
	HeaderCenterID      = "센터ID"
	HeaderCenterName    = "운영상 기관명 (해당 셀 메모 필독)"
	HeaderCenterTel     = "전화번호"
	HeaderCenterAddress = "행정상 주소지"
)

// Center is a care facility profile.
type Center struct {
	ID        string `json:"centerId"`
	Name      string `json:"name"`
	Telephone string `json:"tel"`
	Address   string `json:"addr"`
}

// RegionHint returns the first two whitespace-separated tokens of the address.
func (c Center) RegionHint() string {
	return RegionHint(c.Address)
}

// RegionHint returns the first two whitespace-separated tokens of addr.
func RegionHint(addr string) string {
	tokens := strings.Fields(addr)
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}

	return strings.Join(tokens, " ")
}

type centerColumns struct {
	id, name, tel, addr int
}

func resolveCenterColumns(t sheets.Table) (centerColumns, error) {
	cols := centerColumns{
		id:   t.FindColumnIndex(HeaderCenterID),
		name: t.FindColumnIndex(HeaderCenterName),
		tel:  t.FindColumnIndex(HeaderCenterTel),
		addr: t.FindColumnIndex(HeaderCenterAddress),
	}
	if cols.id < 0 {
		return cols, fmt.Errorf("%w: 센터정보 sheet has no %q header", ErrMissingHeader, HeaderCenterID)
	}

	return cols, nil
}

func (cols centerColumns) center(row []string) Center {
	return Center{
		ID:        sheets.Cell(row, cols.id),
		Name:      sheets.Cell(row, cols.name),
		Telephone: sheets.Cell(row, cols.tel),
		Address:   sheets.Cell(row, cols.addr),
	}
}

// ListCenters returns every center row that has both an id and a name. The
// telephone is left as stored.
func (c *Catalog) ListCenters(ctx context.Context) ([]Center, error) {
	table, err := c.store.FetchTable(ctx, CentersRange)
	if err != nil {
		return nil, err
	}

	cols, err := resolveCenterColumns(table)
	if err != nil {
		return nil, err
	}

	centers := collections.Apply(table.Rows(), cols.center)

	return collections.Filter(centers, func(ct Center) bool {
		return ct.ID != "" && ct.Name != ""
	}), nil
}

// FindCenter resolves a single center by id. A missing telephone falls back
// to the catalog default.
func (c *Catalog) FindCenter(ctx context.Context, id string) (Center, error) {
	table, err := c.store.FetchTable(ctx, CentersRange)
	if err != nil {
		return Center{}, err
	}

	cols, err := resolveCenterColumns(table)
	if err != nil {
		return Center{}, err
	}
	if cols.name < 0 {
		return Center{}, fmt.Errorf("%w: 센터정보 sheet has no %q header", ErrMissingHeader, HeaderCenterName)
	}

	row, ok := table.FindRowByKey(cols.id, id)
	if !ok {
		return Center{}, fmt.Errorf("%w: %s", ErrCenterNotFound, sheets.Normalize(id))
	}

	center := cols.center(row)
	if center.Telephone == "" {
		center.Telephone = c.defaultTelephone
	}

	return center, nil
}
