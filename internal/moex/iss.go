// Package moex provides access to the Moscow Exchange ISS data feed.
package moex

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"moex-bonds/internal/models"
)

// ISS defines the interface for ISS data-feed operations.
type ISS interface {
	// Search queries the securities directory.
	Search(ctx context.Context, query string) ([]models.SecurityMatch, error)
	// Lookup resolves an ISIN to a SECID or back.
	Lookup(ctx context.Context, code string, direction models.LookupDirection) (string, error)

	// Description returns the reference-data block for a security.
	Description(ctx context.Context, secID string) (*Table, error)
	// MarketData returns the per-board trading block for a bond.
	MarketData(ctx context.Context, secID string) (*Table, error)
	// History returns daily trade history between two ISS dates (inclusive).
	History(ctx context.Context, secID, from, till string) (*Table, error)
	// Bondization returns the coupon/amortization/offer schedule blocks.
	Bondization(ctx context.Context, secID string) (*Bondization, error)
}

// Table is the tabular block of an ISS JSON response: column names plus
// rows of mixed-type cells.
type Table struct {
	Columns []string        `json:"columns"`
	Data    [][]interface{} `json:"data"`
}

// Bondization carries the three schedule blocks of the bondization endpoint.
type Bondization struct {
	Coupons       Table `json:"coupons"`
	Amortizations Table `json:"amortizations"`
	Offers        Table `json:"offers"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Data)
}

// Empty reports whether the block carries no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Data) == 0
}

func (t *Table) cell(row int, column string) (interface{}, bool) {
	if row < 0 || row >= len(t.Data) {
		return nil, false
	}
	for i, c := range t.Columns {
		if c == column {
			r := t.Data[row]
			if i >= len(r) || r[i] == nil {
				return nil, false
			}
			return r[i], true
		}
	}
	return nil, false
}

// String returns the cell as a display string. Numbers render with the
// shortest exact representation; null and absent cells report false.
func (t *Table) String(row int, column string) (string, bool) {
	v, ok := t.cell(row, column)
	if !ok {
		return "", false
	}
	switch c := v.(type) {
	case string:
		return c, true
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64), true
	case bool:
		if c {
			return "1", true
		}
		return "0", true
	default:
		return "", false
	}
}

// Float returns the cell as a float64, parsing numeric strings.
func (t *Table) Float(row int, column string) (float64, bool) {
	v, ok := t.cell(row, column)
	if !ok {
		return 0, false
	}
	switch c := v.(type) {
	case float64:
		return c, true
	case string:
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Decimal returns the cell as an exact decimal amount.
func (t *Table) Decimal(row int, column string) (decimal.Decimal, bool) {
	v, ok := t.cell(row, column)
	if !ok {
		return decimal.Decimal{}, false
	}
	switch c := v.(type) {
	case float64:
		return decimal.NewFromFloat(c), true
	case string:
		d, err := decimal.NewFromString(c)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}
