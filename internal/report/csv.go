package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"moex-bonds/internal/models"
)

// CSVOptions configures the CSV rendition.
type CSVOptions struct {
	Delimiter     rune   `json:"delimiter"`      // field delimiter (default: comma)
	UseCRLF       bool   `json:"use_crlf"`       // use \r\n line terminators
	IncludeHeader bool   `json:"include_header"` // include column headers
	NullValue     string `json:"null_value"`     // string for absent values
}

// DefaultCSVOptions returns default CSV export options.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:     ',',
		UseCRLF:       false,
		IncludeHeader: true,
		NullValue:     "",
	}
}

// GenerateCSV renders the report as CSV: an issue-attributes block followed
// by the cash-flow schedule block.
func GenerateCSV(in Input, options CSVOptions) ([]byte, error) {
	if in.Issue == nil || in.Cashflow == nil {
		return nil, fmt.Errorf("GenerateCSV: issue and cashflow tables are required")
	}
	data := buildData(in, Config{Format: FormatCSV})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = options.Delimiter
	w.UseCRLF = options.UseCRLF

	if options.IncludeHeader {
		if err := w.Write([]string{"field", "label", "value"}); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, r := range in.Issue.Rows {
		if err := w.Write([]string{r.Field, r.Label, cellOr(r.Value, options)}); err != nil {
			return nil, fmt.Errorf("failed to write issue row: %w", err)
		}
	}

	// Blank record separates the two blocks.
	if err := w.Write([]string{""}); err != nil {
		return nil, fmt.Errorf("failed to write separator: %w", err)
	}

	if options.IncludeHeader {
		header := []string{"n", "date", "coupon", "amortization", "offer", "offer_type", "nominal"}
		if err := w.Write(header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, r := range data.CashflowRows {
		record := []string{
			fmt.Sprintf("%d", r.Num),
			r.Date,
			cellOr(r.Coupon, options),
			cellOr(r.Amort, options),
			cellOr(r.Offer, options),
			cellOr(r.OfferType, options),
			cellOr(r.Nominal, options),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write cashflow row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cellOr maps the display Missing marker to the configured null value.
func cellOr(v string, options CSVOptions) string {
	if v == models.Missing {
		return options.NullValue
	}
	return v
}
