// Package report renders assembled bond tables into printable documents.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"moex-bonds/internal/models"
	"moex-bonds/pkg/utils"
)

// Format specifies the output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatHTML:
		return FormatHTML, nil
	case FormatText:
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	return "." + string(f)
}

// Config controls report generation behaviour.
type Config struct {
	Format Format
	Title  string // custom report title (optional)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Format: FormatHTML}
}

// Input carries everything a report is built from.
type Input struct {
	Issue    *models.Issue
	Cashflow *models.Cashflow
	// YTM is the computed yield in percent; nil when not computed.
	YTM *float64
	// Price is the clean price the yield was computed at.
	Price float64
	// Valuation is the yield valuation date.
	Valuation time.Time
}

// Data is the flattened template model.
type Data struct {
	Title       string
	SecID       string
	ISIN        string
	ShortName   string
	GeneratedAt string

	IssueRows []LabelValue

	CashflowTitle string
	HasNominal    bool
	CashflowRows  []ScheduleRow

	HasYield  bool
	YTM       string
	Price     string
	Valuation string
}

// LabelValue is one issue-table row flattened for rendering.
type LabelValue struct {
	Label string
	Value string
}

// ScheduleRow is one cash-flow row flattened for rendering.
type ScheduleRow struct {
	Num       int
	Date      string
	Coupon    string
	Amort     string
	Offer     string
	OfferType string
	Nominal   string
}

// Generate renders the report in the configured format.
func Generate(in Input, cfg Config) ([]byte, error) {
	switch cfg.Format {
	case FormatHTML, "":
		s, err := GenerateHTML(in, cfg)
		return []byte(s), err
	case FormatText:
		return []byte(GenerateText(in, cfg)), nil
	case FormatCSV:
		return GenerateCSV(in, DefaultCSVOptions())
	case FormatPDF:
		return GeneratePDF(in, cfg, DefaultPDFOptions())
	default:
		return nil, fmt.Errorf("unknown report format %q", cfg.Format)
	}
}

// GenerateHTML renders the bond report as a standalone HTML document.
func GenerateHTML(in Input, cfg Config) (string, error) {
	if in.Issue == nil || in.Cashflow == nil {
		return "", fmt.Errorf("GenerateHTML: issue and cashflow tables are required")
	}

	data := buildData(in, cfg)

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// GenerateText renders a fixed-width terminal rendition of the report.
func GenerateText(in Input, cfg Config) string {
	data := buildData(in, cfg)

	var b strings.Builder
	rule := strings.Repeat("=", 64)

	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("  %s\n", data.Title))
	b.WriteString(fmt.Sprintf("  %s · %s\n", data.SecID, data.ISIN))
	b.WriteString(rule + "\n\n")

	for _, r := range data.IssueRows {
		b.WriteString(fmt.Sprintf("  %-32s %s\n", r.Label, r.Value))
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString(fmt.Sprintf("  Платежный календарь: %s\n", data.CashflowTitle))
	b.WriteString(rule + "\n")
	header := fmt.Sprintf("  %3s  %-10s  %12s  %12s  %10s  %-8s", "#", "Дата", "Купон", "Погашение", "Оферта", "Тип")
	if data.HasNominal {
		header += fmt.Sprintf("  %12s", "Номинал")
	}
	b.WriteString(header + "\n")
	for _, r := range data.CashflowRows {
		line := fmt.Sprintf("  %3d  %-10s  %12s  %12s  %10s  %-8s", r.Num, r.Date, r.Coupon, r.Amort, r.Offer, r.OfferType)
		if data.HasNominal {
			line += fmt.Sprintf("  %12s", r.Nominal)
		}
		b.WriteString(line + "\n")
	}

	if data.HasYield {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  Доходность к погашению: %s%% (цена %s, дата %s)\n", data.YTM, data.Price, data.Valuation))
	}

	b.WriteString("\n  Сформировано " + data.GeneratedAt + "\n")
	return b.String()
}

func buildData(in Input, cfg Config) Data {
	data := Data{
		Title:         cfg.Title,
		SecID:         in.Issue.SecID(),
		ISIN:          in.Issue.ISIN(),
		ShortName:     in.Issue.ShortName(),
		GeneratedAt:   utils.NowMoscow().Format("02.01.2006 15:04 MST"),
		CashflowTitle: in.Cashflow.Title,
	}
	if data.Title == "" {
		data.Title = data.ShortName
	}
	if data.Title == "" {
		data.Title = data.SecID
	}

	data.IssueRows = make([]LabelValue, 0, len(in.Issue.Rows))
	for _, r := range in.Issue.Rows {
		data.IssueRows = append(data.IssueRows, LabelValue{Label: r.Label, Value: r.Value})
	}

	data.CashflowRows = make([]ScheduleRow, 0, len(in.Cashflow.Rows))
	for i, r := range in.Cashflow.Rows {
		if r.Nominal.Valid {
			data.HasNominal = true
		}
		data.CashflowRows = append(data.CashflowRows, ScheduleRow{
			Num:       i + 1,
			Date:      utils.FormatISSDate(r.Date),
			Coupon:    amountString(r.Coupon),
			Amort:     amountString(r.Amort),
			Offer:     amountString(r.Offer),
			OfferType: stringOr(r.OfferType, models.Missing),
			Nominal:   amountString(r.Nominal),
		})
	}

	if in.YTM != nil {
		data.HasYield = true
		data.YTM = fmt.Sprintf("%.2f", *in.YTM)
		data.Price = fmt.Sprintf("%.2f", in.Price)
		data.Valuation = utils.FormatISSDate(in.Valuation)
	}
	return data
}

func amountString(d decimal.NullDecimal) string {
	if !d.Valid {
		return models.Missing
	}
	return d.Decimal.String()
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
