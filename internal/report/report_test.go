package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moex-bonds/internal/models"
)

func amount(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

func fixtureInput() Input {
	issue := &models.Issue{Rows: []models.IssueRow{
		{Field: "SECID", Label: "Код ценной бумаги", Value: "SU26238RMFS4"},
		{Field: "ISIN", Label: "ISIN код", Value: "RU000A1038V6"},
		{Field: "SHORTNAME", Label: "Краткое наименование", Value: "ОФЗ 26238"},
		{Field: "FACEVALUE", Label: "Номинальная стоимость", Value: "1000"},
		{Field: "BUYBACKDATE", Label: models.Missing, Value: models.Missing},
	}}

	cashflow := &models.Cashflow{
		Title: "ОФЗ 26238",
		Rows: []models.CashflowRow{
			{
				Date:    time.Date(2026, time.November, 18, 0, 0, 0, 0, time.UTC),
				Coupon:  amount(35.4),
				Nominal: amount(1000),
			},
			{
				Date:      time.Date(2027, time.May, 19, 0, 0, 0, 0, time.UTC),
				Coupon:    amount(35.4),
				Amort:     amount(1000),
				OfferType: "Оферта",
				Nominal:   amount(0),
			},
		},
	}

	return Input{Issue: issue, Cashflow: cashflow}
}

func fixtureInputWithYield() Input {
	in := fixtureInput()
	ytm := 15.12
	in.YTM = &ytm
	in.Price = 52.5
	in.Valuation = time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC)
	return in
}

func TestGenerateHTML(t *testing.T) {
	html, err := GenerateHTML(fixtureInput(), Config{})
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}

	wantFragments := []string{
		"<!DOCTYPE html>",
		"SU26238RMFS4",
		"RU000A1038V6",
		"ОФЗ 26238",
		"Параметры выпуска",
		"Платежный календарь",
		"2026-11-18",
		"35.4",
		"Оферта",
		"Остаток номинала", // nominal column present
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(html, fragment) {
			t.Errorf("HTML missing %q", fragment)
		}
	}

	if strings.Contains(html, "Доходность к погашению") {
		t.Error("yield box rendered without a computed yield")
	}
}

func TestGenerateHTMLWithYield(t *testing.T) {
	html, err := GenerateHTML(fixtureInputWithYield(), Config{})
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}

	for _, fragment := range []string{"Доходность к погашению", "15.12", "52.50", "2026-08-21"} {
		if !strings.Contains(html, fragment) {
			t.Errorf("HTML missing %q", fragment)
		}
	}
}

func TestGenerateHTMLEscapes(t *testing.T) {
	in := fixtureInput()
	in.Issue.Rows[2].Value = `<script>alert("x")</script>`

	html, err := GenerateHTML(in, Config{})
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Error("issue value not HTML-escaped")
	}
}

func TestGenerateHTMLCustomTitle(t *testing.T) {
	html, err := GenerateHTML(fixtureInput(), Config{Title: "Отчет по выпуску"})
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}
	if !strings.Contains(html, "<title>Отчет по выпуску</title>") {
		t.Error("custom title not applied")
	}
}

func TestGenerateText(t *testing.T) {
	text := GenerateText(fixtureInputWithYield(), Config{})

	for _, fragment := range []string{
		"ОФЗ 26238",
		"SU26238RMFS4 · RU000A1038V6",
		"Платежный календарь",
		"2027-05-19",
		"Доходность к погашению: 15.12%",
	} {
		if !strings.Contains(text, fragment) {
			t.Errorf("text report missing %q", fragment)
		}
	}
}

func TestGenerateCSV(t *testing.T) {
	data, err := GenerateCSV(fixtureInput(), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("GenerateCSV failed: %v", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // the block separator is a single empty field
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("generated CSV does not parse back: %v", err)
	}

	// Header + 5 issue rows + separator + header + 2 schedule rows.
	if len(records) != 10 {
		t.Fatalf("expected 10 records, got %d", len(records))
	}

	if got := strings.Join(records[0], ","); got != "field,label,value" {
		t.Errorf("issue header = %q", got)
	}
	if records[1][0] != "SECID" || records[1][2] != "SU26238RMFS4" {
		t.Errorf("first issue record = %v", records[1])
	}

	// The Missing marker maps to the configured null value.
	if records[5][2] != "" {
		t.Errorf("missing value rendered as %q, want empty", records[5][2])
	}

	schedule := records[8]
	if schedule[0] != "1" || schedule[1] != "2026-11-18" || schedule[2] != "35.4" {
		t.Errorf("first schedule record = %v", schedule)
	}
}

func TestGenerateCSVSemicolon(t *testing.T) {
	options := DefaultCSVOptions()
	options.Delimiter = ';'
	options.NullValue = "NA"

	data, err := GenerateCSV(fixtureInput(), options)
	if err != nil {
		t.Fatalf("GenerateCSV failed: %v", err)
	}
	if !bytes.Contains(data, []byte("field;label;value")) {
		t.Error("semicolon delimiter not applied")
	}
	if !bytes.Contains(data, []byte("NA")) {
		t.Error("null value not applied")
	}
}

func TestGeneratePDF(t *testing.T) {
	data, err := GeneratePDF(fixtureInputWithYield(), Config{}, DefaultPDFOptions())
	if err != nil {
		t.Fatalf("GeneratePDF failed: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output does not start with a PDF header")
	}
	if len(data) < 1000 {
		t.Errorf("PDF suspiciously small: %d bytes", len(data))
	}
}

func TestGenerateDispatch(t *testing.T) {
	in := fixtureInput()

	for _, format := range []Format{FormatHTML, FormatText, FormatCSV, FormatPDF} {
		data, err := Generate(in, Config{Format: format})
		if err != nil {
			t.Errorf("Generate(%s) failed: %v", format, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("Generate(%s) produced no output", format)
		}
	}

	if _, err := Generate(in, Config{Format: "docx"}); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestGenerateNilTables(t *testing.T) {
	if _, err := GenerateHTML(Input{}, Config{}); err == nil {
		t.Error("GenerateHTML accepted nil tables")
	}
	if _, err := GenerateCSV(Input{}, DefaultCSVOptions()); err == nil {
		t.Error("GenerateCSV accepted nil tables")
	}
	if _, err := GeneratePDF(Input{}, Config{}, DefaultPDFOptions()); err == nil {
		t.Error("GeneratePDF accepted nil tables")
	}
}

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"html", FormatHTML, false},
		{"HTML", FormatHTML, false},
		{"text", FormatText, false},
		{"csv", FormatCSV, false},
		{"pdf", FormatPDF, false},
		{"docx", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		got, err := ParseFormat(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) expected an error", tc.input)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseFormat(%q) = (%v, %v), want %v", tc.input, got, err, tc.want)
		}
	}
}

func TestFormatExt(t *testing.T) {
	if got := FormatPDF.Ext(); got != ".pdf" {
		t.Errorf("Ext() = %q, want .pdf", got)
	}
}

func TestTransliterate(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"ОФЗ 26238", "OFZ 26238"},
		{"Оферта", "Oferta"},
		{"Средневзвешенная цена", "Srednevzveshennaya tsena"},
		{"ПАО «Сбербанк»", `PAO "Sberbank"`},
		{"№ 5", "N 5"},
		{"already latin", "already latin"},
	}

	for _, tc := range testCases {
		if got := transliterate(tc.input); got != tc.expected {
			t.Errorf("transliterate(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
