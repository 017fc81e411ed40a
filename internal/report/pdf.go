package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions configures PDF generation.
type PDFOptions struct {
	PageSize       string     `json:"page_size"`   // A4, Letter
	Orientation    string     `json:"orientation"` // portrait, landscape
	FontFamily     string     `json:"font_family"`
	FontSize       float64    `json:"font_size"`
	HeaderFontSize float64    `json:"header_font_size"`
	TitleFontSize  float64    `json:"title_font_size"`
	HeaderColor    PDFColor   `json:"header_color"`
	AlternateRows  bool       `json:"alternate_rows"`
	AlternateColor PDFColor   `json:"alternate_color"`
	Margins        PDFMargins `json:"margins"`
}

// PDFColor represents an RGB color.
type PDFColor struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// PDFMargins represents page margins.
type PDFMargins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// DefaultPDFOptions returns default PDF options.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageSize:       "A4",
		Orientation:    "portrait",
		FontFamily:     "Helvetica",
		FontSize:       9,
		HeaderFontSize: 10,
		TitleFontSize:  15,
		HeaderColor:    PDFColor{R: 29, G: 78, B: 216},
		AlternateRows:  true,
		AlternateColor: PDFColor{R: 242, G: 242, B: 242},
		Margins: PDFMargins{
			Left:   15,
			Right:  15,
			Top:    20,
			Bottom: 20,
		},
	}
}

// GeneratePDF renders the bond report as a printable PDF. The core PDF
// fonts carry no Cyrillic glyphs, so labels render in English and Cyrillic
// values are transliterated.
func GeneratePDF(in Input, cfg Config, options PDFOptions) ([]byte, error) {
	if in.Issue == nil || in.Cashflow == nil {
		return nil, fmt.Errorf("GeneratePDF: issue and cashflow tables are required")
	}
	data := buildData(in, cfg)

	orientation := "P"
	if options.Orientation == "landscape" {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", options.PageSize, "")
	pdf.SetMargins(options.Margins.Left, options.Margins.Top, options.Margins.Right)
	pdf.SetAutoPageBreak(true, options.Margins.Bottom)
	pdf.AddPage()

	// Title block
	pdf.SetFont(options.FontFamily, "B", options.TitleFontSize)
	pdf.CellFormat(0, 10, transliterate(data.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(options.FontFamily, "", options.FontSize+1)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s / ISIN %s", data.SecID, data.ISIN), "", 1, "C", false, 0, "")
	pdf.SetFont(options.FontFamily, "", options.FontSize-1)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 6, "Generated: "+data.GeneratedAt, "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	writePDFIssueBlock(pdf, data, options)

	if data.HasYield {
		pdf.Ln(3)
		pdf.SetFont(options.FontFamily, "B", options.FontSize+1)
		line := fmt.Sprintf("Yield to maturity: %s%% (price %s, valuation %s)", data.YTM, data.Price, data.Valuation)
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	writePDFCashflowBlock(pdf, data, options)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("GeneratePDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writePDFIssueBlock(pdf *gofpdf.Fpdf, data Data, options PDFOptions) {
	pdf.SetFont(options.FontFamily, "B", options.HeaderFontSize+1)
	pdf.CellFormat(0, 8, "Issue", "", 1, "L", false, 0, "")

	pageWidth, _ := pdf.GetPageSize()
	available := pageWidth - options.Margins.Left - options.Margins.Right
	labelWidth := available * 0.45
	valueWidth := available - labelWidth

	pdf.SetFont(options.FontFamily, "", options.FontSize)
	for i, r := range data.IssueRows {
		fill := options.AlternateRows && i%2 == 1
		if fill {
			pdf.SetFillColor(options.AlternateColor.R, options.AlternateColor.G, options.AlternateColor.B)
		}
		pdf.CellFormat(labelWidth, 6, transliterate(r.Label), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(valueWidth, 6, transliterate(r.Value), "1", 1, "L", fill, 0, "")
	}
}

func writePDFCashflowBlock(pdf *gofpdf.Fpdf, data Data, options PDFOptions) {
	pdf.SetFont(options.FontFamily, "B", options.HeaderFontSize+1)
	pdf.CellFormat(0, 8, "Payment schedule: "+transliterate(data.CashflowTitle), "", 1, "L", false, 0, "")

	labels := []string{"#", "Date", "Coupon", "Amortization", "Offer", "Offer type"}
	weights := []float64{0.06, 0.18, 0.16, 0.16, 0.14, 0.30}
	if data.HasNominal {
		labels = append(labels, "Nominal")
		weights = []float64{0.05, 0.16, 0.14, 0.14, 0.12, 0.24, 0.15}
	}

	pageWidth, _ := pdf.GetPageSize()
	available := pageWidth - options.Margins.Left - options.Margins.Right
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = available * w
	}

	pdf.SetFont(options.FontFamily, "B", options.HeaderFontSize)
	pdf.SetFillColor(options.HeaderColor.R, options.HeaderColor.G, options.HeaderColor.B)
	pdf.SetTextColor(255, 255, 255)
	for i, label := range labels {
		pdf.CellFormat(widths[i], 7, label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(options.FontFamily, "", options.FontSize)
	pdf.SetTextColor(0, 0, 0)
	for i, r := range data.CashflowRows {
		fill := options.AlternateRows && i%2 == 1
		if fill {
			pdf.SetFillColor(options.AlternateColor.R, options.AlternateColor.G, options.AlternateColor.B)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		cells := []string{
			fmt.Sprintf("%d", r.Num), r.Date, pdfCell(r.Coupon), pdfCell(r.Amort),
			pdfCell(r.Offer), transliterate(pdfCell(r.OfferType)),
		}
		if data.HasNominal {
			cells = append(cells, pdfCell(r.Nominal))
		}
		for j, cell := range cells {
			align := "R"
			if j == 1 || j == 5 {
				align = "L"
			}
			pdf.CellFormat(widths[j], 6, cell, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

// pdfCell swaps the en-dash Missing marker for a plain hyphen the core
// fonts can draw.
func pdfCell(v string) string {
	if v == "–" {
		return "-"
	}
	return v
}

// translitTable maps Cyrillic runes onto latin sequences for the core PDF
// fonts.
var translitTable = map[rune]string{
	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D", 'Е': "E", 'Ё': "Yo",
	'Ж': "Zh", 'З': "Z", 'И': "I", 'Й': "Y", 'К': "K", 'Л': "L", 'М': "M",
	'Н': "N", 'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T", 'У': "U",
	'Ф': "F", 'Х': "Kh", 'Ц': "Ts", 'Ч': "Ch", 'Ш': "Sh", 'Щ': "Shch",
	'Ъ': "", 'Ы': "Y", 'Ь': "", 'Э': "E", 'Ю': "Yu", 'Я': "Ya",
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	'–': "-", '«': "\"", '»': "\"", '№': "N",
}

func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := translitTable[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
