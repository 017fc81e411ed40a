package bond

import (
	"strconv"

	apperrors "moex-bonds/internal/errors"
	"moex-bonds/internal/models"
	"moex-bonds/internal/moex"
	"moex-bonds/pkg/utils"
)

// mainBoards are the T+ boards whose previous-session figures feed the
// issue table.
var mainBoards = map[string]bool{
	"TQCB": true, // corporate bonds
	"TQOB": true, // government bonds
}

// droppedFields are description attributes the terminal view omits.
var droppedFields = map[string]bool{
	"REGNUMBER":             true,
	"LATNAME":               true,
	"STARTDATEMOEX":         true,
	"PROGRAMREGISTRYNUMBER": true,
	"COUPONDATE":            true,
	"EVENINGSESSION":        true,
	"TYPENAME":              true,
	"GROUP":                 true,
	"TYPE":                  true,
	"GROUPNAME":             true,
	"EMITTER_ID":            true,
}

// issueOrder is the fixed display order of the issue table. Fields absent
// from the feed still get a row, valued Missing.
var issueOrder = []string{
	"SECID", "ISIN", "NAME", "SHORTNAME", "LISTLEVEL", "ISQUALIFIEDINVESTORS",
	"ISSUESIZE", "INITIALFACEVALUE", "FACEUNIT", "DAYSTOREDEMPTION",
	"ISSUEDATE", "MATDATE", "BUYBACKDATE", "FACEVALUE", "COUPONPERCENT",
	"COUPONVALUE", "COUPONFREQUENCY", "PREVWAPRICE", "YIELDATPREVWAPRICE",
	"ACCRUEDINT", "VOLUME",
}

// labelShortenings trims feed labels that overflow a terminal column.
var labelShortenings = map[string]string{
	"Бумаги для квалифицированных инвесторов":  "Для квал. инвесторов",
	"Первоначальная номинальная стоимость":     "Первоначальная номн. стоимость",
	"Дата к которой рассчитывается доходность": "Дата для расчета доходности",
	"Сумма купона, в валюте номинала":          "Сумма купона",
	"Периодичность выплаты купона в год":       "Купонов в год",
}

// Labels for the rows appended from the market-data and history blocks.
const (
	labelPrevPrice = "Средневзвешенная цена пред. дня"
	labelPrevYield = "Доходность по оценке пред. дня"
	labelAccrued   = "НКД"
	labelAvgVolume = "Среднедневной объем"
)

// buildIssue shapes the description, market-data and history blocks into
// the fixed-order issue table.
func buildIssue(secID string, desc, market, history *moex.Table) (*models.Issue, error) {
	rows := make(map[string]models.IssueRow, desc.Len()+4)

	for i := 0; i < desc.Len(); i++ {
		field, ok := desc.String(i, "name")
		if !ok {
			continue
		}
		if droppedFields[field] {
			continue
		}
		label, _ := desc.String(i, "title")
		value, ok := desc.String(i, "value")
		if !ok {
			value = models.Missing
		}
		rows[field] = models.IssueRow{Field: field, Label: label, Value: value}
	}

	if err := rewriteIssueSize(secID, rows); err != nil {
		return nil, err
	}

	appendMarketRows(rows, market)
	appendVolumeRow(rows, history)

	issue := &models.Issue{Rows: make([]models.IssueRow, 0, len(issueOrder))}
	for _, field := range issueOrder {
		row, ok := rows[field]
		if !ok {
			row = models.IssueRow{Field: field, Label: models.Missing, Value: models.Missing}
		}
		if short, ok := labelShortenings[row.Label]; ok {
			row.Label = short
		}
		if row.Label == "" {
			row.Label = models.Missing
		}
		issue.Rows = append(issue.Rows, row)
	}
	return issue, nil
}

// rewriteIssueSize replaces the paper count with the rouble issue volume:
// issuesize × initialfacevalue, rendered in billions.
func rewriteIssueSize(secID string, rows map[string]models.IssueRow) error {
	sizeRow, okSize := rows["ISSUESIZE"]
	faceRow, okFace := rows["INITIALFACEVALUE"]
	if !okSize || !okFace {
		return apperrors.NewDataError("description", secID, "issue size fields missing", nil)
	}

	size, err := strconv.ParseFloat(sizeRow.Value, 64)
	if err != nil {
		return apperrors.NewDataError("description", secID, "unparseable ISSUESIZE", err)
	}
	face, err := strconv.ParseFloat(faceRow.Value, 64)
	if err != nil {
		return apperrors.NewDataError("description", secID, "unparseable INITIALFACEVALUE", err)
	}

	sizeRow.Value = utils.FormatBillions(size * face)
	rows["ISSUESIZE"] = sizeRow
	return nil
}

// appendMarketRows adds the previous-session rows from the first main-board
// entry. Bonds not traded on a main board get Missing values.
func appendMarketRows(rows map[string]models.IssueRow, market *moex.Table) {
	boardRow := -1
	for i := 0; i < market.Len(); i++ {
		board, ok := market.String(i, "BOARDID")
		if ok && mainBoards[board] {
			boardRow = i
			break
		}
	}

	for _, f := range []struct {
		field string
		label string
	}{
		{"PREVWAPRICE", labelPrevPrice},
		{"YIELDATPREVWAPRICE", labelPrevYield},
		{"ACCRUEDINT", labelAccrued},
	} {
		value := models.Missing
		if boardRow >= 0 {
			if v, ok := market.String(boardRow, f.field); ok {
				value = v
			}
		}
		rows[f.field] = models.IssueRow{Field: f.field, Label: f.label, Value: value}
	}
}

// appendVolumeRow adds the average daily traded value over the history
// window, in millions of roubles. No trades mean zero, not an error.
func appendVolumeRow(rows map[string]models.IssueRow, history *moex.Table) {
	var sum float64
	var n int
	for i := 0; i < history.Len(); i++ {
		if v, ok := history.Float(i, "VALUE"); ok {
			sum += v
			n++
		}
	}

	var avg float64
	if n > 0 {
		avg = sum / float64(n)
	}
	rows["VOLUME"] = models.IssueRow{
		Field: "VOLUME",
		Label: labelAvgVolume,
		Value: utils.FormatMillions(avg),
	}
}
