package bond

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "moex-bonds/internal/errors"
	"moex-bonds/internal/models"
	"moex-bonds/internal/moex"
	"moex-bonds/pkg/utils"
)

// buildCashflow outer-merges the coupon, amortization and offer blocks on
// event date into one chronological schedule.
func buildCashflow(secID string, sched *moex.Bondization, issue *models.Issue) (*models.Cashflow, error) {
	events := make(map[time.Time]*models.CashflowRow)

	row := func(block string, t *moex.Table, i int, dateColumn string) (*models.CashflowRow, error) {
		raw, ok := t.String(i, dateColumn)
		if !ok {
			return nil, apperrors.NewDataError(block, secID, "event without a date", nil)
		}
		date, err := utils.ParseISSDate(raw)
		if err != nil {
			return nil, apperrors.NewDataError(block, secID, "unparseable event date", err)
		}
		ev, ok := events[date]
		if !ok {
			ev = &models.CashflowRow{Date: date}
			events[date] = ev
		}
		return ev, nil
	}

	for i := 0; i < sched.Coupons.Len(); i++ {
		ev, err := row("coupons", &sched.Coupons, i, "coupondate")
		if err != nil {
			return nil, err
		}
		if v, ok := sched.Coupons.Decimal(i, "value"); ok {
			ev.Coupon = decimal.NullDecimal{Decimal: v, Valid: true}
		}
	}

	for i := 0; i < sched.Amortizations.Len(); i++ {
		ev, err := row("amortizations", &sched.Amortizations, i, "amortdate")
		if err != nil {
			return nil, err
		}
		if v, ok := sched.Amortizations.Decimal(i, "value"); ok {
			ev.Amort = decimal.NullDecimal{Decimal: v, Valid: true}
		}
	}

	for i := 0; i < sched.Offers.Len(); i++ {
		ev, err := row("offers", &sched.Offers, i, "offerdate")
		if err != nil {
			return nil, err
		}
		if v, ok := sched.Offers.Decimal(i, "price"); ok {
			ev.Offer = decimal.NullDecimal{Decimal: v, Valid: true}
		}
		if v, ok := sched.Offers.String(i, "offertype"); ok {
			ev.OfferType = v
		}
	}

	cf := &models.Cashflow{
		Title: issue.ShortName(),
		Rows:  make([]models.CashflowRow, 0, len(events)),
	}
	for _, ev := range events {
		cf.Rows = append(cf.Rows, *ev)
	}
	sort.Slice(cf.Rows, func(i, j int) bool {
		return cf.Rows[i].Date.Before(cf.Rows[j].Date)
	})

	trackNominal(cf, issue)
	return cf, nil
}

// trackNominal walks the schedule carrying the outstanding face value:
// the initial face value less every amortization settled so far.
func trackNominal(cf *models.Cashflow, issue *models.Issue) {
	raw, ok := issue.Value("INITIALFACEVALUE")
	if !ok {
		return
	}
	outstanding, err := decimal.NewFromString(raw)
	if err != nil {
		return
	}

	for i := range cf.Rows {
		if cf.Rows[i].Amort.Valid {
			outstanding = outstanding.Sub(cf.Rows[i].Amort.Decimal)
		}
		cf.Rows[i].Nominal = decimal.NullDecimal{Decimal: outstanding, Valid: true}
	}
}
