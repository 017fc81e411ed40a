package bond

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "moex-bonds/internal/errors"
	"moex-bonds/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

func yieldIssue(facevalue, accrued string) *models.Issue {
	return &models.Issue{Rows: []models.IssueRow{
		{Field: "SECID", Label: "Код", Value: "RU000A0TEST1"},
		{Field: "FACEVALUE", Label: "Номинал", Value: facevalue},
		{Field: "ACCRUEDINT", Label: "НКД", Value: accrued},
	}}
}

// annualSchedule builds n annual coupon payments from the valuation date
// with the face value redeemed at the last one.
func annualSchedule(valuation time.Time, coupon float64, n int) *models.Cashflow {
	cf := &models.Cashflow{Title: "Тест"}
	for i := 1; i <= n; i++ {
		row := models.CashflowRow{
			Date:   valuation.AddDate(i, 0, 0),
			Coupon: amount(coupon),
		}
		if i == n {
			row.Amort = amount(1000)
		}
		cf.Rows = append(cf.Rows, row)
	}
	return cf
}

func TestYieldParBond(t *testing.T) {
	valuation := date(2026, time.January, 1)

	// A 7% annual coupon bond bought at par yields exactly the coupon rate.
	result, err := Yield(YieldInput{
		Issue:     yieldIssue("1000", "0"),
		Cashflow:  annualSchedule(valuation, 70, 3),
		Price:     100,
		Valuation: valuation,
	})
	if err != nil {
		t.Fatalf("Yield failed: %v", err)
	}

	if result.YTM != 7.00 {
		t.Errorf("YTM = %v, want 7.00", result.YTM)
	}
	if result.Flows != 3 {
		t.Errorf("Flows = %d, want 3", result.Flows)
	}
}

func TestYieldSingleFlow(t *testing.T) {
	valuation := date(2026, time.January, 1)

	// One payment of 1070 in exactly one 365-day year at a purchase of
	// 1020 (price 100 plus 20 accrued): r = 1070/1020 - 1.
	cf := &models.Cashflow{Rows: []models.CashflowRow{
		{Date: date(2027, time.January, 1), Coupon: amount(70), Amort: amount(1000)},
	}}

	result, err := Yield(YieldInput{
		Issue:     yieldIssue("1000", "20"),
		Cashflow:  cf,
		Price:     100,
		Valuation: valuation,
	})
	if err != nil {
		t.Fatalf("Yield failed: %v", err)
	}

	want := math.Round((1070.0/1020.0-1)*100*100) / 100
	if result.YTM != want {
		t.Errorf("YTM = %v, want %v", result.YTM, want)
	}
	if result.Flows != 1 {
		t.Errorf("Flows = %d, want 1", result.Flows)
	}
}

func TestYieldDiscountAndPremium(t *testing.T) {
	valuation := date(2026, time.January, 1)
	schedule := annualSchedule(valuation, 70, 5)

	atPar, err := Yield(YieldInput{Issue: yieldIssue("1000", "0"), Cashflow: schedule, Price: 100, Valuation: valuation})
	if err != nil {
		t.Fatalf("Yield at par failed: %v", err)
	}
	atDiscount, err := Yield(YieldInput{Issue: yieldIssue("1000", "0"), Cashflow: schedule, Price: 95, Valuation: valuation})
	if err != nil {
		t.Fatalf("Yield at discount failed: %v", err)
	}
	atPremium, err := Yield(YieldInput{Issue: yieldIssue("1000", "0"), Cashflow: schedule, Price: 105, Valuation: valuation})
	if err != nil {
		t.Fatalf("Yield at premium failed: %v", err)
	}

	if !(atDiscount.YTM > atPar.YTM && atPar.YTM > atPremium.YTM) {
		t.Errorf("yields not ordered: discount %v, par %v, premium %v",
			atDiscount.YTM, atPar.YTM, atPremium.YTM)
	}
}

func TestYieldSkipsSettledPayments(t *testing.T) {
	valuation := date(2026, time.June, 1)

	cf := &models.Cashflow{Rows: []models.CashflowRow{
		{Date: date(2026, time.January, 15), Coupon: amount(35)},   // already paid
		{Date: date(2026, time.June, 1), Coupon: amount(35)},       // on the valuation date, excluded
		{Date: date(2027, time.June, 1), Coupon: amount(70), Amort: amount(1000)},
	}}

	result, err := Yield(YieldInput{
		Issue:     yieldIssue("1000", "0"),
		Cashflow:  cf,
		Price:     100,
		Valuation: valuation,
	})
	if err != nil {
		t.Fatalf("Yield failed: %v", err)
	}
	if result.Flows != 1 {
		t.Errorf("Flows = %d, want only the future payment", result.Flows)
	}
}

func TestYieldRefusals(t *testing.T) {
	valuation := date(2026, time.January, 1)

	testCases := []struct {
		name     string
		issue    *models.Issue
		cashflow *models.Cashflow
	}{
		{
			"unknown coupon amounts",
			yieldIssue("1000", "0"),
			&models.Cashflow{Rows: []models.CashflowRow{
				{Date: date(2027, time.January, 1), Amort: amount(1000)},
			}},
		},
		{
			"embedded offer",
			yieldIssue("1000", "0"),
			&models.Cashflow{Rows: []models.CashflowRow{
				{Date: date(2026, time.July, 1), Coupon: amount(35), Offer: amount(100)},
				{Date: date(2027, time.January, 1), Coupon: amount(35), Amort: amount(1000)},
			}},
		},
		{
			"offer by type only",
			yieldIssue("1000", "0"),
			&models.Cashflow{Rows: []models.CashflowRow{
				{Date: date(2026, time.July, 1), Coupon: amount(35), OfferType: "Оферта"},
				{Date: date(2027, time.January, 1), Coupon: amount(35), Amort: amount(1000)},
			}},
		},
		{
			"no payments after valuation",
			yieldIssue("1000", "0"),
			&models.Cashflow{Rows: []models.CashflowRow{
				{Date: date(2025, time.January, 1), Coupon: amount(70), Amort: amount(1000)},
			}},
		},
		{
			"face value missing",
			yieldIssue(models.Missing, "0"),
			annualSchedule(valuation, 70, 1),
		},
		{
			"accrued interest missing",
			yieldIssue("1000", models.Missing),
			annualSchedule(valuation, 70, 1),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Yield(YieldInput{
				Issue:     tc.issue,
				Cashflow:  tc.cashflow,
				Price:     100,
				Valuation: valuation,
			})
			if err == nil {
				t.Fatal("expected a refusal")
			}
			if !apperrors.Is(err, apperrors.ErrYieldUnavailable) {
				t.Errorf("expected ErrYieldUnavailable, got %v", err)
			}
			var yieldErr *apperrors.YieldError
			if !apperrors.As(err, &yieldErr) {
				t.Errorf("expected a YieldError, got %T", err)
			}
		})
	}
}
