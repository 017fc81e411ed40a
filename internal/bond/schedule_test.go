package bond

import (
	"testing"
	"time"

	apperrors "moex-bonds/internal/errors"
	"moex-bonds/internal/models"
	"moex-bonds/internal/moex"
)

func fixtureBondization() *moex.Bondization {
	return &moex.Bondization{
		Coupons: moex.Table{
			Columns: []string{"coupondate", "value"},
			Data: [][]interface{}{
				{"2026-01-15", 35.4},
				{"2026-07-15", 35.4},
				{"2027-01-15", nil}, // amount not yet set by the issuer
			},
		},
		Amortizations: moex.Table{
			Columns: []string{"amortdate", "value"},
			Data: [][]interface{}{
				{"2026-07-15", 500.0},
				{"2027-01-15", 500.0},
			},
		},
		Offers: moex.Table{
			Columns: []string{"offerdate", "price", "offertype"},
			Data: [][]interface{}{
				{"2026-07-15", 100.0, "Оферта"},
			},
		},
	}
}

func fixtureIssue() *models.Issue {
	return &models.Issue{Rows: []models.IssueRow{
		{Field: "SECID", Label: "Код", Value: "RU000A0TEST1"},
		{Field: "SHORTNAME", Label: "Кратк. наим.", Value: "Тест-облигация"},
		{Field: "INITIALFACEVALUE", Label: "Номинал", Value: "1000"},
		{Field: "FACEVALUE", Label: "Номинал", Value: "1000"},
		{Field: "ACCRUEDINT", Label: "НКД", Value: "0"},
	}}
}

func TestBuildCashflow(t *testing.T) {
	cf, err := buildCashflow("RU000A0TEST1", fixtureBondization(), fixtureIssue())
	if err != nil {
		t.Fatalf("buildCashflow failed: %v", err)
	}

	if cf.Title != "Тест-облигация" {
		t.Errorf("Title = %q, want the bond short name", cf.Title)
	}

	// Three blocks merge into three dated events.
	if len(cf.Rows) != 3 {
		t.Fatalf("expected 3 events, got %d", len(cf.Rows))
	}

	wantDates := []string{"2026-01-15", "2026-07-15", "2027-01-15"}
	for i, want := range wantDates {
		if got := cf.Rows[i].Date.Format("2006-01-02"); got != want {
			t.Errorf("event %d date = %s, want %s", i, got, want)
		}
	}

	// First event: coupon only.
	first := cf.Rows[0]
	if !first.Coupon.Valid || first.Coupon.Decimal.String() != "35.4" {
		t.Errorf("event 0 coupon = %+v, want 35.4", first.Coupon)
	}
	if first.Amort.Valid || first.HasOffer() {
		t.Errorf("event 0 carries unexpected components: %+v", first)
	}

	// Second event: coupon, amortization and offer merged on one date.
	second := cf.Rows[1]
	if !second.Coupon.Valid || !second.Amort.Valid || !second.Offer.Valid {
		t.Errorf("event 1 should carry coupon, amortization and offer: %+v", second)
	}
	if second.OfferType != "Оферта" {
		t.Errorf("event 1 offer type = %q, want %q", second.OfferType, "Оферта")
	}
	if got := second.Payment().String(); got != "535.4" {
		t.Errorf("event 1 payment = %s, want 535.4", got)
	}

	// Third event: amortization with a null coupon amount.
	third := cf.Rows[2]
	if third.Coupon.Valid {
		t.Errorf("event 2 coupon should be unknown, got %s", third.Coupon.Decimal)
	}
	if !third.Amort.Valid || third.Amort.Decimal.String() != "500" {
		t.Errorf("event 2 amortization = %+v, want 500", third.Amort)
	}

	if !cf.HasOffers() {
		t.Error("HasOffers() = false with an offer in the schedule")
	}
	if got := cf.AmortizationTotal().String(); got != "1000" {
		t.Errorf("AmortizationTotal() = %s, want 1000", got)
	}
}

func TestBuildCashflowNominalTracking(t *testing.T) {
	cf, err := buildCashflow("RU000A0TEST1", fixtureBondization(), fixtureIssue())
	if err != nil {
		t.Fatalf("buildCashflow failed: %v", err)
	}

	// Outstanding face value after each date: 1000, 500, 0.
	want := []string{"1000", "500", "0"}
	for i, w := range want {
		if !cf.Rows[i].Nominal.Valid {
			t.Fatalf("event %d nominal not set", i)
		}
		if got := cf.Rows[i].Nominal.Decimal.String(); got != w {
			t.Errorf("event %d nominal = %s, want %s", i, got, w)
		}
	}
}

func TestBuildCashflowNoInitialFaceValue(t *testing.T) {
	issue := &models.Issue{Rows: []models.IssueRow{
		{Field: "SHORTNAME", Label: "Кратк. наим.", Value: "Тест"},
		{Field: "INITIALFACEVALUE", Label: "Номинал", Value: models.Missing},
	}}

	cf, err := buildCashflow("RU000A0TEST1", fixtureBondization(), issue)
	if err != nil {
		t.Fatalf("buildCashflow failed: %v", err)
	}

	for i, row := range cf.Rows {
		if row.Nominal.Valid {
			t.Errorf("event %d nominal set without an initial face value", i)
		}
	}
}

func TestBuildCashflowEmptySchedule(t *testing.T) {
	cf, err := buildCashflow("RU000A0TEST1", &moex.Bondization{}, fixtureIssue())
	if err != nil {
		t.Fatalf("buildCashflow failed: %v", err)
	}
	if len(cf.Rows) != 0 {
		t.Errorf("expected an empty schedule, got %d rows", len(cf.Rows))
	}
}

func TestBuildCashflowBadDates(t *testing.T) {
	testCases := []struct {
		name  string
		sched *moex.Bondization
	}{
		{
			"coupon without a date",
			&moex.Bondization{Coupons: moex.Table{
				Columns: []string{"coupondate", "value"},
				Data:    [][]interface{}{{nil, 35.4}},
			}},
		},
		{
			"unparseable amortization date",
			&moex.Bondization{Amortizations: moex.Table{
				Columns: []string{"amortdate", "value"},
				Data:    [][]interface{}{{"15.07.2026", 500.0}},
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildCashflow("RU000A0TEST1", tc.sched, fixtureIssue())
			if err == nil {
				t.Fatal("expected an error")
			}
			var dataErr *apperrors.DataError
			if !apperrors.As(err, &dataErr) {
				t.Errorf("expected a DataError, got %T: %v", err, err)
			}
		})
	}
}

func TestCashflowRowPayment(t *testing.T) {
	row := models.CashflowRow{Date: time.Now()}
	if got := row.Payment().String(); got != "0" {
		t.Errorf("empty row payment = %s, want 0", got)
	}
}
