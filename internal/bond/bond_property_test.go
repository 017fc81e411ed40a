package bond

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"moex-bonds/internal/moex"
	"moex-bonds/pkg/utils"
)

// Property: for any schedule the assembled cash flow is strictly
// chronological, and the outstanding nominal never increases and lands at
// the initial face value less the amortization total.
func TestProperty_CashflowAssembly(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	properties := gopter.NewProperties(parameters)

	properties.Property("schedule is strictly chronological", prop.ForAll(
		func(n, step, amortEvery int, couponVal float64) bool {
			sched := generateBondization(n, step, amortEvery, couponVal)
			cf, err := buildCashflow("RU000A0TEST1", sched, fixtureIssue())
			if err != nil {
				t.Logf("buildCashflow failed: %v", err)
				return false
			}
			for i := 1; i < len(cf.Rows); i++ {
				if !cf.Rows[i-1].Date.Before(cf.Rows[i].Date) {
					t.Logf("rows %d..%d out of order: %v, %v", i-1, i, cf.Rows[i-1].Date, cf.Rows[i].Date)
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 15),
		gen.IntRange(10, 400),
		gen.IntRange(1, 5),
		gen.Float64Range(1, 100),
	))

	properties.Property("outstanding nominal decreases to face minus amortizations", prop.ForAll(
		func(n, step, amortEvery int, couponVal float64) bool {
			sched := generateBondization(n, step, amortEvery, couponVal)
			cf, err := buildCashflow("RU000A0TEST1", sched, fixtureIssue())
			if err != nil {
				t.Logf("buildCashflow failed: %v", err)
				return false
			}
			if len(cf.Rows) == 0 {
				return true
			}

			prev := decimal.NewFromInt(1000)
			for i, row := range cf.Rows {
				if !row.Nominal.Valid {
					t.Logf("row %d nominal not tracked", i)
					return false
				}
				if row.Nominal.Decimal.GreaterThan(prev) {
					t.Logf("nominal grew at row %d: %s after %s", i, row.Nominal.Decimal, prev)
					return false
				}
				prev = row.Nominal.Decimal
			}

			want := decimal.NewFromInt(1000).Sub(cf.AmortizationTotal())
			last := cf.Rows[len(cf.Rows)-1].Nominal.Decimal
			if !last.Equal(want) {
				t.Logf("final nominal %s, want %s", last, want)
				return false
			}
			return true
		},
		gen.IntRange(1, 15),
		gen.IntRange(10, 400),
		gen.IntRange(1, 5),
		gen.Float64Range(1, 100),
	))

	properties.TestingRun(t)
}

// Property: the solver inverts the pricing relation. A bond bought at par
// yields its coupon rate, the discounted sum at the solved rate is zero,
// and a higher purchase price never raises the yield.
func TestProperty_Yield(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	properties := gopter.NewProperties(parameters)

	valuation := date(2026, time.January, 1)

	properties.Property("par bond yields its coupon rate", prop.ForAll(
		func(couponPercent float64, years int) bool {
			result, err := Yield(YieldInput{
				Issue:     yieldIssue("1000", "0"),
				Cashflow:  annualSchedule(valuation, couponPercent*10, years),
				Price:     100,
				Valuation: valuation,
			})
			if err != nil {
				t.Logf("Yield failed for %.2f%% over %d years: %v", couponPercent, years, err)
				return false
			}
			if math.Abs(result.YTM-couponPercent) > 0.0051 {
				t.Logf("par %.4f%% bond yields %.4f%%", couponPercent, result.YTM)
				return false
			}
			return true
		},
		gen.Float64Range(0.5, 25),
		gen.IntRange(1, 10),
	))

	properties.Property("solved rate zeroes the discounted sum", prop.ForAll(
		func(purchase float64, n int, payment float64) bool {
			times := []float64{0}
			amounts := []float64{-purchase}
			for i := 1; i <= n; i++ {
				times = append(times, float64(i)*0.5)
				a := payment
				if i == n {
					a += 1000
				}
				amounts = append(amounts, a)
			}

			rate, _, err := solveXIRR(times, amounts)
			if err != nil {
				t.Logf("solver failed for purchase %v, %d payments of %v: %v", purchase, n, payment, err)
				return false
			}
			if v := npv(rate, times, amounts); math.Abs(v) > 1e-6 {
				t.Logf("npv(%v) = %v", rate, v)
				return false
			}
			return true
		},
		gen.Float64Range(200, 3000),
		gen.IntRange(1, 30),
		gen.Float64Range(0, 200),
	))

	properties.Property("a higher price never raises the yield", prop.ForAll(
		func(price, bump float64) bool {
			schedule := annualSchedule(valuation, 70, 5)
			atLower, err := Yield(YieldInput{
				Issue: yieldIssue("1000", "0"), Cashflow: schedule, Price: price, Valuation: valuation,
			})
			if err != nil {
				t.Logf("Yield failed at price %v: %v", price, err)
				return false
			}
			atHigher, err := Yield(YieldInput{
				Issue: yieldIssue("1000", "0"), Cashflow: schedule, Price: price + bump, Valuation: valuation,
			})
			if err != nil {
				t.Logf("Yield failed at price %v: %v", price+bump, err)
				return false
			}
			if atLower.YTM < atHigher.YTM {
				t.Logf("price %v yields %v but price %v yields %v", price, atLower.YTM, price+bump, atHigher.YTM)
				return false
			}
			return true
		},
		gen.Float64Range(60, 140),
		gen.Float64Range(0.5, 20),
	))

	properties.TestingRun(t)
}

// generateBondization builds a schedule of n coupon dates step days apart,
// with an amortization of 125 on every amortEvery-th date.
func generateBondization(n, step, amortEvery int, couponVal float64) *moex.Bondization {
	base := date(2026, time.January, 15)

	coupons := moex.Table{Columns: []string{"coupondate", "value"}}
	amorts := moex.Table{Columns: []string{"amortdate", "value"}}
	for i := 0; i < n; i++ {
		d := utils.FormatISSDate(base.AddDate(0, 0, i*step))
		coupons.Data = append(coupons.Data, []interface{}{d, couponVal})
		if (i+1)%amortEvery == 0 {
			amorts.Data = append(amorts.Data, []interface{}{d, 125.0})
		}
	}

	return &moex.Bondization{Coupons: coupons, Amortizations: amorts}
}
