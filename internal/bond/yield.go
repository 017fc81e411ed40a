package bond

import (
	"fmt"
	"math"
	"strconv"
	"time"

	apperrors "moex-bonds/internal/errors"
	"moex-bonds/internal/models"
	"moex-bonds/pkg/utils"
)

// YieldInput holds the parameters needed to compute a bond's yield to
// maturity from its assembled tables.
type YieldInput struct {
	// Issue is the assembled issue table; FACEVALUE and ACCRUEDINT feed
	// the purchase flow.
	Issue *models.Issue
	// Cashflow is the full payment schedule. Only events strictly after
	// the valuation date enter the flow series.
	Cashflow *models.Cashflow
	// Price is the clean price in percent of face value (e.g. 98.5).
	Price float64
	// Valuation is the purchase date the series is discounted to.
	Valuation time.Time
}

// YieldResult is the output of Yield.
type YieldResult struct {
	// YTM is the annualized yield in percent, rounded to two decimals.
	YTM float64
	// Flows is the number of future payments in the series.
	Flows int
	// Iterations is the number of solver steps taken.
	Iterations int
}

// Yield computes the XIRR-style yield to maturity of the bond: the rate r
// with Σ amountᵢ/(1+r)^tᵢ = 0, tᵢ taken ACT/ACT ISDA from the valuation
// date. The purchase flow is -(price/100 × facevalue) - accrued interest.
//
// Bonds with unknown coupon amounts or embedded offers are refused: the
// schedule does not determine the flows.
func Yield(in YieldInput) (YieldResult, error) {
	secID := in.Issue.SecID()

	for _, row := range in.Cashflow.Rows {
		if !row.Coupon.Valid {
			return YieldResult{}, apperrors.NewYieldError(secID, "schedule has unknown coupon amounts")
		}
	}
	if in.Cashflow.HasOffers() {
		return YieldResult{}, apperrors.NewYieldError(secID, "bond carries embedded offers")
	}

	facevalue, err := issueFloat(in.Issue, "FACEVALUE")
	if err != nil {
		return YieldResult{}, apperrors.NewYieldError(secID, "face value or accrued interest is missing")
	}
	accrued, err := issueFloat(in.Issue, "ACCRUEDINT")
	if err != nil {
		return YieldResult{}, apperrors.NewYieldError(secID, "face value or accrued interest is missing")
	}

	times := []float64{0}
	amounts := []float64{-in.Price/100*facevalue - accrued}
	for _, row := range in.Cashflow.Rows {
		if !row.Date.After(in.Valuation) {
			continue
		}
		times = append(times, utils.YearFraction(in.Valuation, row.Date, utils.DayCountActActISDA))
		amounts = append(amounts, row.Payment().InexactFloat64())
	}
	if len(times) == 1 {
		return YieldResult{}, apperrors.NewYieldError(secID, "no payments after the valuation date")
	}

	rate, iterations, err := solveXIRR(times, amounts)
	if err != nil {
		return YieldResult{}, err
	}

	return YieldResult{
		YTM:        math.Round(rate*100*100) / 100,
		Flows:      len(times) - 1,
		Iterations: iterations,
	}, nil
}

func issueFloat(issue *models.Issue, field string) (float64, error) {
	raw, ok := issue.Value(field)
	if !ok {
		return 0, fmt.Errorf("issueFloat: %s missing", field)
	}
	return strconv.ParseFloat(raw, 64)
}

// ---------------------------------------------------------------------------
// XIRR solver (unexported)
// ---------------------------------------------------------------------------

const (
	xirrGuess     = 0.10
	xirrTolerance = 1e-10
	xirrMaxIter   = 100
	xirrRateFloor = -0.999999
	xirrRateCap   = 1e3
	xirrBisectHi  = 10.0
)

// solveXIRR finds r with npv(r) = 0 via Newton-Raphson with analytic
// derivative, falling back to bisection when the iteration leaves the
// valid rate range or stalls.
func solveXIRR(times, amounts []float64) (float64, int, error) {
	r := xirrGuess
	for iter := 0; iter < xirrMaxIter; iter++ {
		f, df := npvAndDeriv(r, times, amounts)
		if math.Abs(f) < xirrTolerance {
			return r, iter + 1, nil
		}
		if math.Abs(df) < 1e-15 {
			break
		}
		next := r - f/df
		if math.IsNaN(next) || next <= xirrRateFloor || next > xirrRateCap {
			break
		}
		if math.Abs(next-r) < 1e-15 {
			return next, iter + 1, nil
		}
		r = next
	}
	return bisectXIRR(times, amounts)
}

// npvAndDeriv returns (npv, dNPV/dr) at rate r.
//
//	npv   = Σ CFᵢ / (1+r)^tᵢ
//	dN/dr = Σ −tᵢ · CFᵢ / (1+r)^(tᵢ+1)
func npvAndDeriv(r float64, times, amounts []float64) (float64, float64) {
	var f, df float64
	for i, t := range times {
		disc := math.Pow(1.0+r, t)
		f += amounts[i] / disc
		df += -t * amounts[i] / math.Pow(1.0+r, t+1)
	}
	return f, df
}

func npv(r float64, times, amounts []float64) float64 {
	var f float64
	for i, t := range times {
		f += amounts[i] / math.Pow(1.0+r, t)
	}
	return f
}

// bisectXIRR brackets the root between the rate floor and an expanding
// upper bound, then halves in.
func bisectXIRR(times, amounts []float64) (float64, int, error) {
	lo, hi := xirrRateFloor, xirrBisectHi
	flo := npv(lo, times, amounts)
	fhi := npv(hi, times, amounts)

	for flo*fhi > 0 && hi < xirrRateCap {
		hi *= 2
		fhi = npv(hi, times, amounts)
	}
	if flo*fhi > 0 {
		return 0, 0, fmt.Errorf("Yield: no sign change in [%g, %g]", lo, hi)
	}

	for iter := 0; iter < 200; iter++ {
		mid := (lo + hi) / 2
		fmid := npv(mid, times, amounts)
		if math.Abs(fmid) < xirrTolerance || (hi-lo)/2 < 1e-12 {
			return mid, iter + 1, nil
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}
	}
	return 0, 200, fmt.Errorf("Yield: did not converge after 200 bisection steps")
}
