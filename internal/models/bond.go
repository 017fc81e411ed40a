// Package models provides domain models for the bond-info application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Missing is the display marker for absent values, as the exchange
// terminal renders them.
const Missing = "–"

// IssueRow is one attribute row of the issue table.
type IssueRow struct {
	Field string `json:"field"` // ISS field name, e.g. "MATDATE"
	Label string `json:"label"` // human-readable label from the feed
	Value string `json:"value"` // display value; Missing when absent
}

// Issue is the ordered issue-characteristics table for one bond.
type Issue struct {
	Rows []IssueRow `json:"rows"`
}

// Value returns the display value for a field and whether the field is
// present with a real (non-Missing) value.
func (i *Issue) Value(field string) (string, bool) {
	for _, r := range i.Rows {
		if r.Field == field {
			return r.Value, r.Value != Missing && r.Value != ""
		}
	}
	return "", false
}

// SecID returns the bond's exchange ticker.
func (i *Issue) SecID() string {
	v, _ := i.Value("SECID")
	return v
}

// ISIN returns the bond's ISIN.
func (i *Issue) ISIN() string {
	v, _ := i.Value("ISIN")
	return v
}

// ShortName returns the bond's short display name.
func (i *Issue) ShortName() string {
	v, _ := i.Value("SHORTNAME")
	return v
}

// CashflowRow is one scheduled date of a bond's payment calendar. A date
// may carry any combination of coupon, amortization and offer; absent
// components are invalid NullDecimals. Nominal is the face value still
// outstanding after the date settles; unset when the initial face value
// is unknown.
type CashflowRow struct {
	Date      time.Time           `json:"date"`
	Coupon    decimal.NullDecimal `json:"coupon"`
	Amort     decimal.NullDecimal `json:"amortization"`
	Offer     decimal.NullDecimal `json:"offer"`
	OfferType string              `json:"offer_type,omitempty"`
	Nominal   decimal.NullDecimal `json:"nominal"`
}

// HasOffer reports whether the row carries an embedded put/call offer.
func (r CashflowRow) HasOffer() bool {
	return r.Offer.Valid || r.OfferType != ""
}

// Payment returns the coupon plus amortization amount for the date;
// absent components count as zero.
func (r CashflowRow) Payment() decimal.Decimal {
	sum := decimal.Zero
	if r.Coupon.Valid {
		sum = sum.Add(r.Coupon.Decimal)
	}
	if r.Amort.Valid {
		sum = sum.Add(r.Amort.Decimal)
	}
	return sum
}

// Cashflow is the chronological payment schedule of one bond.
type Cashflow struct {
	Title string        `json:"title"` // bond SHORTNAME
	Rows  []CashflowRow `json:"rows"`  // ascending by date
}

// HasOffers reports whether any row carries an offer.
func (c *Cashflow) HasOffers() bool {
	for _, r := range c.Rows {
		if r.HasOffer() {
			return true
		}
	}
	return false
}

// AmortizationTotal sums all amortization amounts of the schedule.
func (c *Cashflow) AmortizationTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range c.Rows {
		if r.Amort.Valid {
			sum = sum.Add(r.Amort.Decimal)
		}
	}
	return sum
}

// SecurityMatch is one row of the ISS securities search result.
type SecurityMatch struct {
	SecID     string `json:"secid"`
	ISIN      string `json:"isin"`
	ShortName string `json:"shortname"`
	Name      string `json:"name"`
	Emitent   string `json:"emitent,omitempty"`
}

// LookupDirection selects the resolution direction of a security lookup.
type LookupDirection string

const (
	ISINToSecID LookupDirection = "isin2secid"
	SecIDToISIN LookupDirection = "secid2isin"
)
