// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/bond-desk/internal/extract"
	"github.com/pdiddy/bond-desk/internal/filter"
	"github.com/pdiddy/bond-desk/pkg/types"
)

// timeNow is the schedule clock. Tests override it for determinism.
var timeNow = time.Now

// CashFlow is one synthetic payment in a bond's remaining schedule.
type CashFlow struct {
	Date   time.Time `json:"date" yaml:"date"`
	Amount float64   `json:"amount" yaml:"amount"`
	Kind   string    `json:"kind" yaml:"kind"` // "coupon" or "redemption"
}

// handleCashFlow renders the remaining payment schedule for one ISIN:
// annual coupons on the redemption-date anniversary, principal plus the
// final coupon at redemption (prd002-directory R2.6).
func (d *Directory) handleCashFlow(query string) types.Response {
	isin, _ := extract.ISIN(query)
	bond := d.findISIN(isin)
	if bond == nil {
		return isinNotFound(isin)
	}

	flows, ok := schedule(*bond, timeNow())
	if !ok {
		return types.Response{
			Type: types.RespNoResults,
			ISIN: bond.ISIN,
			Message: fmt.Sprintf(
				"A cash flow schedule for ISIN %s cannot be generated: the record is missing a usable redemption date, coupon rate, or face value.",
				bond.ISIN),
		}
	}

	var table strings.Builder
	for _, f := range flows {
		fmt.Fprintf(&table, "%s | ₹%.2f | %s\n", f.Date.Format("02-Jan-2006"), f.Amount, f.Kind)
	}

	msg := fmt.Sprintf(
		"Cash flow schedule for ISIN %s:\n\n"+
			"Date | Payment | Type\n"+
			"-----|---------|-----\n%s",
		bond.ISIN, table.String())

	return types.Response{
		Type:    types.RespCashFlowSchedule,
		ISIN:    bond.ISIN,
		Count:   len(flows),
		Message: msg,
		Data:    flows,
	}
}

// schedule generates the remaining payments from now until redemption.
// Payment dates are redemption-date anniversaries; the final flow
// carries principal plus the last coupon. Returns ok=false when the
// record lacks a parsable redemption date, coupon rate, or face value.
func schedule(bond types.Bond, now time.Time) ([]CashFlow, bool) {
	redemption, ok := filter.ParseDate(bond.RedemptionDate)
	if !ok || !redemption.After(now) {
		return nil, false
	}
	rate, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(bond.CouponRate), "%"), 64)
	if err != nil {
		return nil, false
	}
	face, err := strconv.ParseFloat(strings.TrimSpace(bond.FaceValue), 64)
	if err != nil {
		return nil, false
	}

	coupon := face * rate / 100

	// Walk anniversaries backward from redemption to now, then emit
	// them oldest first.
	var dates []time.Time
	for d := redemption; d.After(now); d = d.AddDate(-1, 0, 0) {
		dates = append(dates, d)
	}
	flows := make([]CashFlow, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		flows = append(flows, CashFlow{Date: dates[i], Amount: coupon, Kind: "coupon"})
	}
	flows[len(flows)-1].Amount += face
	flows[len(flows)-1].Kind = "redemption"

	return flows, true
}
