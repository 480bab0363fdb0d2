// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/bond-desk/internal/extract"
	"github.com/pdiddy/bond-desk/internal/filter"
	"github.com/pdiddy/bond-desk/pkg/types"
)

// FinderID is the finder agent's routing identifier.
const FinderID = "bond_finder"

const (
	defaultTableCap  = 10
	defaultSampleCap = 5
)

// Platform names the desk is currently tied up with, in display order.
var platforms = []string{"SMEST", "FixedIncome"}

// Finder answers cross-platform bond availability queries: where an
// issuer's bonds can be bought, yield and rating screens, and
// best-yield comparisons between platforms.
type Finder struct {
	listings  []types.Listing
	issuers   []string
	tableCap  int
	sampleCap int
	rules     []rule
	log       *zap.Logger
}

// NewFinder builds the finder agent over an already-loaded listings
// store. The store is treated as read-only from here on.
func NewFinder(listings []types.Listing, cfg types.FinderConfig, log *zap.Logger) *Finder {
	tableCap := cfg.TableCap
	if tableCap <= 0 {
		tableCap = defaultTableCap
	}
	sampleCap := cfg.SampleCap
	if sampleCap <= 0 {
		sampleCap = defaultSampleCap
	}

	f := &Finder{
		listings:  listings,
		issuers:   distinct(listings, func(l types.Listing) string { return l.Issuer }),
		tableCap:  tableCap,
		sampleCap: sampleCap,
		log:       log,
	}

	f.rules = []rule{
		{
			name:    "general_info",
			trigger: regexp.MustCompile(`(?i)(show|what).+(available|bonds).+bond\s+finder`),
			handle:  f.handleGeneralInfo,
		},
		{
			name:    "platform_availability",
			trigger: regexp.MustCompile(`(?i)(where|which\s+platform).+(buy|purchase|find).+from\s+[A-Za-z]`),
			handle:  f.handlePlatformAvailability,
		},
		{
			name:    "yield_search",
			trigger: regexp.MustCompile(`(?i)(yield|bonds).+(more|greater|higher|above)\s+than\s+\d`),
			handle:  f.handleYieldSearch,
		},
		{
			name:    "best_yield",
			trigger: regexp.MustCompile(`(?i)(best|highest|maximum).+(yield|return)`),
			handle:  f.handleBestYield,
		},
		{
			name:    "rating_search",
			trigger: regexp.MustCompile(`(?i)(rating|rated).+(of|as|with)\s+[A-Za-z]`),
			handle:  f.handleRatingSearch,
		},
	}

	return f
}

// ID implements Agent.
func (f *Finder) ID() string { return FinderID }

// Patterns implements Agent.
func (f *Finder) Patterns() []*regexp.Regexp { return triggers(f.rules) }

// ProcessQuery implements Agent.
func (f *Finder) ProcessQuery(query string) types.Response {
	return runCascade(f.log, FinderID, f.rules, query, f.generalHelp)
}

func (f *Finder) generalHelp() types.Response {
	return types.Response{
		Type: types.RespGeneralHelp,
		Message: "I can help you find and compare bonds across different platforms. " +
			"You can ask about:\n\n" +
			"- Bonds available in the bond finder\n" +
			"- Where to buy bonds from a specific issuer\n" +
			"- Bonds with yields above a certain percentage\n" +
			"- Which platform offers the best yield for a specific term\n" +
			"- Bonds with specific credit ratings",
	}
}

// truthy reports whether an availability flag cell means "listed here".
func truthy(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "yes", "true", "y", "1":
		return true
	}
	return false
}

// listingPlatforms returns the platforms one listing is available on.
func listingPlatforms(l types.Listing) []string {
	var out []string
	if truthy(l.AvailableOnSMEST) {
		out = append(out, platforms[0])
	}
	if truthy(l.AvailableOnFixedIncome) {
		out = append(out, platforms[1])
	}
	return out
}

// platformsForIssuer unions availability flags across an issuer's rows.
func (f *Finder) platformsForIssuer(issuer string) []string {
	onSMEST, onFixedIncome := false, false
	for _, l := range f.listings {
		if !strings.Contains(strings.ToLower(l.Issuer), strings.ToLower(issuer)) {
			continue
		}
		onSMEST = onSMEST || truthy(l.AvailableOnSMEST)
		onFixedIncome = onFixedIncome || truthy(l.AvailableOnFixedIncome)
	}
	var out []string
	if onSMEST {
		out = append(out, platforms[0])
	}
	if onFixedIncome {
		out = append(out, platforms[1])
	}
	return out
}

// listingTable renders rows in the finder's standard table shape.
func listingTable(rows []types.Listing) string {
	var table strings.Builder
	for _, l := range rows {
		fmt.Fprintf(&table, "%s | %s | %s%%-%s%% | %s\n",
			orNA(l.Issuer), orNA(l.Rating), orNA(l.YieldMin), orNA(l.YieldMax),
			strings.Join(listingPlatforms(l), ", "))
	}
	return table.String()
}

const listingTableHeader = "Issuer | Rating | Yield | Available at\n-------|--------|-------|------------\n"

// handleGeneralInfo shows a per-issuer sample of what the finder
// currently carries (prd003-finder R2.1).
func (f *Finder) handleGeneralInfo(string) types.Response {
	unique := make([]types.Listing, 0, f.sampleCap)
	seen := make(map[string]bool)
	for _, l := range f.listings {
		key := strings.ToLower(l.Issuer)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, l)
		if len(unique) == f.sampleCap {
			break
		}
	}

	msg := fmt.Sprintf(
		"Currently showcasing bonds available on %s.\n\nSample bonds:\n\n%s%s",
		strings.Join(platforms, " and "), listingTableHeader, listingTable(unique))

	return types.Response{
		Type:    types.RespGeneralInfo,
		Count:   len(unique),
		Message: msg,
		Data:    unique,
	}
}

// handlePlatformAvailability reports where one issuer's bonds can be
// bought and the yield range on offer (prd003-finder R2.3).
func (f *Finder) handlePlatformAvailability(query string) types.Response {
	issuer, ok := extract.IssuerClaim(query, f.issuers)
	if !ok {
		candidate, found := extract.IssuerCandidate(query)
		if !found {
			candidate = "that issuer"
		}
		return types.Response{
			Type:    types.RespError,
			Error:   types.ErrIssuerNotFound,
			Issuer:  candidate,
			Message: fmt.Sprintf("Bonds from %s are currently not available.", candidate),
		}
	}

	rows := filter.Apply(f.listings,
		filter.Contains(func(l types.Listing) string { return l.Issuer }, issuer))
	if len(rows) == 0 {
		return types.Response{
			Type:    types.RespError,
			Error:   types.ErrIssuerNotFound,
			Issuer:  issuer,
			Message: fmt.Sprintf("Bonds from %s are currently not available.", issuer),
		}
	}

	low, high := yieldRange(rows)
	msg := fmt.Sprintf("%s bonds available on %s with a yield range of %s%%-%s%%.",
		issuer, strings.Join(f.platformsForIssuer(issuer), " and "), low, high)

	return types.Response{
		Type:    types.RespPlatformAvail,
		Issuer:  issuer,
		Count:   len(rows),
		Message: msg,
		Data:    rows,
	}
}

// yieldRange returns the lowest yield_min and highest yield_max across
// rows as display strings; unparsable cells are skipped.
func yieldRange(rows []types.Listing) (low, high string) {
	lowV, highV := 0.0, 0.0
	haveLow, haveHigh := false, false
	for _, l := range rows {
		if v, err := strconv.ParseFloat(strings.TrimSpace(l.YieldMin), 64); err == nil {
			if !haveLow || v < lowV {
				lowV, haveLow = v, true
				low = l.YieldMin
			}
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(l.YieldMax), 64); err == nil {
			if !haveHigh || v > highV {
				highV, haveHigh = v, true
				high = l.YieldMax
			}
		}
	}
	return orNA(low), orNA(high)
}

// handleYieldSearch lists bonds whose top-end yield strictly exceeds
// the extracted threshold (prd003-finder R2.2).
func (f *Finder) handleYieldSearch(query string) types.Response {
	minYield, ok := extract.YieldAbove(query)
	if !ok {
		return f.generalHelp()
	}

	rows := filter.Apply(f.listings,
		filter.GreaterThan(func(l types.Listing) string { return l.YieldMax }, minYield))
	if len(rows) == 0 {
		return types.Response{
			Type:    types.RespNoResults,
			Message: fmt.Sprintf("No bonds currently offer a yield above %g%%.", minYield),
		}
	}

	capped := rows[:minInt(len(rows), f.tableCap)]
	var overflow string
	if len(rows) > f.tableCap {
		overflow = fmt.Sprintf("\n... and %d more bonds.\n", len(rows)-f.tableCap)
	}

	msg := fmt.Sprintf("Bonds with yield more than %g%%:\n\n%s%s%s",
		minYield, listingTableHeader, listingTable(capped), overflow)

	return types.Response{
		Type:    types.RespYieldBasedSearch,
		Count:   len(rows),
		Message: msg,
		Data:    rows,
	}
}

// handleBestYield names the platform offering the highest yield,
// optionally scoped to an N-year term (prd003-finder R2.4).
func (f *Finder) handleBestYield(query string) types.Response {
	rows := f.listings
	term, hasTerm := extract.Term(query)
	if hasTerm {
		rows = filter.Apply(rows,
			filter.IntEquals(func(l types.Listing) string { return l.TermYears }, term))
	}

	var best *types.Listing
	bestYield := 0.0
	for i := range rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(rows[i].YieldMax), 64)
		if err != nil {
			continue
		}
		if best == nil || v > bestYield {
			best = &rows[i]
			bestYield = v
		}
	}
	if best == nil {
		return types.Response{
			Type:    types.RespNoResults,
			Message: "No bonds match your specified criteria.",
		}
	}

	platformList := listingPlatforms(*best)
	platform := "SMEST"
	if len(platformList) > 0 {
		platform = platformList[0]
	}

	var msg string
	if hasTerm {
		msg = fmt.Sprintf("%s offers the highest yield at %s%% for %d-year bonds.",
			platform, best.YieldMax, term)
	} else {
		msg = fmt.Sprintf("%s offers the highest yield at %s%% across all terms.",
			platform, best.YieldMax)
	}

	return types.Response{
		Type:    types.RespBestYieldComparison,
		Message: msg,
		Data:    *best,
	}
}

// handleRatingSearch lists bonds whose rating contains the extracted
// grade. Substring match is intentionally broad: "AA" also returns
// "AA+" and "AA-" listings (prd003-finder R2.5).
func (f *Finder) handleRatingSearch(query string) types.Response {
	rating, ok := extract.Rating(query)
	if !ok {
		return f.generalHelp()
	}

	rows := filter.Apply(f.listings,
		filter.Contains(func(l types.Listing) string { return l.Rating }, rating))
	if len(rows) == 0 {
		return types.Response{
			Type:    types.RespNoResults,
			Message: fmt.Sprintf("No bonds with a %s rating are currently available.", rating),
		}
	}

	capped := rows[:minInt(len(rows), f.tableCap)]
	var overflow string
	if len(rows) > f.tableCap {
		overflow = fmt.Sprintf("\n... and %d more bonds.\n", len(rows)-f.tableCap)
	}

	msg := fmt.Sprintf("Bonds rated %s:\n\n%s%s%s",
		rating, listingTableHeader, listingTable(capped), overflow)

	return types.Response{
		Type:    types.RespRatingBasedSearch,
		Count:   len(rows),
		Message: msg,
		Data:    rows,
	}
}
