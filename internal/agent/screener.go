// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/bond-desk/internal/dataset"
	"github.com/pdiddy/bond-desk/internal/extract"
	"github.com/pdiddy/bond-desk/pkg/types"
)

// ScreenerID is the screener agent's routing identifier.
const ScreenerID = "bond_screener"

const defaultNewsCap = 5

// metricDisplay maps canonical metric keys to display names used in
// rendered messages and table headers.
var metricDisplay = map[string]string{
	"eps":                "EPS",
	"current_ratio":      "Current Ratio",
	"debt_equity":        "Debt/Equity",
	"debt_ebitda":        "Debt/EBITDA",
	"interest_coverage":  "Interest Coverage Ratio",
	"operating_cashflow": "Operating Cashflow",
	"roe":                "ROE",
	"roa":                "ROA",
}

// lowerIsBetter marks the metrics where the comparison conclusion
// names the smallest value instead of the largest.
var lowerIsBetter = map[string]bool{
	"debt_equity": true,
	"debt_ebitda": true,
}

// Screener answers company-analysis queries over the screener store:
// summaries, single metrics, cross-company comparisons, pros and cons,
// lenders, and recent news.
type Screener struct {
	store   *dataset.ScreenerStore
	newsCap int
	rules   []rule
	log     *zap.Logger
}

// NewScreener builds the screener agent over an already-populated
// store. The store is shared and read-only.
func NewScreener(store *dataset.ScreenerStore, cfg types.ScreenerConfig, log *zap.Logger) *Screener {
	newsCap := cfg.NewsCap
	if newsCap <= 0 {
		newsCap = defaultNewsCap
	}

	s := &Screener{store: store, newsCap: newsCap, log: log}

	// Most rules guard on a validated company name so that, say, a
	// "news" trigger without a known company falls through to later
	// rules and ultimately to general help, rather than erroring.
	hasCompany := func(query string) bool {
		_, ok := extract.Company(query, s.store.CompanyNames())
		return ok
	}

	s.rules = []rule{
		{
			name:    "company_summary",
			trigger: regexp.MustCompile(`(?i)(summary|information|about)\s+(for|about|on)\s+`),
			guard:   hasCompany,
			handle:  s.handleSummary,
		},
		{
			name:    "company_metric",
			trigger: regexp.MustCompile(`(?i)(what|get|show).+(is|the)\s+(EPS|current\s+ratio|debt[/\\]equity|debt[/\\]EBITDA|interest\s+coverage|operating\s+cashflow|ROE|ROA)`),
			guard:   hasCompany,
			handle:  s.handleMetric,
		},
		{
			name:    "compare_metrics",
			trigger: regexp.MustCompile(`(?i)compare\s+(EPS|current\s+ratio|debt[/\\]equity|debt[/\\]EBITDA|interest\s+coverage|operating\s+cashflow|ROE|ROA)`),
			guard: func(query string) bool {
				return len(extract.Companies(query, s.store.CompanyNames())) >= 2
			},
			handle: s.handleCompare,
		},
		{
			name:    "pros_cons",
			trigger: regexp.MustCompile(`(?i)(pros|cons|strengths|weaknesses)`),
			guard:   hasCompany,
			handle:  s.handleProsCons,
		},
		{
			name:    "lenders_list",
			trigger: regexp.MustCompile(`(?i)(lenders|lent|borrowed|loan)`),
			guard:   hasCompany,
			handle:  s.handleLenders,
		},
		{
			name:    "recent_news",
			trigger: regexp.MustCompile(`(?i)(news|recent|updates|articles)`),
			guard:   hasCompany,
			handle:  s.handleNews,
		},
		{
			// A bare company name with no specific intent reads as a
			// summary request. The trigger always matches; the guard
			// does the real work.
			name:    "bare_company_summary",
			trigger: regexp.MustCompile(`.`),
			guard:   hasCompany,
			handle:  s.handleSummary,
		},
	}

	return s
}

// ID implements Agent.
func (s *Screener) ID() string { return ScreenerID }

// Patterns implements Agent.
func (s *Screener) Patterns() []*regexp.Regexp {
	// The bare-company catch-all matches every query and would
	// credit the screener one trigger count for any input, so it is
	// excluded from the routing pattern set.
	return triggers(s.rules[:len(s.rules)-1])
}

// ProcessQuery implements Agent.
func (s *Screener) ProcessQuery(query string) types.Response {
	return runCascade(s.log, ScreenerID, s.rules, query, s.generalHelp)
}

func (s *Screener) generalHelp() types.Response {
	return types.Response{
		Type: types.RespGeneralHelp,
		Message: "I can help you analyze companies in our bond screener. " +
			"You can ask about:\n\n" +
			"- Company summaries and key metrics\n" +
			"- Specific financial metrics (EPS, Debt/Equity, etc.)\n" +
			"- Compare metrics between companies\n" +
			"- Pros and cons of a company\n" +
			"- Lenders of a company\n" +
			"- Recent news about a company",
	}
}

// unknownCompany builds the not-found error for a failed lookup. The
// message names the raw mention the shape patterns proposed, never the
// query text itself.
func (s *Screener) unknownCompany(query string) types.Response {
	if candidate, ok := extract.CompanyCandidate(query); ok {
		return companyNotFound(candidate)
	}
	return companyNotFound("unknown")
}

func companyNotFound(name string) types.Response {
	return types.Response{
		Type:    types.RespError,
		Error:   types.ErrCompanyNotFound,
		Company: name,
		Message: fmt.Sprintf("Company '%s' was not found in our database.", name),
	}
}

// lookupCompany resolves the query's company mention against the
// store. The guards make a miss here unusual, not impossible: the
// store lookup is the source of truth.
func (s *Screener) lookupCompany(query string) (string, bool) {
	return extract.Company(query, s.store.CompanyNames())
}

func (s *Screener) handleSummary(query string) types.Response {
	name, ok := s.lookupCompany(query)
	if !ok {
		return s.unknownCompany(query)
	}
	profile, err := s.store.FindProfile(name)
	if err != nil {
		return storeError(err)
	}
	if profile == nil {
		return companyNotFound(name)
	}

	msg := fmt.Sprintf(
		"## Summary for %s\n\n"+
			"**Rating**: %s\n"+
			"**Sector**: %s\n"+
			"**Industry**: %s\n\n"+
			"### Key Metrics\n"+
			"- EPS: %s\n"+
			"- Current Ratio: %s\n"+
			"- Debt/Equity: %s\n"+
			"- Debt/EBITDA: %s\n"+
			"- Interest Coverage Ratio: %s\n\n"+
			"%s",
		profile.Company.Name,
		orNA(profile.Company.Rating),
		orNA(profile.Company.Sector),
		orNA(profile.Company.Industry),
		orNA(profile.EPS),
		orNA(profile.CurrentRatio),
		orNA(profile.DebtEquity),
		orNA(profile.DebtEBITDA),
		orNA(profile.InterestCoverage),
		profile.Company.Description,
	)

	return types.Response{
		Type:    types.RespCompanySummary,
		Company: profile.Company.Name,
		Message: msg,
		Data:    *profile,
	}
}

func (s *Screener) handleMetric(query string) types.Response {
	name, ok := s.lookupCompany(query)
	if !ok {
		return s.unknownCompany(query)
	}
	metric, ok := extract.Metric(query)
	if !ok {
		return s.generalHelp()
	}

	value, company, found, err := s.store.Metric(name, metric)
	if err != nil {
		return storeError(err)
	}
	if !found {
		return companyNotFound(name)
	}

	return types.Response{
		Type:    types.RespCompanyMetric,
		Company: company,
		Metric:  metric,
		Message: fmt.Sprintf("The %s for %s is %s.", metricDisplay[metric], company, orNA(value)),
		Data:    value,
	}
}

func (s *Screener) handleCompare(query string) types.Response {
	metric, ok := extract.Metric(query)
	if !ok {
		return s.generalHelp()
	}
	companies := extract.Companies(query, s.store.CompanyNames())
	if len(companies) < 2 {
		return s.generalHelp()
	}

	display := metricDisplay[metric]

	type entry struct {
		company string
		raw     string
		value   float64
		numeric bool
	}
	entries := make([]entry, 0, len(companies))
	for _, c := range companies {
		value, resolved, found, err := s.store.Metric(c, metric)
		if err != nil {
			return storeError(err)
		}
		if !found {
			continue
		}
		e := entry{company: resolved, raw: value}
		if v, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			e.value, e.numeric = v, true
		}
		entries = append(entries, e)
	}
	if len(entries) < 2 {
		return types.Response{
			Type:    types.RespNoResults,
			Message: fmt.Sprintf("Not enough data to compare %s across the requested companies.", display),
		}
	}

	var rows strings.Builder
	var best *entry
	for i := range entries {
		fmt.Fprintf(&rows, "| %s | %s |\n", entries[i].company, orNA(entries[i].raw))
		if !entries[i].numeric {
			continue
		}
		if best == nil {
			best = &entries[i]
			continue
		}
		if lowerIsBetter[metric] {
			if entries[i].value < best.value {
				best = &entries[i]
			}
		} else if entries[i].value > best.value {
			best = &entries[i]
		}
	}

	conclusion := fmt.Sprintf("No numeric %s values were available to compare.", display)
	if best != nil {
		if lowerIsBetter[metric] {
			conclusion = fmt.Sprintf("%s has the lowest %s at %s.", best.company, display, best.raw)
		} else {
			conclusion = fmt.Sprintf("%s has the highest %s at %s.", best.company, display, best.raw)
		}
	}

	msg := fmt.Sprintf(
		"## Comparison: %s\n\n"+
			"| Company | %s |\n"+
			"|---------|%s|\n"+
			"%s\n"+
			"%s",
		display, display, strings.Repeat("-", len(display)), rows.String(), conclusion)

	return types.Response{
		Type:    types.RespCompareMetrics,
		Metric:  metric,
		Count:   len(entries),
		Message: msg,
		Data:    entries2data(entries, func(e entry) map[string]string {
			return map[string]string{"company": e.company, "value": e.raw}
		}),
	}
}

// entries2data renders handler-local aggregates into a JSON-friendly
// shape for the Data field.
func entries2data[T any](entries []T, row func(T) map[string]string) []map[string]string {
	out := make([]map[string]string, len(entries))
	for i, e := range entries {
		out[i] = row(e)
	}
	return out
}

func (s *Screener) handleProsCons(query string) types.Response {
	name, ok := s.lookupCompany(query)
	if !ok {
		return s.unknownCompany(query)
	}
	profile, err := s.store.FindProfile(name)
	if err != nil {
		return storeError(err)
	}
	if profile == nil {
		return companyNotFound(name)
	}

	msg := fmt.Sprintf(
		"## PROS and CONS for %s\n\n### PROS\n%s\n\n### CONS\n%s",
		profile.Company.Name,
		bulleted(dataset.SplitList(profile.Company.Pros)),
		bulleted(dataset.SplitList(profile.Company.Cons)))

	return types.Response{
		Type:    types.RespProsCons,
		Company: profile.Company.Name,
		Message: msg,
	}
}

func (s *Screener) handleLenders(query string) types.Response {
	name, ok := s.lookupCompany(query)
	if !ok {
		return s.unknownCompany(query)
	}
	profile, err := s.store.FindProfile(name)
	if err != nil {
		return storeError(err)
	}
	if profile == nil {
		return companyNotFound(name)
	}

	lenders := dataset.SplitList(profile.Company.Lenders)
	top := lenders[:minInt(len(lenders), 3)]

	msg := fmt.Sprintf(
		"## Lenders for %s\n\n%s\n\nTop 3 lenders: %s",
		profile.Company.Name, bulleted(lenders), strings.Join(top, ", "))

	return types.Response{
		Type:    types.RespLendersList,
		Company: profile.Company.Name,
		Count:   len(lenders),
		Message: msg,
		Data:    lenders,
	}
}

func (s *Screener) handleNews(query string) types.Response {
	name, ok := s.lookupCompany(query)
	if !ok {
		return s.unknownCompany(query)
	}
	items, err := s.store.News(name, s.newsCap)
	if err != nil {
		return storeError(err)
	}
	if len(items) == 0 {
		return types.Response{
			Type:    types.RespNoResults,
			Company: name,
			Message: fmt.Sprintf("No recent news found for %s.", name),
		}
	}

	var list strings.Builder
	for _, item := range items {
		fmt.Fprintf(&list, "- %s: %s\n", item.Date, item.Headline)
	}

	return types.Response{
		Type:    types.RespRecentNews,
		Company: items[0].Company,
		Count:   len(items),
		Message: fmt.Sprintf("## Recent News for %s\n\n%s", items[0].Company, list.String()),
		Data:    items,
	}
}

// bulleted renders list items as markdown bullets, "N/A" when empty.
func bulleted(items []string) string {
	if len(items) == 0 {
		return "N/A"
	}
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return strings.TrimRight(b.String(), "\n")
}

// storeError wraps an unexpected screener-store failure in the error
// envelope. This path only fires on database faults, not on misses.
func storeError(err error) types.Response {
	return types.Response{
		Type:    types.RespError,
		Error:   "store_error",
		Message: fmt.Sprintf("An internal error occurred while querying the screener: %v.", err),
	}
}
