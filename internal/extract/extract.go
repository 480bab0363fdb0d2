// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls typed parameters out of free-text queries using
// ordered regular-expression rules with first-match-wins semantics.
// Extraction never fails hard: a non-match reports absent and the
// caller applies no-constraint semantics.
// Implements: prd001-extraction (R1-R4); docs/ARCHITECTURE § Extraction.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Parameter regex rules (R1.1). Order within each list is significant:
// the first pattern with a successful capture wins.
var (
	// isinRe matches an ISIN token after the literal word "ISIN".
	isinRe = regexp.MustCompile(`(?i)ISIN\s+([A-Z0-9]+)`)

	// bareTokenRe matches any uppercase alphanumeric token, used as a
	// fallback for document queries that omit the ISIN keyword.
	bareTokenRe = regexp.MustCompile(`\b([A-Z][A-Z0-9]{8,})\b`)

	// yearRe matches a 4-digit token.
	yearRe = regexp.MustCompile(`\b(\d{4})\b`)

	// maturityAfterRe captures an exclusive lower bound on maturity year.
	maturityAfterRe = regexp.MustCompile(`(?i)maturity.+after\s+(\d{4})`)

	// couponAboveRe captures an exclusive lower bound on coupon rate.
	couponAboveRe = regexp.MustCompile(`(?i)coupon.+above\s+(\d+\.?\d*)\s*%`)

	// yieldAboveRe captures an exclusive lower bound on yield.
	yieldAboveRe = regexp.MustCompile(`(?i)(?:yield|bonds).+(?:more|greater|higher|above)\s+than\s+(\d+\.?\d*)`)

	// ratedRe matches "rated AA+" style criteria.
	ratedRe = regexp.MustCompile(`(?i)rated\s+([A-Za-z]+[+-]?)`)

	// ratingOfRe matches "rating of AA" / "rated as A+" style criteria.
	// The grade capture only admits letter-grade shapes, so a trailing
	// clause like "with maturity after 2026" can never pose as one.
	ratingOfRe = regexp.MustCompile(`(?i)(?:rating|rated).+?(?:of|as|with)\s+([A-D]{1,4}(?:[+-]|\b))`)

	// termRe matches a bond term like "5-year" or "5 year".
	termRe = regexp.MustCompile(`(?i)(\d+)[\s-]year`)

	// metricRe matches a financial metric name. The alternation order
	// puts multi-word names first so "current ratio" never truncates
	// to a shorter alternative.
	metricRe = regexp.MustCompile(`(?i)\b(current\s+ratio|debt[/\\]equity|debt[/\\]EBITDA|interest\s+coverage|operating\s+cashflow|EPS|ROE|ROA)\b`)
)

// ISIN returns the ISIN token following the "ISIN" keyword, uppercased
// (R2.1). Absent when the query carries no ISIN reference.
func ISIN(query string) (string, bool) {
	if m := isinRe.FindStringSubmatch(query); m != nil {
		return strings.ToUpper(m[1]), true
	}
	return "", false
}

// BareToken returns the first long uppercase alphanumeric token. Used
// by document lookups where the ISIN keyword may be omitted (R2.2).
func BareToken(query string) (string, bool) {
	if m := bareTokenRe.FindStringSubmatch(query); m != nil {
		return m[1], true
	}
	return "", false
}

// Year bounds for extracted 4-digit tokens. Without bounds, street
// numbers and ISIN fragments act as maturity filters; [1900, 2199]
// covers any plausible bond tenor.
const (
	minYear = 1900
	maxYear = 2199
)

// Year returns the first plausible 4-digit year in the query (R2.3).
func Year(query string) (int, bool) {
	for _, m := range yearRe.FindAllStringSubmatch(query, -1) {
		if y := parseYear(m[1]); y != 0 {
			return y, true
		}
	}
	return 0, false
}

// MaturityAfterYear returns the year Y from "maturity after Y" phrasing,
// an exclusive lower bound (R2.4).
func MaturityAfterYear(query string) (int, bool) {
	if m := maturityAfterRe.FindStringSubmatch(query); m != nil {
		if y := parseYear(m[1]); y != 0 {
			return y, true
		}
	}
	return 0, false
}

func parseYear(s string) int {
	y, err := strconv.Atoi(s)
	if err != nil || y < minYear || y > maxYear {
		return 0
	}
	return y
}

// CouponAbove returns the rate X from "coupon ... above X%" phrasing,
// an exclusive lower bound (R2.4).
func CouponAbove(query string) (float64, bool) {
	return captureFloat(couponAboveRe, query)
}

// YieldAbove returns the rate X from "yield more than X" phrasing, an
// exclusive lower bound (R2.4).
func YieldAbove(query string) (float64, bool) {
	return captureFloat(yieldAboveRe, query)
}

func captureFloat(re *regexp.Regexp, query string) (float64, bool) {
	m := re.FindStringSubmatch(query)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Rating returns a letter-grade rating criterion, uppercased (R2.5).
// Matching downstream is substring-based, so "AA" also matches "AA+"
// and "AA-" records; broad on purpose.
func Rating(query string) (string, bool) {
	if m := ratedRe.FindStringSubmatch(query); m != nil {
		grade := strings.ToUpper(m[1])
		// "rated as A+" puts a connective where the grade sits;
		// those queries resolve through ratingOfRe instead.
		if grade != "AS" && grade != "OF" && grade != "WITH" {
			return grade, true
		}
	}
	if m := ratingOfRe.FindStringSubmatch(query); m != nil {
		return strings.ToUpper(m[1]), true
	}
	return "", false
}

// Term returns a bond term in years from "N-year" phrasing (R2.6).
func Term(query string) (int, bool) {
	m := termRe.FindStringSubmatch(query)
	if m == nil {
		return 0, false
	}
	t, err := strconv.Atoi(m[1])
	if err != nil || t <= 0 {
		return 0, false
	}
	return t, true
}

// metricKeys maps normalized metric phrasings to canonical metric keys
// shared with the screener store's column allowlist.
var metricKeys = map[string]string{
	"eps":                "eps",
	"current ratio":      "current_ratio",
	"debt/equity":        "debt_equity",
	"debt\\equity":       "debt_equity",
	"debt/ebitda":        "debt_ebitda",
	"debt\\ebitda":       "debt_ebitda",
	"interest coverage":  "interest_coverage",
	"operating cashflow": "operating_cashflow",
	"roe":                "roe",
	"roa":                "roa",
}

// Metric returns the canonical key of the first financial metric named
// in the query (R2.7).
func Metric(query string) (string, bool) {
	m := metricRe.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}
	phrase := strings.ToLower(strings.Join(strings.Fields(m[1]), " "))
	key, ok := metricKeys[phrase]
	return key, ok
}
