// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter applies composable predicates to in-memory record
// stores. Predicates accumulate conjunctively and preserve original row
// order; zero predicates return the store unchanged.
// Implements: prd002-directory (R3), prd003-finder (R2);
//
//	docs/ARCHITECTURE § Filter Pipeline.
package filter

import (
	"strconv"
	"strings"
	"time"
)

// Predicate is one constraint over a record.
type Predicate[T any] func(T) bool

// Apply returns the rows satisfying every predicate, in original order.
// The input slice is never mutated.
func Apply[T any](rows []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, p := range preds {
			if !p(row) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

// Equals matches rows whose field equals val, case-insensitively.
func Equals[T any](get func(T) string, val string) Predicate[T] {
	return func(row T) bool {
		return strings.EqualFold(get(row), val)
	}
}

// Contains matches rows whose field contains substr, case-insensitively.
// Substring, not equality: "Ugro" matches "Ugro Capital Limited".
func Contains[T any](get func(T) string, substr string) Predicate[T] {
	lower := strings.ToLower(substr)
	return func(row T) bool {
		return strings.Contains(strings.ToLower(get(row)), lower)
	}
}

// GreaterThan matches rows whose numeric field strictly exceeds min.
// "Above"/"more than" phrasings are exclusive lower bounds. Rows whose
// field does not parse are excluded, not errored.
func GreaterThan[T any](get func(T) string, min float64) Predicate[T] {
	return func(row T) bool {
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(get(row)), "%"), 64)
		if err != nil {
			return false
		}
		return v > min
	}
}

// IntEquals matches rows whose integer field equals val; unparsable
// rows are excluded.
func IntEquals[T any](get func(T) string, val int) Predicate[T] {
	return func(row T) bool {
		v, err := strconv.Atoi(strings.TrimSpace(get(row)))
		if err != nil {
			return false
		}
		return v == val
	}
}

// YearAfter matches rows whose date field falls strictly after year.
// Only the year component is compared; rows with unparsable dates are
// dropped from consideration.
func YearAfter[T any](get func(T) string, year int) Predicate[T] {
	return func(row T) bool {
		t, ok := ParseDate(get(row))
		return ok && t.Year() > year
	}
}

// YearEquals matches rows whose date field falls within year.
func YearEquals[T any](get func(T) string, year int) Predicate[T] {
	return func(row T) bool {
		t, ok := ParseDate(get(row))
		return ok && t.Year() == year
	}
}

// dateLayouts lists the date formats the datasets are known to carry.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"January 2, 2006",
}

// ParseDate parses a dataset date cell, trying each known layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
