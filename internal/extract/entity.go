// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// Entity extraction is a two-step process: a shape match proposes
// candidate substrings, then an existence check against the record
// store's known-name column accepts or rejects them (R3.1). Stray
// words that happen to follow a trigger never become entity names.

var (
	// issuerAfterRe captures text after "issuances/issued/bonds ... by/from".
	issuerAfterRe = regexp.MustCompile(`(?i)(?:issuances|issued|bonds).+?(?:by|from)\s+([A-Za-z][A-Za-z\s]*)`)

	// issuerClaimRe captures a loose issuer assertion near an ISIN
	// lookup, e.g. "is ISIN X issued by Ugro Capital".
	issuerClaimRe = regexp.MustCompile(`(?i)(?:issuances|issued|bonds|by|from)\s+([A-Za-z][A-Za-z\s]*)`)

	// companyRes propose company-name candidates in priority order.
	companyRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:for|about|on)\s+([A-Za-z][A-Za-z\s]*?)\s+(?:company|limited|ltd)\b`),
		regexp.MustCompile(`(?i)([A-Za-z][A-Za-z\s]*?)\s+(?:company|limited|ltd)\b`),
		regexp.MustCompile(`(?i)([A-Za-z][A-Za-z\s]*?)\s+(?:rating|EPS|sector|industry)\b`),
	}

	// companyListRe proposes candidates for multi-company comparisons.
	companyListRe = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z\s]*?)\s+(?:company|limited|ltd|and|with|to|vs)\b`)
)

// leadingNoise lists connective words stripped from the front of a
// candidate before validation.
var leadingNoise = map[string]bool{
	"by": true, "from": true, "of": true, "for": true,
	"the": true, "a": true, "an": true,
}

// Issuer returns a store-validated issuer name from "issuances by X"
// phrasing (R3.2). Absent when no candidate validates.
func Issuer(query string, known []string) (string, bool) {
	if m := issuerAfterRe.FindStringSubmatch(query); m != nil {
		if name, ok := validate(m[1], known); ok {
			return name, true
		}
	}
	return "", false
}

// IssuerCandidate returns the cleaned shape-match candidate from
// "issuances by X" phrasing without the existence check, so error
// messages can name what the query asked for even when the store has
// never heard of it.
func IssuerCandidate(query string) (string, bool) {
	m := issuerAfterRe.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}
	words := strings.Fields(m[1])
	for len(words) > 0 && leadingNoise[strings.ToLower(words[0])] {
		words = words[1:]
	}
	if len(words) == 0 {
		return "", false
	}
	return strings.Join(words, " "), true
}

// IssuerClaim returns a store-validated issuer asserted alongside an
// ISIN lookup, used for ownership cross-checks (R3.3).
func IssuerClaim(query string, known []string) (string, bool) {
	if m := issuerClaimRe.FindStringSubmatch(query); m != nil {
		if name, ok := validate(m[1], known); ok {
			return name, true
		}
	}
	return "", false
}

// Company returns a store-validated company name (R3.2). Candidate
// patterns are tried in order; the first validating candidate wins.
func Company(query string, known []string) (string, bool) {
	for _, re := range companyRes {
		if m := re.FindStringSubmatch(query); m != nil {
			if name, ok := validate(m[1], known); ok {
				return name, true
			}
		}
	}
	return "", false
}

// CompanyCandidate returns the raw company mention its shape patterns
// propose, without the store check. Used for error messages when the
// lookup misses, so the message names the mention and not the query.
func CompanyCandidate(query string) (string, bool) {
	for _, re := range companyRes {
		if m := re.FindStringSubmatch(query); m != nil {
			if candidate := strings.TrimSpace(m[1]); candidate != "" {
				return candidate, true
			}
		}
	}
	return "", false
}

// Companies returns every distinct store-validated company named in the
// query, in appearance order (R3.4). After the pattern pass it falls
// back to a word scan so "compare EPS of Ugro and Techlend" still
// resolves both names.
func Companies(query string, known []string) []string {
	var found []string
	add := func(name string) {
		for _, f := range found {
			if strings.EqualFold(f, name) {
				return
			}
		}
		found = append(found, name)
	}

	for _, m := range companyListRe.FindAllStringSubmatch(query, -1) {
		if name, ok := validate(m[1], known); ok {
			add(name)
		}
	}

	if len(found) < 2 {
		for _, word := range strings.Fields(query) {
			word = strings.Trim(word, ",.?!")
			if len(word) <= 3 {
				continue
			}
			if matchesKnown(word, known) {
				add(word)
			}
		}
	}

	return found
}

// validate cleans a candidate and checks it against the known-name
// column. Leading connective words are stripped, then trailing words
// dropped one at a time until the remainder matches a known name; an
// exhausted candidate reports absent.
func validate(candidate string, known []string) (string, bool) {
	words := strings.Fields(candidate)
	for len(words) > 0 && leadingNoise[strings.ToLower(words[0])] {
		words = words[1:]
	}

	for len(words) > 0 {
		name := strings.Join(words, " ")
		if matchesKnown(name, known) {
			return name, true
		}
		words = words[:len(words)-1]
	}
	return "", false
}

// matchesKnown reports whether name is a case-insensitive substring of
// any known name. Substring, not equality: "Ugro" matches
// "Ugro Capital Limited".
func matchesKnown(name string, known []string) bool {
	lower := strings.ToLower(name)
	for _, k := range known {
		if strings.Contains(strings.ToLower(k), lower) {
			return true
		}
	}
	return false
}
