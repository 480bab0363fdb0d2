// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent implements the specialized query agents. Each agent
// owns an immutable, ordered list of intent rules evaluated by a linear
// scan with early return: the first rule whose trigger matches handles
// the query and later rules are never consulted, even if they would
// also match. No rule matching falls through to a general-help
// response; nothing in an agent ever panics on a garbled query.
// Implements: prd002-directory, prd003-finder, prd004-screener;
//
//	docs/ARCHITECTURE § Agent Cascade.
package agent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/pdiddy/bond-desk/pkg/types"
)

// Agent is one specialized query handler. Implementations are
// stateless per call: ProcessQuery reads the immutable record store
// and returns a fresh Response, so concurrent callers may share one
// Agent (prd005-routing R1.3).
type Agent interface {
	// ID identifies the agent in routing decisions.
	ID() string

	// Patterns exposes the trigger patterns of every rule, in rule
	// order, for the router's scoring pass.
	Patterns() []*regexp.Regexp

	// ProcessQuery runs the rule cascade for one query.
	ProcessQuery(query string) types.Response
}

// rule pairs a trigger pattern with its handler. The optional guard
// refines the trigger: a rule only fires when the trigger matches AND
// the guard (extraction succeeding, typically) passes, mirroring how
// partially-extracted intents fall through to later rules.
type rule struct {
	name    string
	trigger *regexp.Regexp
	guard   func(query string) bool
	handle  func(query string) types.Response
}

// runCascade evaluates rules strictly in declaration order and invokes
// the first that fires. Rule order is fixed at agent construction and
// never reordered at runtime.
func runCascade(log *zap.Logger, agentID string, rules []rule, query string, fallback func() types.Response) types.Response {
	for i, r := range rules {
		if !r.trigger.MatchString(query) {
			continue
		}
		if r.guard != nil && !r.guard(query) {
			continue
		}
		log.Debug("cascade matched",
			zap.String("agent", agentID),
			zap.Int("rule", i),
			zap.String("intent", r.name))
		return r.handle(query)
	}
	log.Debug("cascade fell through", zap.String("agent", agentID))
	return fallback()
}

// triggers collects the rule trigger patterns for the router.
func triggers(rules []rule) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(rules))
	for i, r := range rules {
		out[i] = r.trigger
	}
	return out
}

// orNA substitutes the dataset's blank-field sentinel into templates.
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// rupees formats a numeric amount column with digit grouping for
// display after a ₹ sign. Non-numeric cells pass through untouched;
// blanks render as "N/A".
func rupees(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "N/A"
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return humanize.Commaf(v)
}

// distinct returns the unique non-blank values of get over rows,
// preserving first-occurrence order.
func distinct[T any](rows []T, get func(T) string) []string {
	seen := make(map[string]bool, len(rows))
	var out []string
	for _, row := range rows {
		v := get(row)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
