// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package route

import (
	"regexp"
	"testing"

	"go.uber.org/zap"

	"github.com/pdiddy/bond-desk/internal/agent"
	"github.com/pdiddy/bond-desk/pkg/types"
)

// stubAgent gives the scoring pass a fixed pattern set.
type stubAgent struct {
	id       string
	patterns []*regexp.Regexp
}

func (s *stubAgent) ID() string { return s.id }

func (s *stubAgent) Patterns() []*regexp.Regexp { return s.patterns }

func (s *stubAgent) ProcessQuery(string) types.Response {
	return types.Response{Type: types.RespGeneralHelp, Message: "handled by " + s.id}
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

func testRouter(stubs ...*stubAgent) *Router {
	agents := make([]agent.Agent, len(stubs))
	for i, s := range stubs {
		agents[i] = s
	}
	return New(zap.NewNop(), agents...)
}

// --- selection ---

func TestRouteHighestOccurrenceCountWins(t *testing.T) {
	r := testRouter(
		&stubAgent{id: "first", patterns: patterns(`isin`)},
		&stubAgent{id: "second", patterns: patterns(`bond`)},
	)

	// "bond" occurs twice, "isin" once: occurrence counts, not
	// boolean presence, decide selection.
	d := r.Route("one isin, one bond, another bond")
	if d.AgentID != "second" {
		t.Fatalf("routed to %s; want second", d.AgentID)
	}
}

func TestRouteTieGoesToRegistrationOrder(t *testing.T) {
	r := testRouter(
		&stubAgent{id: "first", patterns: patterns(`bond`)},
		&stubAgent{id: "second", patterns: patterns(`bond`)},
	)

	d := r.Route("a bond query")
	if d.AgentID != "first" {
		t.Fatalf("tie routed to %s; want the earlier registration", d.AgentID)
	}
}

func TestRouteZeroScoresFallBackToFirstAgent(t *testing.T) {
	r := testRouter(
		&stubAgent{id: "fallback", patterns: patterns(`isin`)},
		&stubAgent{id: "other", patterns: patterns(`yield`)},
	)

	d := r.Route("hello there")
	if d.AgentID != "fallback" {
		t.Fatalf("routed to %s; want the fallback agent", d.AgentID)
	}
	if d.Confidence != 0.5 {
		t.Errorf("confidence = %v; want the 0.5 baseline", d.Confidence)
	}
}

// --- confidence ---

func TestConfidenceUsesBooleanPatternCounts(t *testing.T) {
	r := testRouter(
		&stubAgent{id: "only", patterns: patterns(`bond`, `yield`, `isin`, `rating`)},
	)

	// "bond" matches twice but counts once in the confidence pass:
	// 1 of 4 patterns matched, so 0.5 + (1/4)*0.5 = 0.625.
	d := r.Route("bond and another bond")
	if d.Confidence != 0.625 {
		t.Fatalf("confidence = %v; want 0.625", d.Confidence)
	}
}

func TestConfidenceAllPatternsMatched(t *testing.T) {
	r := testRouter(
		&stubAgent{id: "only", patterns: patterns(`bond`, `yield`)},
	)

	d := r.Route("bond yield")
	if d.Confidence != 1.0 {
		t.Fatalf("confidence = %v; want 1.0", d.Confidence)
	}
}

// --- dispatch ---

func TestProcessQueryWrapsResponse(t *testing.T) {
	r := testRouter(
		&stubAgent{id: "first", patterns: patterns(`isin`)},
		&stubAgent{id: "second", patterns: patterns(`bond`)},
	)

	routed := r.ProcessQuery("a bond query")
	if routed.AgentID != "second" {
		t.Fatalf("agent = %s; want second", routed.AgentID)
	}
	if routed.Query != "a bond query" {
		t.Errorf("query = %q; want the original text", routed.Query)
	}
	if routed.QueryID == "" {
		t.Error("query id missing")
	}
	if routed.Response.Message != "handled by second" {
		t.Errorf("response = %q; want the winning agent's", routed.Response.Message)
	}
}

func TestProcessQueryIsIdempotent(t *testing.T) {
	r := testRouter(
		&stubAgent{id: "first", patterns: patterns(`bond`)},
	)

	a := r.ProcessQuery("a bond query")
	b := r.ProcessQuery("a bond query")
	if a.AgentID != b.AgentID || a.Confidence != b.Confidence || a.Response.Message != b.Response.Message {
		t.Error("repeated routing of the same query diverged")
	}
}
