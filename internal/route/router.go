// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package route selects which agent handles a free-text query. The
// router scores every registered agent's trigger patterns against the
// query, dispatches to the winner, and wraps the agent's response with
// routing metadata. Routing is total: some agent always receives the
// query. Implements: prd005-routing (R1-R4); docs/ARCHITECTURE § Router.
package route

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/bond-desk/internal/agent"
	"github.com/pdiddy/bond-desk/pkg/types"
)

// Router dispatches queries to registered agents. Registration order
// is significant twice over: it breaks score ties, and the first
// registered agent is the fallback when nothing matches. Agents are
// registered at construction and never reordered.
type Router struct {
	agents []agent.Agent
	log    *zap.Logger
}

// New builds a router over the given agents. The first agent is the
// fallback for queries no pattern recognizes; callers should register
// the directory agent first.
func New(log *zap.Logger, agents ...agent.Agent) *Router {
	return &Router{agents: agents, log: log}
}

// Decision records how one query was routed. It is recomputed per
// query and never persisted.
type Decision struct {
	AgentID    string
	Confidence float64
}

// Route scores every agent and returns the winning decision without
// dispatching (R2.1, R2.2).
//
// Selection counts every occurrence of every trigger pattern in the
// query, so a pattern matching twice counts twice. The agent with the
// strictly highest total wins; equal nonzero totals go to the earliest
// registered agent. An all-zero scoreboard falls back to the first
// registered agent.
//
// Confidence is computed separately over the chosen agent's patterns
// using boolean matched-at-least-once counts, not occurrence counts.
// The two passes run at different granularities on purpose: callers
// downstream consume the confidence formula as-is, so unifying the
// passes would shift published scores (R2.3).
func (r *Router) Route(query string) Decision {
	best := 0
	bestScore := 0
	for i, a := range r.agents {
		score := 0
		for _, p := range a.Patterns() {
			score += len(p.FindAllString(query, -1))
		}
		r.log.Debug("agent scored",
			zap.String("agent", a.ID()),
			zap.Int("score", score))
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	chosen := r.agents[best]
	return Decision{
		AgentID:    chosen.ID(),
		Confidence: r.confidence(chosen, query),
	}
}

func (r *Router) confidence(a agent.Agent, query string) float64 {
	patterns := a.Patterns()
	matched := 0
	for _, p := range patterns {
		if p.MatchString(query) {
			matched++
		}
	}
	if matched == 0 || len(patterns) == 0 {
		return 0.5
	}
	c := 0.5 + float64(matched)/float64(len(patterns))*0.5
	if c > 1.0 {
		c = 1.0
	}
	return c
}

// ProcessQuery routes the query, dispatches to the winning agent, and
// wraps the agent's response in the routing envelope (R3.1).
func (r *Router) ProcessQuery(query string) types.Routed {
	decision := r.Route(query)

	var chosen agent.Agent
	for _, a := range r.agents {
		if a.ID() == decision.AgentID {
			chosen = a
			break
		}
	}

	queryID := uuid.NewString()
	r.log.Info("routing query",
		zap.String("query_id", queryID),
		zap.String("agent", decision.AgentID),
		zap.Float64("confidence", decision.Confidence))

	return types.Routed{
		QueryID:    queryID,
		AgentID:    decision.AgentID,
		Query:      query,
		Confidence: decision.Confidence,
		Response:   chosen.ProcessQuery(query),
	}
}
