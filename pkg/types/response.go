// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResponseType tags a Response with the handler that produced it. The
// literal strings are a compatibility surface consumed by downstream
// clients; never rename them (prd005-routing R4.1).
type ResponseType string

const (
	RespISINDetails         ResponseType = "isin_details"
	RespIssuerIssuances     ResponseType = "issuer_issuances"
	RespFilteredBonds       ResponseType = "filtered_bonds"
	RespMaturityBonds       ResponseType = "maturity_bonds"
	RespCashFlowSchedule    ResponseType = "cash_flow_schedule"
	RespNoResults           ResponseType = "no_results"
	RespError               ResponseType = "error"
	RespGeneralHelp         ResponseType = "general_help"
	RespGeneralInfo         ResponseType = "general_info"
	RespPlatformAvail       ResponseType = "platform_availability"
	RespYieldBasedSearch    ResponseType = "yield_based_search"
	RespBestYieldComparison ResponseType = "best_yield_comparison"
	RespRatingBasedSearch   ResponseType = "rating_based_search"
	RespCompanySummary      ResponseType = "company_summary"
	RespCompanyMetric       ResponseType = "company_metric"
	RespCompareMetrics      ResponseType = "compare_metrics"
	RespProsCons            ResponseType = "pros_cons"
	RespLendersList         ResponseType = "lenders_list"
	RespRecentNews          ResponseType = "recent_news"
)

// Error reason codes carried on error Responses. A mismatch is a
// distinct failure from a missed lookup: the ISIN exists but belongs to
// a different issuer than the query asserted (prd002-directory R2.4).
const (
	ErrISINNotFound       = "isin_not_found"
	ErrIssuerNotFound     = "issuer_not_found"
	ErrCompanyNotFound    = "company_not_found"
	ErrISINIssuerMismatch = "isin_issuer_mismatch"
)

// Response is the structured result of one handler invocation.
// Message always holds rendered text; Data carries the full matched
// record set on success (previews in Message may be capped, Data never
// is). Responses are per-call values, never retained between queries.
type Response struct {
	Type    ResponseType `json:"response_type" yaml:"response_type"`
	Message string       `json:"message" yaml:"message"`
	Data    any          `json:"data,omitempty" yaml:"data,omitempty"`

	// Count is the size of the full matched set for filtered searches,
	// independent of the preview cap.
	Count int `json:"count,omitempty" yaml:"count,omitempty"`

	// Error is a reason code (Err* constants) on error Responses.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Context fields echoed from extraction, when present.
	ISIN    string `json:"isin,omitempty" yaml:"isin,omitempty"`
	Issuer  string `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	Company string `json:"company,omitempty" yaml:"company,omitempty"`
	Metric  string `json:"metric,omitempty" yaml:"metric,omitempty"`
}

// Routed wraps an agent Response with the orchestrator's routing
// metadata. It is recomputed per query and never persisted
// (prd005-routing R3).
type Routed struct {
	QueryID    string   `json:"query_id" yaml:"query_id"`
	AgentID    string   `json:"agent_type" yaml:"agent_type"`
	Query      string   `json:"query" yaml:"query"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Response   Response `json:"response" yaml:"response"`
}
