// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for bond-desk:
// dataset records, the response envelope, and stage configuration.
// Implements: prd001-datasets (R1); docs/ARCHITECTURE § Data Model.
package types

// Bond is one row of the bond directory dataset. Fields hold the raw
// column text: numeric and date columns are parsed at filter time so a
// malformed cell excludes its row from numeric filters instead of
// failing the load (prd001-datasets R1.4). Blank fields render as "N/A".
type Bond struct {
	ISIN           string `json:"isin" yaml:"isin"`
	IssuerName     string `json:"issuer_name" yaml:"issuer_name"`
	IssuerType     string `json:"issuer_type" yaml:"issuer_type"`
	Sector         string `json:"sector" yaml:"sector"`
	CouponRate     string `json:"coupon_rate" yaml:"coupon_rate"`
	InstrumentName string `json:"instrument_name" yaml:"instrument_name"`
	FaceValue      string `json:"face_value" yaml:"face_value"`
	IssueSize      string `json:"issue_size" yaml:"issue_size"`
	RedemptionDate string `json:"redemption_date" yaml:"redemption_date"`
	CreditRating   string `json:"credit_rating" yaml:"credit_rating"`
	ListingDetails string `json:"listing_details" yaml:"listing_details"`
	KeyDocuments   string `json:"key_documents" yaml:"key_documents"`
	Status         string `json:"status" yaml:"status"`
	SecurityType   string `json:"security_type" yaml:"security_type"`
	Trustee        string `json:"trustee" yaml:"trustee"`
}

// Listing is one row of the bond finder dataset: an issuer's offering
// on the brokerage platforms the desk is tied up with.
type Listing struct {
	Issuer    string `json:"issuer" yaml:"issuer"`
	Rating    string `json:"rating" yaml:"rating"`
	YieldMin  string `json:"yield_min" yaml:"yield_min"`
	YieldMax  string `json:"yield_max" yaml:"yield_max"`
	TermYears string `json:"term_years" yaml:"term_years"`

	// Per-platform availability flags; truthy values are "yes", "true",
	// and "1" (case-insensitive).
	AvailableOnSMEST       string `json:"available_on_smest" yaml:"available_on_smest"`
	AvailableOnFixedIncome string `json:"available_on_fixedincome" yaml:"available_on_fixedincome"`
}

// Company is one row of the screener's company dataset. Pros, Cons, and
// Lenders columns are semicolon-separated lists in the source CSV.
type Company struct {
	Name        string `json:"company_name" yaml:"company_name"`
	Rating      string `json:"rating" yaml:"rating"`
	Sector      string `json:"sector" yaml:"sector"`
	Industry    string `json:"industry" yaml:"industry"`
	Description string `json:"description" yaml:"description"`
	Pros        string `json:"pros" yaml:"pros"`
	Cons        string `json:"cons" yaml:"cons"`
	Lenders     string `json:"lenders" yaml:"lenders"`
}

// Financials is one row of the screener's financial metrics dataset,
// keyed by company name.
type Financials struct {
	Company           string `json:"company_name" yaml:"company_name"`
	EPS               string `json:"eps" yaml:"eps"`
	CurrentRatio      string `json:"current_ratio" yaml:"current_ratio"`
	DebtEquity        string `json:"debt_equity" yaml:"debt_equity"`
	DebtEBITDA        string `json:"debt_ebitda" yaml:"debt_ebitda"`
	InterestCoverage  string `json:"interest_coverage" yaml:"interest_coverage"`
	OperatingCashflow string `json:"operating_cashflow" yaml:"operating_cashflow"`
	ROE               string `json:"roe" yaml:"roe"`
	ROA               string `json:"roa" yaml:"roa"`
}

// NewsItem is one row of the screener's news dataset.
type NewsItem struct {
	Company  string `json:"company_name" yaml:"company_name"`
	Date     string `json:"date" yaml:"date"`
	Headline string `json:"headline" yaml:"headline"`
}
