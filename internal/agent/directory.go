// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/bond-desk/internal/extract"
	"github.com/pdiddy/bond-desk/internal/filter"
	"github.com/pdiddy/bond-desk/pkg/types"
)

// DirectoryID is the directory agent's routing identifier. The router
// also uses it as the fall-through destination for unscored queries.
const DirectoryID = "bond_directory"

// defaultPreviewCap bounds rendered previews for criteria searches.
const defaultPreviewCap = 5

// Directory answers bond directory queries: ISIN lookups, issuer
// issuances, criteria searches, maturity lookups, cash-flow schedules,
// and per-ISIN detail inquiries (security, documents, trustee, listing,
// face value).
//
// Rule order note: the specific per-ISIN intents precede the plain
// ISIN lookup. A bare "ISIN X" trigger placed first would shadow every
// query that mentions an ISIN, making the cash-flow and detail rules
// unreachable (prd002-directory R1.2).
type Directory struct {
	bonds      []types.Bond
	issuers    []string
	previewCap int
	rules      []rule
	log        *zap.Logger
}

// NewDirectory builds the directory agent over an already-loaded bond
// store. The store is treated as read-only from here on.
func NewDirectory(bonds []types.Bond, cfg types.DirectoryConfig, log *zap.Logger) *Directory {
	cap := cfg.PreviewCap
	if cap <= 0 {
		cap = defaultPreviewCap
	}

	d := &Directory{
		bonds:      bonds,
		issuers:    distinct(bonds, func(b types.Bond) string { return b.IssuerName }),
		previewCap: cap,
		log:        log,
	}

	d.rules = []rule{
		{
			name:    "cash_flow_schedule",
			trigger: regexp.MustCompile(`(?i)(cash\s*flow|schedule).+ISIN\s+([A-Z0-9]+)`),
			handle:  d.handleCashFlow,
		},
		{
			name:    "debenture_trustee",
			trigger: regexp.MustCompile(`(?i)trustee.+ISIN\s+([A-Z0-9]+)`),
			handle:  d.handleTrustee,
		},
		{
			name:    "listing_details",
			trigger: regexp.MustCompile(`(?i)(listing|listed|exchange|trading).+ISIN\s+([A-Z0-9]+)`),
			handle:  d.handleListing,
		},
		{
			name:    "face_value",
			trigger: regexp.MustCompile(`(?i)face\s*value.+ISIN\s+([A-Z0-9]+)`),
			handle:  d.handleFaceValue,
		},
		{
			name:    "security_details",
			trigger: regexp.MustCompile(`(?i)(security|secured).+ISIN\s+([A-Z0-9]+)`),
			handle:  d.handleSecurity,
		},
		{
			name:    "documents",
			trigger: regexp.MustCompile(`(?i)(documents?|offer\s+doc|trust\s+deed)`),
			handle:  d.handleDocuments,
		},
		{
			name:    "isin_lookup",
			trigger: regexp.MustCompile(`(?i)ISIN\s+([A-Z0-9]+)`),
			handle:  d.handleISIN,
		},
		{
			name:    "issuer_issuances",
			trigger: regexp.MustCompile(`(?i)(issuances|issued|bonds).+(by|from)\s+[A-Za-z]`),
			handle:  d.handleIssuances,
		},
		{
			name:    "filtered_search",
			trigger: regexp.MustCompile(`(?i)(find|search|filter).+(bonds|debentures)`),
			handle:  d.handleFiltered,
		},
		{
			name:    "maturity_year",
			trigger: regexp.MustCompile(`(?i)(maturing|maturity).+\d{4}`),
			handle:  d.handleMaturityYear,
		},
	}

	return d
}

// ID implements Agent.
func (d *Directory) ID() string { return DirectoryID }

// Patterns implements Agent.
func (d *Directory) Patterns() []*regexp.Regexp { return triggers(d.rules) }

// ProcessQuery implements Agent.
func (d *Directory) ProcessQuery(query string) types.Response {
	return runCascade(d.log, DirectoryID, d.rules, query, d.generalHelp)
}

func (d *Directory) generalHelp() types.Response {
	return types.Response{
		Type: types.RespGeneralHelp,
		Message: "I can help you find information about bonds in our directory. " +
			"You can ask about specific ISINs, issuers, filter bonds by criteria, " +
			"check maturity dates, or get cash flow schedules. For example:\n\n" +
			"- 'Show me details for ISIN INE123456789'\n" +
			"- 'Show me all issuances by Ugro Capital'\n" +
			"- 'Find secured debentures with coupon rate above 10% and maturity after 2026'\n" +
			"- 'Which bonds are maturing in 2025?'\n" +
			"- 'Show me the cash flow schedule for ISIN INE567890123'",
	}
}

// findISIN resolves an ISIN by exact match against the unique key
// column. Exactly zero or one row can match.
func (d *Directory) findISIN(isin string) *types.Bond {
	for i := range d.bonds {
		if strings.EqualFold(d.bonds[i].ISIN, isin) {
			return &d.bonds[i]
		}
	}
	return nil
}

func isinNotFound(isin string) types.Response {
	return types.Response{
		Type:    types.RespError,
		Error:   types.ErrISINNotFound,
		ISIN:    isin,
		Message: fmt.Sprintf("Sorry, the ISIN %s was not found in our database.", isin),
	}
}

// handleISIN serves the plain ISIN detail lookup. When the query also
// asserts an issuer association, the resolved record's issuer is
// cross-checked against the claim first (prd002-directory R2.4).
func (d *Directory) handleISIN(query string) types.Response {
	isin, _ := extract.ISIN(query)

	if claimed, ok := extract.IssuerClaim(query, d.issuers); ok {
		return d.crossCheck(isin, claimed)
	}
	return d.isinDetails(isin)
}

func (d *Directory) isinDetails(isin string) types.Response {
	bond := d.findISIN(isin)
	if bond == nil {
		return isinNotFound(isin)
	}

	msg := fmt.Sprintf(
		"Here are the details for ISIN %s:\n\n"+
			"● Issuer Name: %s\n"+
			"● Type of Issuer: %s\n"+
			"● Sector: %s\n"+
			"● Coupon Rate: %s%%\n"+
			"● Instrument Name: %s\n"+
			"● Face Value: ₹%s\n"+
			"● Total Issue Size: ₹%s Cr\n"+
			"● Redemption Date: %s\n"+
			"● Credit Rating: %s\n"+
			"● Listing Details: %s\n"+
			"● Key Documents: %s",
		bond.ISIN, orNA(bond.IssuerName), orNA(bond.IssuerType), orNA(bond.Sector),
		orNA(bond.CouponRate), orNA(bond.InstrumentName), rupees(bond.FaceValue),
		rupees(bond.IssueSize), orNA(bond.RedemptionDate), orNA(bond.CreditRating),
		orNA(bond.ListingDetails), orNA(bond.KeyDocuments),
	)

	return types.Response{
		Type:    types.RespISINDetails,
		ISIN:    bond.ISIN,
		Message: msg,
		Data:    *bond,
	}
}

// crossCheck compares a resolved bond's issuer against the issuer the
// query asserted. Disagreement is a mismatch, a distinct failure from
// not-found: the record exists, the claimed association does not.
func (d *Directory) crossCheck(isin, claimed string) types.Response {
	bond := d.findISIN(isin)
	if bond == nil {
		return isinNotFound(isin)
	}

	if !strings.Contains(strings.ToLower(bond.IssuerName), strings.ToLower(claimed)) {
		return types.Response{
			Type:   types.RespError,
			Error:  types.ErrISINIssuerMismatch,
			ISIN:   isin,
			Issuer: bond.IssuerName,
			Message: fmt.Sprintf("The given ISIN does not belong to %s. It is associated with %s.",
				claimed, bond.IssuerName),
		}
	}
	return d.isinDetails(isin)
}

// handleIssuances lists every bond from one issuer with active and
// matured counts (prd002-directory R2.2).
func (d *Directory) handleIssuances(query string) types.Response {
	issuer, ok := extract.Issuer(query, d.issuers)
	if !ok {
		// No candidate validated against the issuer column; report the
		// cleaned-up shape match so the message names what was asked.
		candidate, found := extract.IssuerCandidate(query)
		if !found {
			return d.generalHelp()
		}
		return issuerNotFound(candidate)
	}

	bonds := filter.Apply(d.bonds,
		filter.Contains(func(b types.Bond) string { return b.IssuerName }, issuer))
	if len(bonds) == 0 {
		return issuerNotFound(issuer)
	}

	active := 0
	for _, b := range bonds {
		if strings.EqualFold(b.Status, "Active") {
			active++
		}
	}
	matured := len(bonds) - active

	var table strings.Builder
	for _, b := range bonds {
		fmt.Fprintf(&table, "%s | %s%% | %s | ₹%s | %s | %s cr\n",
			b.ISIN, orNA(b.CouponRate), orNA(b.RedemptionDate),
			rupees(b.FaceValue), orNA(b.CreditRating), orNA(b.IssueSize))
	}

	msg := fmt.Sprintf(
		"%s has issued %d bonds in total.\n%d are active, and %d have matured.\n\n"+
			"Table of ISINs:\n\n"+
			"ISIN | Coupon Rate | Maturity Date | Face Value | Credit Rating | Issuance Size\n"+
			"----|-------------|--------------|-----------|--------------|-------------\n%s",
		issuer, len(bonds), active, matured, table.String())

	return types.Response{
		Type:    types.RespIssuerIssuances,
		Issuer:  issuer,
		Count:   len(bonds),
		Message: msg,
		Data:    bonds,
	}
}

func issuerNotFound(issuer string) types.Response {
	return types.Response{
		Type:    types.RespError,
		Error:   types.ErrIssuerNotFound,
		Issuer:  issuer,
		Message: fmt.Sprintf("Sorry, no bonds from %s were found in our database.", issuer),
	}
}

var (
	securedRe   = regexp.MustCompile(`(?i)\bsecured\b`)
	unsecuredRe = regexp.MustCompile(`(?i)\bunsecured\b`)
)

// handleFiltered accumulates predicates from whatever criteria the
// query carries; absent criteria impose no constraint
// (prd002-directory R3.1, R3.2).
func (d *Directory) handleFiltered(query string) types.Response {
	var preds []filter.Predicate[types.Bond]

	securityType := func(b types.Bond) string { return b.SecurityType }
	switch {
	case unsecuredRe.MatchString(query):
		preds = append(preds, filter.Equals(securityType, "Unsecured"))
	case securedRe.MatchString(query):
		preds = append(preds, filter.Equals(securityType, "Secured"))
	}

	if rate, ok := extract.CouponAbove(query); ok {
		preds = append(preds, filter.GreaterThan(func(b types.Bond) string { return b.CouponRate }, rate))
	}
	if year, ok := extract.MaturityAfterYear(query); ok {
		preds = append(preds, filter.YearAfter(func(b types.Bond) string { return b.RedemptionDate }, year))
	}
	if rating, ok := extract.Rating(query); ok {
		preds = append(preds, filter.Contains(func(b types.Bond) string { return b.CreditRating }, rating))
	}

	matched := filter.Apply(d.bonds, preds...)
	if len(matched) == 0 {
		return types.Response{
			Type:    types.RespNoResults,
			Message: "No bonds match your specified criteria.",
		}
	}

	header := fmt.Sprintf("There are %d bonds which fit your criteria. Here are some details:", len(matched))
	return d.bondPreview(types.RespFilteredBonds, header, matched)
}

// bondPreview renders a capped preview over the matched set. The full
// set always rides in Data; the message states the exact omitted count
// when the preview truncates (prd002-directory R3.3).
func (d *Directory) bondPreview(kind types.ResponseType, header string, matched []types.Bond) types.Response {
	count := len(matched)

	var preview strings.Builder
	for _, b := range matched[:minInt(count, d.previewCap)] {
		fmt.Fprintf(&preview,
			"● ISIN: %s\n● Issuer: %s\n● Coupon Rate: %s%%\n● Redemption Date: %s\n● Security: %s\n\n",
			b.ISIN, orNA(b.IssuerName), orNA(b.CouponRate),
			orNA(b.RedemptionDate), orNA(b.SecurityType))
	}
	if count > d.previewCap {
		fmt.Fprintf(&preview, "... and %d more bonds.\n", count-d.previewCap)
	}

	return types.Response{
		Type:    kind,
		Count:   count,
		Message: header + "\n\n" + preview.String(),
		Data:    matched,
	}
}

// handleMaturityYear lists bonds whose redemption year equals the
// extracted year (prd002-directory R2.5).
func (d *Directory) handleMaturityYear(query string) types.Response {
	year, ok := extract.Year(query)
	if !ok {
		return types.Response{
			Type:    types.RespNoResults,
			Message: "No bonds match your specified criteria.",
		}
	}

	matched := filter.Apply(d.bonds,
		filter.YearEquals(func(b types.Bond) string { return b.RedemptionDate }, year))
	if len(matched) == 0 {
		return types.Response{
			Type:    types.RespNoResults,
			Message: fmt.Sprintf("No bonds in our database are maturing in %d.", year),
		}
	}

	header := fmt.Sprintf("There are %d bonds maturing in %d. Here are some details:", len(matched), year)
	return d.bondPreview(types.RespMaturityBonds, header, matched)
}

// handleSecurity reports the security type of one ISIN.
func (d *Directory) handleSecurity(query string) types.Response {
	isin, _ := extract.ISIN(query)
	bond := d.findISIN(isin)
	if bond == nil {
		return isinNotFound(isin)
	}
	return types.Response{
		Type: types.RespISINDetails,
		ISIN: bond.ISIN,
		Message: fmt.Sprintf("The bond with ISIN %s is %s. Instrument: %s.",
			bond.ISIN, orNA(bond.SecurityType), orNA(bond.InstrumentName)),
		Data: *bond,
	}
}

// handleDocuments serves key-document links for an ISIN, falling back
// to an issuer's documents when the query names an issuer instead.
func (d *Directory) handleDocuments(query string) types.Response {
	isin, ok := extract.ISIN(query)
	if !ok {
		isin, ok = extract.BareToken(query)
	}
	if ok {
		bond := d.findISIN(isin)
		if bond == nil {
			return isinNotFound(isin)
		}
		return types.Response{
			Type: types.RespISINDetails,
			ISIN: bond.ISIN,
			Message: fmt.Sprintf("Key documents for ISIN %s:\n%s",
				bond.ISIN, orNA(bond.KeyDocuments)),
			Data: *bond,
		}
	}

	issuer, ok := extract.IssuerClaim(query, d.issuers)
	if !ok {
		return d.generalHelp()
	}
	bonds := filter.Apply(d.bonds,
		filter.Contains(func(b types.Bond) string { return b.IssuerName }, issuer))
	if len(bonds) == 0 {
		return issuerNotFound(issuer)
	}

	var docs strings.Builder
	for _, b := range bonds {
		fmt.Fprintf(&docs, "%s: %s\n", b.ISIN, orNA(b.KeyDocuments))
	}
	return types.Response{
		Type:    types.RespISINDetails,
		Issuer:  issuer,
		Message: fmt.Sprintf("Key documents for %s bonds:\n%s", issuer, docs.String()),
		Data:    bonds,
	}
}

// handleTrustee reports the debenture trustee of one ISIN.
func (d *Directory) handleTrustee(query string) types.Response {
	isin, _ := extract.ISIN(query)
	bond := d.findISIN(isin)
	if bond == nil {
		return isinNotFound(isin)
	}
	return types.Response{
		Type: types.RespISINDetails,
		ISIN: bond.ISIN,
		Message: fmt.Sprintf("The debenture trustee for ISIN %s is %s.",
			bond.ISIN, orNA(bond.Trustee)),
		Data: *bond,
	}
}

// handleListing reports the listing exchange and trading status of one ISIN.
func (d *Directory) handleListing(query string) types.Response {
	isin, _ := extract.ISIN(query)
	bond := d.findISIN(isin)
	if bond == nil {
		return isinNotFound(isin)
	}
	return types.Response{
		Type: types.RespISINDetails,
		ISIN: bond.ISIN,
		Message: fmt.Sprintf("ISIN %s listing details: %s. Current status: %s.",
			bond.ISIN, orNA(bond.ListingDetails), orNA(bond.Status)),
		Data: *bond,
	}
}

// handleFaceValue reports the face value of one ISIN, cross-checking an
// asserted issuer when present.
func (d *Directory) handleFaceValue(query string) types.Response {
	isin, _ := extract.ISIN(query)
	bond := d.findISIN(isin)
	if bond == nil {
		return isinNotFound(isin)
	}

	if claimed, ok := extract.IssuerClaim(query, d.issuers); ok {
		if !strings.Contains(strings.ToLower(bond.IssuerName), strings.ToLower(claimed)) {
			return d.crossCheck(isin, claimed)
		}
	}

	return types.Response{
		Type: types.RespISINDetails,
		ISIN: bond.ISIN,
		Message: fmt.Sprintf("The face value of ISIN %s is ₹%s.",
			bond.ISIN, rupees(bond.FaceValue)),
		Data: *bond,
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
