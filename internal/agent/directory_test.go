// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/bond-desk/pkg/types"
)

// --- fixtures ---

func bond(isin, issuer, coupon, redemption, status, security, rating string) types.Bond {
	return types.Bond{
		ISIN:           isin,
		IssuerName:     issuer,
		IssuerType:     "NBFC",
		Sector:         "Financial Services",
		CouponRate:     coupon,
		InstrumentName: "Non-Convertible Debenture",
		FaceValue:      "100000",
		IssueSize:      "50",
		RedemptionDate: redemption,
		CreditRating:   rating,
		ListingDetails: "BSE",
		KeyDocuments:   "https://example.com/docs",
		Status:         status,
		SecurityType:   security,
		Trustee:        "Catalyst Trusteeship",
	}
}

func sampleBonds() []types.Bond {
	return []types.Bond{
		bond("INE123456789", "Ugro Capital Limited", "10.4", "2026-08-16", "Active", "Secured", "AA-"),
		bond("INE123456790", "Ugro Capital Limited", "11.0", "2027-03-01", "Active", "Secured", "AA-"),
		bond("INE123456791", "Ugro Capital Limited", "9.8", "2024-01-15", "Matured", "Unsecured", "AA-"),
		bond("INE999888777", "Navi Finserv Limited", "10.0", "2028-06-30", "Active", "Secured", "A+"),
	}
}

func testDirectory(bonds []types.Bond) *Directory {
	return NewDirectory(bonds, types.DirectoryConfig{}, zap.NewNop())
}

// --- ISIN lookup ---

func TestISINDetails(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Show me details for ISIN INE123456789")

	if resp.Type != types.RespISINDetails {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespISINDetails)
	}
	if !strings.Contains(resp.Message, "INE123456789") {
		t.Error("message does not name the ISIN")
	}
	for _, field := range []string{"Ugro Capital Limited", "10.4%", "₹100,000", "AA-"} {
		if !strings.Contains(resp.Message, field) {
			t.Errorf("message missing template field %q", field)
		}
	}
}

func TestISINDetailsRendersMissingFieldsAsNA(t *testing.T) {
	b := sampleBonds()[0]
	b.Sector = ""
	b.CreditRating = ""
	d := testDirectory([]types.Bond{b})

	resp := d.ProcessQuery("Show me details for ISIN INE123456789")
	if resp.Type != types.RespISINDetails {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespISINDetails)
	}
	if !strings.Contains(resp.Message, "Sector: N/A") {
		t.Error("blank sector did not render as N/A")
	}
}

func TestISINNotFound(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Show me details for ISIN INE000000000")

	if resp.Type != types.RespError || resp.Error != types.ErrISINNotFound {
		t.Fatalf("response = %s/%s; want %s/%s",
			resp.Type, resp.Error, types.RespError, types.ErrISINNotFound)
	}
}

func TestISINIssuerMismatch(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Is ISIN INE123456789 issued by Navi Finserv?")

	if resp.Type != types.RespError || resp.Error != types.ErrISINIssuerMismatch {
		t.Fatalf("response = %s/%s; want %s/%s",
			resp.Type, resp.Error, types.RespError, types.ErrISINIssuerMismatch)
	}
	if !strings.Contains(resp.Message, "does not belong to Navi Finserv") {
		t.Errorf("mismatch message = %q", resp.Message)
	}
	if !strings.Contains(resp.Message, "Ugro Capital Limited") {
		t.Error("mismatch message does not name the actual issuer")
	}
}

func TestISINIssuerClaimMatchesFallsThroughToDetails(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Is ISIN INE123456789 issued by Ugro Capital?")

	if resp.Type != types.RespISINDetails {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespISINDetails)
	}
}

// --- issuer issuances ---

func TestIssuerIssuancesCounts(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Show me all issuances by Ugro Capital")

	if resp.Type != types.RespIssuerIssuances {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespIssuerIssuances)
	}
	if resp.Count != 3 {
		t.Errorf("count = %d; want 3", resp.Count)
	}
	for _, want := range []string{"3 bonds in total", "2 are active, and 1 have matured"} {
		if !strings.Contains(resp.Message, want) {
			t.Errorf("message missing %q:\n%s", want, resp.Message)
		}
	}
}

func TestIssuerIssuancesUnknownIssuer(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Show me all issuances by Acme Corp")

	if resp.Type != types.RespError || resp.Error != types.ErrIssuerNotFound {
		t.Fatalf("response = %s/%s; want %s/%s",
			resp.Type, resp.Error, types.RespError, types.ErrIssuerNotFound)
	}
	if !strings.Contains(resp.Message, "Acme Corp") {
		t.Error("message does not name the requested issuer")
	}
}

// --- filtered search ---

func TestFilteredSearchConjunctive(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Find secured debentures with coupon rate above 10% and maturity after 2026")

	if resp.Type != types.RespFilteredBonds {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespFilteredBonds)
	}
	// Secured AND coupon > 10 AND redemption year > 2026: only
	// INE123456790 (11.0, 2027). INE123456789 fails the strict coupon
	// bound at 10.4 > 10 but 2026 is not after 2026.
	matched, ok := resp.Data.([]types.Bond)
	if !ok {
		t.Fatalf("data is %T; want []types.Bond", resp.Data)
	}
	if len(matched) != 1 || matched[0].ISIN != "INE123456790" {
		t.Fatalf("matched = %v; want only INE123456790", matched)
	}
}

func TestFilteredSearchRatedWithMaturity(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Find secured debentures rated AA with maturity after 2026")

	if resp.Type != types.RespFilteredBonds {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespFilteredBonds)
	}
	// Secured AND rated AA (substring, so AA- qualifies) AND redemption
	// year > 2026: only INE123456790. The "with maturity" clause must
	// not be mistaken for the rating criterion.
	matched, ok := resp.Data.([]types.Bond)
	if !ok {
		t.Fatalf("data is %T; want []types.Bond", resp.Data)
	}
	if len(matched) != 1 || matched[0].ISIN != "INE123456790" {
		t.Fatalf("matched = %v; want only INE123456790", matched)
	}
}

func TestFilteredSearchNoResults(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Find secured bonds with coupon rate above 99%")

	if resp.Type != types.RespNoResults {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespNoResults)
	}
}

func manySecured(n int) []types.Bond {
	bonds := make([]types.Bond, 0, n)
	for i := 0; i < n; i++ {
		bonds = append(bonds,
			bond(fmt.Sprintf("INE%09d", i), "Ugro Capital Limited", "11.0", "2027-03-01", "Active", "Secured", "AA"))
	}
	return bonds
}

func TestFilteredSearchAtCapHasNoTruncationNotice(t *testing.T) {
	d := testDirectory(manySecured(5))
	resp := d.ProcessQuery("Find secured bonds with coupon rate above 10%")

	if resp.Count != 5 {
		t.Fatalf("count = %d; want 5", resp.Count)
	}
	if strings.Contains(resp.Message, "more bonds") {
		t.Error("preview exactly at the cap must not carry a truncation notice")
	}
}

func TestFilteredSearchOneBeyondCapStatesOverflow(t *testing.T) {
	d := testDirectory(manySecured(6))
	resp := d.ProcessQuery("Find secured bonds with coupon rate above 10%")

	if resp.Count != 6 {
		t.Fatalf("count = %d; want 6", resp.Count)
	}
	if !strings.Contains(resp.Message, "... and 1 more bonds.") {
		t.Errorf("message missing exact overflow count:\n%s", resp.Message)
	}
	if data, ok := resp.Data.([]types.Bond); !ok || len(data) != 6 {
		t.Error("data must carry the full matched set, not the truncated preview")
	}
}

// --- maturity year ---

func TestMaturityYear(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Which bonds are maturing in 2027?")

	if resp.Type != types.RespMaturityBonds {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespMaturityBonds)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d; want 1", resp.Count)
	}
}

func TestMaturityYearNoMatches(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Which bonds are maturing in 2099?")

	if resp.Type != types.RespNoResults {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespNoResults)
	}
}

// --- per-ISIN detail intents ---

func TestTrusteeLookup(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Who is the debenture trustee for ISIN INE123456789?")

	if resp.Type != types.RespISINDetails {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespISINDetails)
	}
	if !strings.Contains(resp.Message, "Catalyst Trusteeship") {
		t.Errorf("message = %q; want the trustee name", resp.Message)
	}
}

func TestListingLookup(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("What are the listing details for ISIN INE123456789?")

	if resp.Type != types.RespISINDetails {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespISINDetails)
	}
	if !strings.Contains(resp.Message, "BSE") || !strings.Contains(resp.Message, "Active") {
		t.Errorf("message = %q; want listing details and status", resp.Message)
	}
}

func TestFaceValueLookup(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("What is the face value of ISIN INE123456789?")

	if resp.Type != types.RespISINDetails {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespISINDetails)
	}
	if !strings.Contains(resp.Message, "₹100,000") {
		t.Errorf("message = %q; want a humanized face value", resp.Message)
	}
}

func TestDocumentsLookup(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("Share the key documents for ISIN INE123456789")

	if resp.Type != types.RespISINDetails {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespISINDetails)
	}
	if !strings.Contains(resp.Message, "https://example.com/docs") {
		t.Errorf("message = %q; want the document link", resp.Message)
	}
}

// --- rule ordering ---

// A query that mentions both a specific intent and an ISIN must reach
// the specific handler: a bare ISIN rule evaluated first would also
// match and swallow it.
func TestSpecificIntentPrecedesPlainISINLookup(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	d := testDirectory(sampleBonds())

	resp := d.ProcessQuery("Show me the cash flow schedule for ISIN INE999888777")
	if resp.Type != types.RespCashFlowSchedule {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespCashFlowSchedule)
	}

	resp = d.ProcessQuery("What is the security status for ISIN INE123456789?")
	if !strings.Contains(resp.Message, "Secured") {
		t.Errorf("security query reached the wrong handler: %q", resp.Message)
	}
}

// --- fallback ---

func TestFallbackGeneralHelp(t *testing.T) {
	d := testDirectory(sampleBonds())
	resp := d.ProcessQuery("hello there")

	if resp.Type != types.RespGeneralHelp {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespGeneralHelp)
	}
}

// --- cash flow schedule ---

func TestCashFlowSchedule(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	b := bond("INE777000111", "Ugro Capital Limited", "10", "2028-06-30", "Active", "Secured", "AA")
	b.FaceValue = "1000"
	d := testDirectory([]types.Bond{b})

	resp := d.ProcessQuery("Show me the cash flow schedule for ISIN INE777000111")
	if resp.Type != types.RespCashFlowSchedule {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespCashFlowSchedule)
	}

	flows, ok := resp.Data.([]CashFlow)
	if !ok {
		t.Fatalf("data is %T; want []CashFlow", resp.Data)
	}
	// Anniversaries after 2026-01-15: mid-2026, 2027, 2028.
	if len(flows) != 3 {
		t.Fatalf("got %d flows; want 3", len(flows))
	}
	for i, f := range flows[:2] {
		if f.Kind != "coupon" || f.Amount != 100 {
			t.Errorf("flow %d = %+v; want a 100 coupon", i, f)
		}
	}
	last := flows[2]
	if last.Kind != "redemption" || last.Amount != 1100 {
		t.Errorf("final flow = %+v; want principal plus coupon marked redemption", last)
	}
	if !flows[0].Date.Before(flows[1].Date) {
		t.Error("flows are not in chronological order")
	}
}

func TestCashFlowScheduleUnusableRecord(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	b := bond("INE777000222", "Ugro Capital Limited", "10", "someday", "Active", "Secured", "AA")
	d := testDirectory([]types.Bond{b})

	resp := d.ProcessQuery("Show me the cash flow schedule for ISIN INE777000222")
	if resp.Type != types.RespNoResults {
		t.Fatalf("response type = %s; want %s", resp.Type, types.RespNoResults)
	}
}

// --- idempotence ---

func TestProcessQueryIsIdempotent(t *testing.T) {
	d := testDirectory(sampleBonds())
	q := "Show me all issuances by Ugro Capital"

	first := d.ProcessQuery(q)
	second := d.ProcessQuery(q)
	if first.Message != second.Message || first.Count != second.Count {
		t.Error("repeated queries against an unmutated store diverged")
	}
}
