// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bond-desk/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const bondsCSV = `isin,issuer_name,issuer_type,sector,coupon_rate,instrument_name,face_value,issue_size,redemption_date,credit_rating,listing_details,key_documents,status,security_type,trustee
INE123456789,Ugro Capital Limited,NBFC,Financial Services,10.4,NCD,100000,50,2026-08-16,AA-,BSE,https://example.com/doc,Active,Secured,Catalyst
INE987654321,Navi Finserv Limited,NBFC,Financial Services,,NCD,,,,A+,,,Active,Unsecured,
`

const finderCSV = `issuer,rating,yield_min,yield_max,term_years,available_on_smest,available_on_fixedincome
Ugro Capital Limited,AA-,9.5,10.5,3,Yes,No
`

func TestLoadBonds(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bonds.csv", bondsCSV)

	bonds, err := LoadBonds(path)
	require.NoError(t, err)
	require.Len(t, bonds, 2)

	assert.Equal(t, "INE123456789", bonds[0].ISIN)
	assert.Equal(t, "Ugro Capital Limited", bonds[0].IssuerName)
	assert.Equal(t, "10.4", bonds[0].CouponRate)
	assert.Equal(t, "Catalyst", bonds[0].Trustee)

	// Blank cells stay blank; rendering as N/A happens downstream.
	assert.Empty(t, bonds[1].CouponRate)
	assert.Empty(t, bonds[1].RedemptionDate)
}

func TestLoadBondsMissingRequiredColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.csv", "issuer_name,coupon_rate\nUgro,10.4\n")

	_, err := LoadBonds(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "isin")
}

func TestLoadBondsMissingFile(t *testing.T) {
	_, err := LoadBonds(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestLoadListings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "finder.csv", finderCSV)

	listings, err := LoadListings(path)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Yes", listings[0].AvailableOnSMEST)
	assert.Equal(t, "No", listings[0].AvailableOnFixedIncome)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "datasets.yaml", `
bonds: data/bonds.csv
finder: data/finder.csv
companies: data/companies.csv
financials: data/financials.csv
news: data/news.csv
`)

	cfg, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "data/bonds.csv", cfg.Bonds)
	assert.Equal(t, "data/news.csv", cfg.News)
}

// --- screener store ---

const companiesCSV = `company_name,rating,sector,industry,description,pros,cons,lenders
Ugro Capital Limited,AA-,Financial Services,NBFC,A small business lender.,Strong book;Low NPAs,Concentrated exposure,SBI;HDFC Bank;ICICI Bank;Axis Bank
Navi Finserv Limited,A+,Financial Services,NBFC,A consumer lender.,Fast growth,Thin margins,Kotak;Yes Bank
`

const financialsCSV = `company_name,eps,current_ratio,debt_equity,debt_ebitda,interest_coverage,operating_cashflow,roe,roa
Ugro Capital Limited,15.2,1.8,3.5,4.2,2.5,120,14.1,2.2
`

const newsCSV = `company_name,date,headline
Ugro Capital Limited,2026-05-01,Ugro raises fresh capital
Ugro Capital Limited,2026-07-15,Ugro expands into new states
Ugro Capital Limited,2026-06-20,Ugro reports quarterly results
`

func testStore(t *testing.T) *ScreenerStore {
	t.Helper()
	dir := t.TempDir()
	cfg := types.DatasetsConfig{
		Companies:  writeFile(t, dir, "companies.csv", companiesCSV),
		Financials: writeFile(t, dir, "financials.csv", financialsCSV),
		News:       writeFile(t, dir, "news.csv", newsCSV),
	}
	store, err := NewScreenerStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestScreenerStoreCompanyNames(t *testing.T) {
	store := testStore(t)
	assert.Equal(t, []string{"Ugro Capital Limited", "Navi Finserv Limited"}, store.CompanyNames())
}

func TestScreenerStoreFindProfile(t *testing.T) {
	store := testStore(t)

	p, err := store.FindProfile("Ugro")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ugro Capital Limited", p.Company.Name)
	assert.Equal(t, "15.2", p.EPS)
	assert.Equal(t, "3.5", p.DebtEquity)
}

func TestScreenerStoreFindProfileWithoutFinancials(t *testing.T) {
	store := testStore(t)

	// Navi has no financials row; the join is optional.
	p, err := store.FindProfile("Navi")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Navi Finserv Limited", p.Company.Name)
	assert.Empty(t, p.EPS)
}

func TestScreenerStoreFindProfileMiss(t *testing.T) {
	store := testStore(t)

	p, err := store.FindProfile("Acme")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestScreenerStoreMetric(t *testing.T) {
	store := testStore(t)

	value, company, ok, err := store.Metric("Ugro", "debt_equity")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "3.5", value)
	assert.Equal(t, "Ugro Capital Limited", company)
}

func TestScreenerStoreMetricRejectsUnknownKey(t *testing.T) {
	store := testStore(t)

	_, _, _, err := store.Metric("Ugro", "share_price; DROP TABLE companies")
	require.Error(t, err)
}

func TestScreenerStoreNewsOrderedAndCapped(t *testing.T) {
	store := testStore(t)

	items, err := store.News("Ugro", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2026-07-15", items[0].Date)
	assert.Equal(t, "2026-06-20", items[1].Date)
}

func TestScreenerStoreNewsNormalizesDatesAtIngest(t *testing.T) {
	// 30-01-2026 sorts after 02-06-2026 as raw text even though it is
	// five months earlier; ISO normalization at ingest keeps the
	// ORDER BY chronological for every accepted layout.
	dir := t.TempDir()
	cfg := types.DatasetsConfig{
		Companies:  writeFile(t, dir, "companies.csv", companiesCSV),
		Financials: writeFile(t, dir, "financials.csv", financialsCSV),
		News: writeFile(t, dir, "news.csv", `company_name,date,headline
Ugro Capital Limited,30-01-2026,Q3 results announced
Ugro Capital Limited,02-06-2026,New NCD issue opens
`),
	}
	store, err := NewScreenerStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	items, err := store.News("Ugro", 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2026-06-02", items[0].Date)
	assert.Equal(t, "2026-01-30", items[1].Date)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"SBI", "HDFC Bank"}, SplitList(" SBI ; HDFC Bank "))
	assert.Nil(t, SplitList("  "))
}

// --- full load ---

func TestLoadWritesProgress(t *testing.T) {
	dir := t.TempDir()
	cfg := types.DatasetsConfig{
		Bonds:      writeFile(t, dir, "bonds.csv", bondsCSV),
		Finder:     writeFile(t, dir, "finder.csv", finderCSV),
		Companies:  writeFile(t, dir, "companies.csv", companiesCSV),
		Financials: writeFile(t, dir, "financials.csv", financialsCSV),
		News:       writeFile(t, dir, "news.csv", newsCSV),
	}

	var buf bytes.Buffer
	stores, err := Load(cfg, &buf)
	require.NoError(t, err)
	t.Cleanup(func() { stores.Screener.Close() })

	assert.Len(t, stores.Bonds, 2)
	assert.Len(t, stores.Listings, 1)
	assert.Contains(t, buf.String(), "loaded bonds")
	assert.Contains(t, buf.String(), "loaded screener")
}
