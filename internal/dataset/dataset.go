// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bond-desk/pkg/types"
)

// LoadManifest reads a YAML manifest naming each dataset file (R2.1).
func LoadManifest(path string) (types.DatasetsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.DatasetsConfig{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var cfg types.DatasetsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.DatasetsConfig{}, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return cfg, nil
}

// LoadBonds reads the bond directory dataset (R1.1).
func LoadBonds(path string) ([]types.Bond, error) {
	t, err := readTable(path, "isin", "issuer_name")
	if err != nil {
		return nil, err
	}

	bonds := make([]types.Bond, 0, len(t.rows))
	for _, row := range t.rows {
		bonds = append(bonds, types.Bond{
			ISIN:           t.get(row, "isin"),
			IssuerName:     t.get(row, "issuer_name"),
			IssuerType:     t.get(row, "issuer_type"),
			Sector:         t.get(row, "sector"),
			CouponRate:     t.get(row, "coupon_rate"),
			InstrumentName: t.get(row, "instrument_name"),
			FaceValue:      t.get(row, "face_value"),
			IssueSize:      t.get(row, "issue_size"),
			RedemptionDate: t.get(row, "redemption_date"),
			CreditRating:   t.get(row, "credit_rating"),
			ListingDetails: t.get(row, "listing_details"),
			KeyDocuments:   t.get(row, "key_documents"),
			Status:         t.get(row, "status"),
			SecurityType:   t.get(row, "security_type"),
			Trustee:        t.get(row, "trustee"),
		})
	}
	return bonds, nil
}

// LoadListings reads the bond finder dataset (R1.1).
func LoadListings(path string) ([]types.Listing, error) {
	t, err := readTable(path, "issuer")
	if err != nil {
		return nil, err
	}

	listings := make([]types.Listing, 0, len(t.rows))
	for _, row := range t.rows {
		listings = append(listings, types.Listing{
			Issuer:                 t.get(row, "issuer"),
			Rating:                 t.get(row, "rating"),
			YieldMin:               t.get(row, "yield_min"),
			YieldMax:               t.get(row, "yield_max"),
			TermYears:              t.get(row, "term_years"),
			AvailableOnSMEST:       t.get(row, "available_on_smest"),
			AvailableOnFixedIncome: t.get(row, "available_on_fixedincome"),
		})
	}
	return listings, nil
}

// Stores bundles the loaded record stores for agent construction.
type Stores struct {
	Bonds    []types.Bond
	Listings []types.Listing
	Screener *ScreenerStore
}

// Load reads every dataset named in the manifest, writing one progress
// line per file to w (R2.2). Any failure aborts the load: a malformed
// or missing dataset is a hard error, unlike malformed cells.
func Load(cfg types.DatasetsConfig, w io.Writer) (*Stores, error) {
	bonds, err := LoadBonds(cfg.Bonds)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "loaded bonds      %s (%d rows)\n", cfg.Bonds, len(bonds))

	listings, err := LoadListings(cfg.Finder)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "loaded finder     %s (%d rows)\n", cfg.Finder, len(listings))

	screener, err := NewScreenerStore(cfg)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "loaded screener   %s, %s, %s (%d companies)\n",
		cfg.Companies, cfg.Financials, cfg.News, len(screener.CompanyNames()))

	return &Stores{Bonds: bonds, Listings: listings, Screener: screener}, nil
}
