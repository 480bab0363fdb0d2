// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bond-desk/internal/filter"
	"github.com/pdiddy/bond-desk/pkg/types"
)

// ScreenerStore holds the screener's three datasets (companies,
// financial metrics, news) in an in-memory SQLite database so handlers
// can join them by company name (R3.1). The database is populated once
// at construction and read-only afterward.
type ScreenerStore struct {
	db    *sql.DB
	names []string
}

// metricColumns maps canonical metric keys to financials columns. It
// doubles as an allowlist: metric keys never reach SQL unchecked.
var metricColumns = map[string]string{
	"eps":                "eps",
	"current_ratio":      "current_ratio",
	"debt_equity":        "debt_equity",
	"debt_ebitda":        "debt_ebitda",
	"interest_coverage":  "interest_coverage",
	"operating_cashflow": "operating_cashflow",
	"roe":                "roe",
	"roa":                "roa",
}

// NewScreenerStore builds the in-memory database from the three
// screener CSVs named in cfg (R3.1, R3.2).
func NewScreenerStore(cfg types.DatasetsConfig) (*ScreenerStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening screener database: %w", err)
	}

	s := &ScreenerStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating screener schema: %w", err)
	}
	if err := s.ingest(cfg); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.loadNames(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *ScreenerStore) Close() error {
	return s.db.Close()
}

func (s *ScreenerStore) createSchema() error {
	statements := []string{
		`CREATE TABLE companies (
			company_name TEXT PRIMARY KEY,
			rating TEXT,
			sector TEXT,
			industry TEXT,
			description TEXT,
			pros TEXT,
			cons TEXT,
			lenders TEXT
		)`,
		`CREATE TABLE financials (
			company_name TEXT PRIMARY KEY REFERENCES companies(company_name),
			eps TEXT,
			current_ratio TEXT,
			debt_equity TEXT,
			debt_ebitda TEXT,
			interest_coverage TEXT,
			operating_cashflow TEXT,
			roe TEXT,
			roa TEXT
		)`,
		`CREATE TABLE news (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			company_name TEXT,
			date TEXT,
			headline TEXT
		)`,
		`CREATE INDEX idx_news_company ON news(company_name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *ScreenerStore) ingest(cfg types.DatasetsConfig) error {
	companies, err := readTable(cfg.Companies, "company_name")
	if err != nil {
		return err
	}
	for _, row := range companies.rows {
		_, err := s.db.Exec(
			`INSERT OR REPLACE INTO companies
			 (company_name, rating, sector, industry, description, pros, cons, lenders)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			companies.get(row, "company_name"),
			companies.get(row, "rating"),
			companies.get(row, "sector"),
			companies.get(row, "industry"),
			companies.get(row, "description"),
			companies.get(row, "pros"),
			companies.get(row, "cons"),
			companies.get(row, "lenders"),
		)
		if err != nil {
			return fmt.Errorf("inserting company row: %w", err)
		}
	}

	financials, err := readTable(cfg.Financials, "company_name")
	if err != nil {
		return err
	}
	for _, row := range financials.rows {
		_, err := s.db.Exec(
			`INSERT OR REPLACE INTO financials
			 (company_name, eps, current_ratio, debt_equity, debt_ebitda,
			  interest_coverage, operating_cashflow, roe, roa)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			financials.get(row, "company_name"),
			financials.get(row, "eps"),
			financials.get(row, "current_ratio"),
			financials.get(row, "debt_equity"),
			financials.get(row, "debt_ebitda"),
			financials.get(row, "interest_coverage"),
			financials.get(row, "operating_cashflow"),
			financials.get(row, "roe"),
			financials.get(row, "roa"),
		)
		if err != nil {
			return fmt.Errorf("inserting financials row: %w", err)
		}
	}

	news, err := readTable(cfg.News, "company_name")
	if err != nil {
		return err
	}
	for _, row := range news.rows {
		_, err := s.db.Exec(
			`INSERT INTO news (company_name, date, headline) VALUES (?, ?, ?)`,
			news.get(row, "company_name"),
			isoDate(news.get(row, "date")),
			news.get(row, "headline"),
		)
		if err != nil {
			return fmt.Errorf("inserting news row: %w", err)
		}
	}

	return nil
}

// isoDate normalizes a date cell to ISO form at ingest. The news table
// sorts on this TEXT column, and only ISO dates sort chronologically
// under string comparison. Unparsable cells pass through unchanged.
func isoDate(s string) string {
	if t, ok := filter.ParseDate(s); ok {
		return t.Format("2006-01-02")
	}
	return s
}

func (s *ScreenerStore) loadNames() error {
	rows, err := s.db.Query(`SELECT company_name FROM companies ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("loading company names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scanning company name: %w", err)
		}
		s.names = append(s.names, name)
	}
	return rows.Err()
}

// CompanyNames returns the known-name column used to validate extracted
// company candidates (prd004-screener R1.2).
func (s *ScreenerStore) CompanyNames() []string {
	return s.names
}

// Profile joins a company's descriptive row with its financial metrics.
type Profile struct {
	types.Company
	types.Financials
}

// FindProfile resolves name by case-insensitive substring match against
// the company column and returns the joined profile, or nil when no
// company matches (R3.3). The financials side of the join is optional;
// absent metrics stay blank and render as "N/A".
func (s *ScreenerStore) FindProfile(name string) (*Profile, error) {
	row := s.db.QueryRow(
		`SELECT c.company_name, c.rating, c.sector, c.industry, c.description,
		        c.pros, c.cons, c.lenders,
		        COALESCE(f.eps, ''), COALESCE(f.current_ratio, ''),
		        COALESCE(f.debt_equity, ''), COALESCE(f.debt_ebitda, ''),
		        COALESCE(f.interest_coverage, ''), COALESCE(f.operating_cashflow, ''),
		        COALESCE(f.roe, ''), COALESCE(f.roa, '')
		 FROM companies c
		 LEFT JOIN financials f ON f.company_name = c.company_name
		 WHERE c.company_name LIKE '%' || ? || '%'
		 ORDER BY c.rowid LIMIT 1`, name)

	var p Profile
	err := row.Scan(
		&p.Company.Name, &p.Company.Rating, &p.Company.Sector, &p.Company.Industry,
		&p.Company.Description, &p.Company.Pros, &p.Company.Cons, &p.Company.Lenders,
		&p.Financials.EPS, &p.Financials.CurrentRatio, &p.Financials.DebtEquity,
		&p.Financials.DebtEBITDA, &p.Financials.InterestCoverage,
		&p.Financials.OperatingCashflow, &p.Financials.ROE, &p.Financials.ROA,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile for %q: %w", name, err)
	}
	p.Financials.Company = p.Company.Name
	return &p, nil
}

// Metric returns the value of one financial metric for the company
// matching name, along with the resolved company name. The metric key
// must be one of the metricColumns allowlist (R3.4). A missing company
// returns ok=false; a missing value returns "".
func (s *ScreenerStore) Metric(name, metric string) (value, company string, ok bool, err error) {
	col, valid := metricColumns[metric]
	if !valid {
		return "", "", false, fmt.Errorf("unknown metric key %q", metric)
	}

	row := s.db.QueryRow(
		`SELECT c.company_name, COALESCE(f.`+col+`, '')
		 FROM companies c
		 LEFT JOIN financials f ON f.company_name = c.company_name
		 WHERE c.company_name LIKE '%' || ? || '%'
		 ORDER BY c.rowid LIMIT 1`, name)

	err = row.Scan(&company, &value)
	if err == sql.ErrNoRows {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("querying metric %s for %q: %w", metric, name, err)
	}
	return value, company, true, nil
}

// News returns up to limit news items for the company matching name,
// most recent first (R3.5).
func (s *ScreenerStore) News(name string, limit int) ([]types.NewsItem, error) {
	rows, err := s.db.Query(
		`SELECT company_name, date, headline FROM news
		 WHERE company_name LIKE '%' || ? || '%'
		 ORDER BY date DESC LIMIT ?`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("querying news for %q: %w", name, err)
	}
	defer rows.Close()

	var items []types.NewsItem
	for rows.Next() {
		var item types.NewsItem
		if err := rows.Scan(&item.Company, &item.Date, &item.Headline); err != nil {
			return nil, fmt.Errorf("scanning news row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SplitList splits a semicolon-separated CSV list column into items.
func SplitList(column string) []string {
	if strings.TrimSpace(column) == "" {
		return nil
	}
	parts := strings.Split(column, ";")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
