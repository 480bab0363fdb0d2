package types

// DatasetsConfig names the CSV files behind each record store.
// Per prd001-datasets R2.1; the manifest file (datasets.yaml)
// unmarshals into this struct.
type DatasetsConfig struct {
	// Bonds is the bond directory CSV path.
	Bonds string `json:"bonds" yaml:"bonds"`

	// Finder is the bond finder listings CSV path.
	Finder string `json:"finder" yaml:"finder"`

	// Companies, Financials, and News are the screener CSV paths.
	Companies  string `json:"companies" yaml:"companies"`
	Financials string `json:"financials" yaml:"financials"`
	News       string `json:"news" yaml:"news"`
}

// DirectoryConfig holds settings for the bond directory agent.
// Per prd002-directory R3.3.
type DirectoryConfig struct {
	// PreviewCap bounds rendered previews for criteria searches
	// (default 5). The full matched set is still returned in Data.
	PreviewCap int `json:"preview_cap" yaml:"preview_cap"`
}

// FinderConfig holds settings for the bond finder agent.
// Per prd003-finder R2.2, R3.1.
type FinderConfig struct {
	// TableCap bounds rendered yield and rating tables (default 10).
	TableCap int `json:"table_cap" yaml:"table_cap"`

	// SampleCap bounds the general-info issuer sample (default 5).
	SampleCap int `json:"sample_cap" yaml:"sample_cap"`
}

// ScreenerConfig holds settings for the bond screener agent.
type ScreenerConfig struct {
	// NewsCap bounds the recent-news listing (default 5).
	NewsCap int `json:"news_cap" yaml:"news_cap"`
}

// DeskConfig groups all agent configurations for the desk.
type DeskConfig struct {
	Datasets  DatasetsConfig  `json:"datasets" yaml:"datasets"`
	Directory DirectoryConfig `json:"directory" yaml:"directory"`
	Finder    FinderConfig    `json:"finder" yaml:"finder"`
	Screener  ScreenerConfig  `json:"screener" yaml:"screener"`
}
