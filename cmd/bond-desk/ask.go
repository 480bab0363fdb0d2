// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bond-desk/internal/agent"
	"github.com/pdiddy/bond-desk/internal/dataset"
	"github.com/pdiddy/bond-desk/internal/logging"
	"github.com/pdiddy/bond-desk/internal/route"
	"github.com/pdiddy/bond-desk/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Route a free-text query to the right agent and print the answer",
	Long: `Ask loads the datasets named in the manifest, scores the query against
every agent's trigger patterns, and dispatches to the winner.

Examples:
  bond-desk ask "Show me details for ISIN INE123456789"
  bond-desk ask "Bonds with yield more than 8"
  bond-desk ask "Compare EPS for Ugro Capital and Navi Finserv"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	asJSON, _ := cmd.Flags().GetBool("json")

	router, stores, err := buildDesk(cmd)
	if err != nil {
		return err
	}
	defer stores.Screener.Close()

	result := router.ProcessQuery(query)

	if asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("[%s, confidence %.2f]\n\n", result.AgentID, result.Confidence)
	fmt.Println(result.Response.Message)
	return nil
}

// buildDesk loads the datasets and wires the agents behind a router.
// Registration order fixes both tie-breaking and the zero-score
// fallback: the directory agent must come first.
func buildDesk(cmd *cobra.Command) (*route.Router, *dataset.Stores, error) {
	level, _ := cmd.Flags().GetString("log-level")
	env, _ := cmd.Flags().GetString("env")
	log, err := logging.New(level, env)
	if err != nil {
		return nil, nil, err
	}

	manifest := viper.GetString("datasets.manifest")
	cfg, err := dataset.LoadManifest(manifest)
	if err != nil {
		return nil, nil, err
	}

	stores, err := dataset.Load(cfg, os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	router := route.New(log,
		agent.NewDirectory(stores.Bonds, types.DirectoryConfig{
			PreviewCap: viper.GetInt("directory.preview_cap"),
		}, log),
		agent.NewFinder(stores.Listings, types.FinderConfig{
			TableCap:  viper.GetInt("finder.table_cap"),
			SampleCap: viper.GetInt("finder.sample_cap"),
		}, log),
		agent.NewScreener(stores.Screener, types.ScreenerConfig{
			NewsCap: viper.GetInt("screener.news_cap"),
		}, log),
	)
	return router, stores, nil
}

func init() {
	askCmd.Flags().Bool("json", false, "output the full routed envelope as JSON")

	rootCmd.AddCommand(askCmd)
}
