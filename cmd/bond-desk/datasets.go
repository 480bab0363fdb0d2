// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bond-desk/internal/dataset"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Validate the dataset manifest and print per-store row counts",
	Long: `Datasets loads every CSV named in the manifest the same way ask does,
so a malformed or missing file fails here instead of mid-query.`,
	RunE: runDatasets,
}

func runDatasets(cmd *cobra.Command, args []string) error {
	manifest := viper.GetString("datasets.manifest")
	cfg, err := dataset.LoadManifest(manifest)
	if err != nil {
		return err
	}

	stores, err := dataset.Load(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer stores.Screener.Close()

	fmt.Printf("\nAll datasets loaded: %d bonds, %d listings, %d companies.\n",
		len(stores.Bonds), len(stores.Listings), len(stores.Screener.CompanyNames()))
	return nil
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}
