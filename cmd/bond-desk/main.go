// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bond-desk CLI.
// Implements: prd002-directory, prd003-finder, prd004-screener,
//             prd005-routing (CLI surface).
// See docs/ARCHITECTURE § Desk Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the bond-desk CLI.
var rootCmd = &cobra.Command{
	Use:   "bond-desk",
	Short: "Natural-language query desk for fixed-income datasets",
	Long: `bond-desk answers free-text questions about bonds: directory lookups by
ISIN or issuer, cross-platform availability and yield screens, and company
analysis over the screener datasets.

Each query is routed to one of three specialized agents by pattern-match
scoring; the winning agent runs an ordered rule cascade and renders a
templated text answer.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bond-desk.yaml or ~/.config/bond-desk/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("env", "development", "environment (development, production)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bond-desk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bond-desk"))
		}
	}

	viper.SetEnvPrefix("BOND_DESK")
	viper.AutomaticEnv()

	viper.SetDefault("datasets.manifest", "datasets.yaml")
	viper.SetDefault("directory.preview_cap", 5)
	viper.SetDefault("finder.table_cap", 10)
	viper.SetDefault("finder.sample_cap", 5)
	viper.SetDefault("screener.news_cap", 5)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
