package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pivot",
	Short: "Graph centrality explorer for tabular datasets",
	Long: `Pivot builds an undirected graph from a CSV dataset, ranks its nodes by
closeness and betweenness centrality, and analyzes the star subgraph around a
chosen node.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .pivot.toml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.String("strategy", "", "graph construction strategy (chain, complete, random, similarity)")
	pf.String("column", "", "dataset column whose values become nodes")
	pf.String("filter", "", "only use rows matching column=value")
	pf.IntP("workers", "w", 0, "goroutines used for centrality traversals")
	pf.StringP("format", "f", "", "report format (text, tsv, json, toml)")
	pf.String("db", "", "SQLite database that records runs")
	pf.String("telemetry", "", "JSONL file that receives run events")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".pivot")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PIVOT")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
