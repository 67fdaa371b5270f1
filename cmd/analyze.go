package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pivot/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dataset.csv]",
	Short: "Build the graph and report closeness, betweenness and PageRank",
	Long: `Loads the dataset, builds a graph with the configured strategy and prints
a centrality report. With --target the star subgraph around that node is
analyzed as well. With --clusters K the nodes are also split into K
round-robin clusters.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("target", "", "node whose star subgraph is also analyzed")
	analyzeCmd.Flags().Int("clusters", 0, "number of round-robin clusters to report (0 skips clustering)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := setupSignalContext(cmd, s.printer)
	defer cancel()

	out, err := s.run(ctx, pipeline.OptionsFromConfig(s.cfg))
	if err != nil {
		return err
	}
	return s.render(cmd.OutOrStdout(), out.Document)
}
