package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pivot/internal/pipeline"
)

var errNoTarget = errors.New("subgraph needs a target; pass --target or set target in .pivot.toml")

var subgraphCmd = &cobra.Command{
	Use:   "subgraph [dataset.csv]",
	Short: "Analyze the star subgraph around one node",
	Long: `Builds the graph, extracts the target node with its direct neighbors and
the edges touching the target, and reports centrality for that subgraph.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSubgraph,
}

func init() {
	subgraphCmd.Flags().StringP("target", "t", "", "node at the center of the star")
	rootCmd.AddCommand(subgraphCmd)
}

func runSubgraph(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()
	if s.cfg.Target == "" {
		return errNoTarget
	}

	ctx, cancel := setupSignalContext(cmd, s.printer)
	defer cancel()

	opts := pipeline.OptionsFromConfig(s.cfg)
	opts.Clusters = 0
	out, err := s.run(ctx, opts)
	if err != nil {
		return err
	}
	if out.Subgraph.Len() == 0 {
		s.printer.Warn("target " + s.cfg.Target + " is not a node of the graph")
	}
	return s.render(cmd.OutOrStdout(), out.Document)
}
