package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pivot/internal/pipeline"
	"github.com/papapumpkin/pivot/internal/report"
	"github.com/papapumpkin/pivot/internal/ui"
)

// defaultClusterCount applies when neither -k nor the clusters key is set.
const defaultClusterCount = 3

var errClusterCount = errors.New("cluster count must be at least 1")

var clusterCmd = &cobra.Command{
	Use:   "cluster [dataset.csv]",
	Short: "Split nodes into round-robin clusters and list connected components",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCluster,
}

func init() {
	clusterCmd.Flags().IntP("clusters", "k", 0, "number of clusters (config clusters, else 3)")
	rootCmd.AddCommand(clusterCmd)
}

func runCluster(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := pipeline.OptionsFromConfig(s.cfg)
	opts.Target = ""
	if _, set := flagInt(cmd, "clusters"); !set && opts.Clusters == 0 {
		opts.Clusters = defaultClusterCount
	}
	if opts.Clusters < 1 {
		return fmt.Errorf("%w, got %d", errClusterCount, opts.Clusters)
	}

	ctx, cancel := setupSignalContext(cmd, s.printer)
	defer cancel()

	out, err := s.run(ctx, opts)
	if err != nil {
		return err
	}

	if s.cfg.Format != report.FormatText {
		return s.render(cmd.OutOrStdout(), out.Document)
	}
	p := ui.New(cmd.OutOrStdout())
	p.Groups("Clusters", out.Clusters)
	p.Groups("Components", out.Components)
	return nil
}
