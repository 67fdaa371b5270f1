package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pivot/internal/config"
	"github.com/papapumpkin/pivot/internal/store"
	"github.com/papapumpkin/pivot/internal/ui"
)

var errNoDB = errors.New("no run database; pass --db or set db_path in .pivot.toml")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List analysis runs recorded in the run database",
	Long: `Lists runs saved by analyze, subgraph, cluster and watch when a run
database is configured. With --run the per-node scores of one run are shown.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "maximum number of runs to list (0 for all)")
	historyCmd.Flags().String("run", "", "show the scores of this run ID")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)
	if cfg.DBPath == "" {
		return errNoDB
	}

	ctx := commandContext(cmd)
	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	p := ui.New(cmd.OutOrStdout())
	if id, _ := cmd.Flags().GetString("run"); id != "" {
		run, err := st.Run(ctx, id)
		if err != nil {
			return err
		}
		scores, err := st.Scores(ctx, id)
		if err != nil {
			return err
		}
		p.Scores(run, scores)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := st.Runs(ctx, limit)
	if err != nil {
		return err
	}
	p.History(runs)
	return nil
}
