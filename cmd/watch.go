package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pivot/internal/pipeline"
	"github.com/papapumpkin/pivot/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dataset.csv]",
	Short: "Re-run the analysis whenever the dataset changes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().String("target", "", "node whose star subgraph is also analyzed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := setupSignalContext(cmd, s.printer)
	defer cancel()

	w, err := watch.NewWatcher(s.cfg.Dataset, debounce(s.cfg))
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	opts := pipeline.OptionsFromConfig(s.cfg)
	analyze := func() {
		out, err := s.run(ctx, opts)
		if err != nil {
			// Keep watching; the next save may fix the dataset.
			s.printer.Error(err.Error())
			return
		}
		if err := s.render(cmd.OutOrStdout(), out.Document); err != nil {
			s.printer.Error(err.Error())
		}
	}

	s.printer.Banner()
	analyze()
	s.printer.Watching(w.Path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			s.printer.FileChanged(change.Kind.String(), change.Path)
			if change.Kind == watch.ChangeRemoved {
				s.printer.Warn("dataset removed; waiting for it to reappear")
				continue
			}
			analyze()
		}
	}
}
