package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/storage"
)

func newHistoryCmd(out io.Writer, settings, envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history <save-name>",
		Short: "List the battles recorded for a save (redis and postgres backends)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd.Flags(), *settings, *envFile)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			store, closeStore, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			rec, ok := store.(storage.Recorder)
			if !ok {
				return errors.New("the " + cfg.Storage.Backend + " backend keeps no battle history")
			}
			records, err := rec.History(cmd.Context(), args[0])
			if err != nil {
				logger.Error("reading history", zap.String("save", args[0]), zap.Error(err))
				return err
			}
			return writeHistory(out, records)
		},
	}
}

func writeHistory(out io.Writer, records []storage.BattleRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "no battles recorded")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FINISHED\tOUTCOME\tTURNS\tBATTLE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Finished.Local().Format(time.DateTime), r.Outcome, r.Turns, r.ID)
	}
	return tw.Flush()
}
