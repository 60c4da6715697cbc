package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newTickCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Run the recurrence scheduler once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := c.newApp(db).Scheduler.Tick(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "due: %d, created: %d, raced: %d, failed: %d\n",
				result.Due, len(result.Materialized), result.Raced, len(result.Failed))
			for _, id := range result.Materialized {
				fmt.Fprintf(out, "  created %s\n", id)
			}
			ids := make([]string, 0, len(result.Failed))
			for id := range result.Failed {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(out, "  failed %s: %v\n", id, result.Failed[id])
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d recurrence(s) failed", len(result.Failed))
			}
			return nil
		},
	}
}
