package main

import (
	"fmt"

	"github.com/hotelops/upkeep/internal/sqlite"
	"github.com/spf13/cobra"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := ensureDBDir(c.cfg.DB.Path); err != nil {
				return fmt.Errorf("prepare database path: %w", err)
			}
			db, err := sqlite.New(c.cfg.DB.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := db.RunMigrationsContext(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "no pending migrations")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(out, "applied %s\n", name)
			}
			return nil
		},
	}
}
