package main

import (
	"fmt"
	"time"

	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/spf13/cobra"
)

func newNextDueCmd(c *cli) *cobra.Command {
	var (
		frequency  string
		dayOfWeek  int
		dayOfMonth int
		month      int
		after      string
		count      int
	)
	cmd := &cobra.Command{
		Use:   "next-due",
		Short: "Preview upcoming occurrences of a schedule",
		Example: `  upkeep next-due --frequency weekly --day-of-week 1
  upkeep next-due --frequency monthly --day-of-month 31 --after 2024-01-31T12:00:00Z --count 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			from := time.Now()
			if after != "" {
				t, err := time.Parse(time.RFC3339, after)
				if err != nil {
					return fmt.Errorf("--after must be RFC3339: %w", err)
				}
				from = t
			}

			d := recurrence.Descriptor{Frequency: recurrence.Frequency(frequency)}
			flags := cmd.Flags()
			if flags.Changed("day-of-week") {
				d.DayOfWeek = &dayOfWeek
			}
			if flags.Changed("day-of-month") {
				d.DayOfMonth = &dayOfMonth
			}
			if flags.Changed("month") {
				d.Month = &month
			}

			svc := recurrence.NewService(nil, nil, c.evaluator(), nil, c.logger)
			loc := c.cfg.Location()
			for range count {
				next, err := svc.ComputeNextDue(d, from)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), next.In(loc).Format(time.RFC3339))
				from = next
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&frequency, "frequency", "", "daily, weekly, monthly, quarterly or yearly")
	cmd.Flags().IntVar(&dayOfWeek, "day-of-week", recurrence.DefaultDayOfWeek, "weekday for weekly schedules, Sunday is 0")
	cmd.Flags().IntVar(&dayOfMonth, "day-of-month", recurrence.DefaultDayOfMonth, "day for monthly, quarterly and yearly schedules")
	cmd.Flags().IntVar(&month, "month", recurrence.DefaultMonth, "month for yearly schedules, January is 0")
	cmd.Flags().StringVar(&after, "after", "", "RFC3339 start time (default now)")
	cmd.Flags().IntVar(&count, "count", 1, "number of occurrences to print")
	_ = cmd.MarkFlagRequired("frequency")
	return cmd
}
