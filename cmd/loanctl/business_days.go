package main

import (
	"errors"
	"fmt"

	"github.com/segyhp/loan-ops/internal/domain"
	"github.com/segyhp/loan-ops/pkg/utils"

	"github.com/spf13/cobra"
)

func newBusinessDaysCmd(opts *options) *cobra.Command {
	var (
		from string
		to   string
		add  int
	)

	cmd := &cobra.Command{
		Use:   "business-days",
		Short: "Count weekdays between two dates, or add weekdays to a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := opts.location()
			if err != nil {
				return err
			}
			if from == "" {
				return errors.New("--from is required")
			}
			start, err := parseDate(from, loc)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("add") {
				end := utils.AddBusinessDays(start, add)
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", end.Format(domain.DateLayout), end.Weekday())
				return err
			}

			if to == "" {
				return errors.New("either --to or --add is required")
			}
			end, err := parseDate(to, loc)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), utils.CountBusinessDays(start, end))
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD), inclusive")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD), inclusive")
	cmd.Flags().IntVar(&add, "add", 0, "Number of business days to add to --from")
	return cmd
}
