package main

import (
	"errors"

	"github.com/segyhp/loan-ops/internal/domain"
	"github.com/segyhp/loan-ops/internal/metrics"

	"github.com/spf13/cobra"
)

func newMetricsCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Compute repayment metrics for a loan exported as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}

			var loan domain.Loan
			if err := readJSON(file, &loan); err != nil {
				return err
			}

			now, err := opts.now()
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), metrics.ComputeLoanMetrics(&loan, now))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Loan JSON file")
	return cmd
}
