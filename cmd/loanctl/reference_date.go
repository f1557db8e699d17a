package main

import (
	"errors"
	"fmt"

	"github.com/segyhp/loan-ops/internal/domain"
	"github.com/segyhp/loan-ops/internal/remittance"

	"github.com/spf13/cobra"
)

func newReferenceDateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reference-date",
		Short: "Print the collection day a remittance is expected for",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := opts.now()
			if err != nil {
				return err
			}

			ref := remittance.ReferenceDate(now)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", ref.Format(domain.DateLayout), ref.Weekday())
			return err
		},
	}
}

func newOutstandingCmd(opts *options) *cobra.Command {
	var (
		file  string
		csoID string
	)

	cmd := &cobra.Command{
		Use:   "outstanding",
		Short: "Classify a CSO's remittance history exported as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}

			var history []domain.Remittance
			if err := readJSON(file, &history); err != nil {
				return err
			}

			now, err := opts.now()
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), remittance.Detect(csoID, history, now))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Remittance history JSON file")
	cmd.Flags().StringVar(&csoID, "cso", "", "CSO identifier to label the result with")
	return cmd
}
