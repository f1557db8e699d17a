package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/segyhp/loan-ops/internal/domain"

	"github.com/spf13/cobra"
)

type options struct {
	timezone string
	today    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "loanctl",
		Short:        "Loan operations toolbox",
		Long:         "Compute loan metrics, remittance reference days and business-day counts offline.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.timezone, "tz", "Africa/Lagos", "Business timezone")
	root.PersistentFlags().StringVar(&opts.today, "today", "", "Override today's date (YYYY-MM-DD)")

	root.AddCommand(
		newMetricsCmd(opts),
		newReferenceDateCmd(opts),
		newOutstandingCmd(opts),
		newBusinessDaysCmd(opts),
	)

	return root
}

func (o *options) location() (*time.Location, error) {
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", o.timezone, err)
	}
	return loc, nil
}

// now returns --today at midday, or the wall clock, in the business timezone
func (o *options) now() (time.Time, error) {
	loc, err := o.location()
	if err != nil {
		return time.Time{}, err
	}
	if o.today == "" {
		return time.Now().In(loc), nil
	}
	d, err := parseDate(o.today, loc)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(12 * time.Hour), nil
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(domain.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

func readJSON(path string, dest interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
