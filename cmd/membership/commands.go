package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/membership-engine/membership"
)

// newRootCmd builds the command tree. now is the default reference time for
// status commands; --as-of overrides it.
func newRootCmd(now func() time.Time) *cobra.Command {
	root := &cobra.Command{
		Use:   "membership",
		Short: "Compute gym membership expirations and statuses",
		Long: `Offline access to the membership lifecycle rules used by the server.

Examples:
  membership expire --start 2025-01-31 --period Mensual
  membership status --created 2025-11-01 --period "15 días" --as-of 2025-11-14
  membership periods`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newExpireCmd(),
		newStatusCmd(now),
		newPeriodsCmd(),
	)
	return root
}

type lifecycleFlags struct {
	start   string
	created string
	period  string
}

func (f *lifecycleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "membership start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.created, "created", "", "account creation date, used when --start is empty")
	cmd.Flags().StringVar(&f.period, "period", "", "plan period label (defaults to monthly)")
}

func (f *lifecycleFlags) resolve() membership.Expiration {
	return membership.Resolve(f.start, f.created, f.period)
}

func newExpireCmd() *cobra.Command {
	var flags lifecycleFlags
	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Print the expiration date for an anchor and period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp := flags.resolve()
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "period:      %s (%s)\n", exp.Period, exp.Period.Label())
			fmt.Fprintf(w, "anchor:      %s\n", describeAnchor(exp.Anchor))
			if !exp.OK() {
				fmt.Fprintf(w, "expires:     %s\n", exp.Kind)
			} else {
				fmt.Fprintf(w, "expires:     %s\n", exp.Date.Format("2006-01-02"))
			}
			fmt.Fprintf(w, "display:     %s\n", membership.FormatDisplayDate(exp.Date, exp.OK()))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newStatusCmd(now func() time.Time) *cobra.Command {
	var (
		flags lifecycleFlags
		asOf  string
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Classify a membership as active, expiring soon or expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := now()
			if asOf != "" {
				t, ok, err := membership.ParseDate(asOf)
				if err != nil || !ok {
					return fmt.Errorf("invalid --as-of %q: use YYYY-MM-DD", asOf)
				}
				ref = t
			}

			exp := flags.resolve()
			ev := membership.NewEvaluator(ref)
			status := ev.Status(exp)
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "as of:       %s\n", ev.Today().Format("2006-01-02"))
			fmt.Fprintf(w, "expires:     %s\n", membership.FormatDisplayDate(exp.Date, exp.OK()))
			fmt.Fprintf(w, "status:      %s (%s)\n", status, status.Label())
			if days, ok := ev.DaysRemaining(exp); ok {
				fmt.Fprintf(w, "countdown:   %s\n", membership.FormatDaysRemaining(days))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date (default today)")
	return cmd
}

func newPeriodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "List billing periods and catalog plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writePlans(cmd.OutOrStdout(), membership.DefaultCatalog())
		},
	}
}

func writePlans(out io.Writer, catalog *membership.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tLABEL\tPLAN\tPRICE")
	for _, p := range membership.Periods() {
		plans := catalog.ForPeriod(p)
		if len(plans) == 0 {
			fmt.Fprintf(w, "%s\t%s\t-\t-\n", p, p.Label())
			continue
		}
		for _, plan := range plans {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\n", p, p.Label(), plan.ID, plan.Price.StringFixed(2), plan.Currency)
		}
	}
	return w.Flush()
}

func describeAnchor(a membership.Anchor) string {
	if !a.OK() {
		return strings.ReplaceAll(string(a.Kind), "_", " ")
	}
	return fmt.Sprintf("%s (%s)", a.Date.Format("2006-01-02"), strings.ReplaceAll(string(a.Kind), "_", " "))
}
