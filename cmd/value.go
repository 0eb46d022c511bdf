package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type valueCmd struct {
	day string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "display the portfolio value at a date" }
func (*valueCmd) Usage() string {
	return `value [-d <date>]

  Values every position at the date, carrying the latest recorded snapshot
  forward, and prints the per-instrument breakdown.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "valuation date (YYYY-MM-DD), default today")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDay(c.day)
	if err != nil {
		return fail(err)
	}

	p, err := loadPortfolio()
	if err != nil {
		return fail(err)
	}
	report, err := p.NewValuationReport(on)
	if err != nil {
		return fail(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Security\tQuantity\tValue\tWeight\n")
	for _, line := range report.Lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f%%\n", line.Security, line.Quantity, line.Value, 100*line.Weight)
	}
	fmt.Fprintf(w, "Total\t\t%s\t\n", report.Total)
	w.Flush()
	return subcommands.ExitSuccess
}
