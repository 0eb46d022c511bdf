package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/marketdata"
)

const apiKeyEnv = "EODHD_API_KEY"

type fetchCmd struct {
	ticker string
	from   string
	to     string
	apiKey string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch daily prices for a ticker" }
func (*fetchCmd) Usage() string {
	return `fetch -t <ticker> [-from <date>] [-to <date>]

  Fetches end-of-day prices from the provider and prints them, one dated
  observation per line, ready to merge into the securities file.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "provider ticker (e.g. MCD.US)")
	f.StringVar(&c.from, "from", "", "first date (YYYY-MM-DD), default 30 days ago")
	f.StringVar(&c.to, "to", "", "last date (YYYY-MM-DD), default today")
	f.StringVar(&c.apiKey, "api-key", os.Getenv(apiKeyEnv), "provider API key, default $"+apiKeyEnv)
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		fmt.Fprintln(os.Stderr, "-t is required")
		return subcommands.ExitUsageError
	}
	if c.apiKey == "" {
		fmt.Fprintln(os.Stderr, "no API key: set -api-key or $"+apiKeyEnv)
		return subcommands.ExitUsageError
	}
	to, err := parseDay(c.to)
	if err != nil {
		return fail(err)
	}
	from := to.Add(-30)
	if c.from != "" {
		if from, err = quantfolio.ParseDate(c.from); err != nil {
			return fail(err)
		}
	}

	feed := marketdata.NewFeed(c.apiKey, marketdata.WithLogger(logger()))
	prices, err := feed.Daily(c.ticker, from, to)
	if err != nil {
		return fail(err)
	}
	for d, v := range prices.Values() {
		fmt.Printf("%s\t%.4f\n", d, v)
	}
	return subcommands.ExitSuccess
}
