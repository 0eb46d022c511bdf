// Package cmd implements the CLI application to value a portfolio and
// compute its risk metrics.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/instrument"
)

// Register registers every subcommand on the commander.
func Register(c *subcommands.Commander) {
	c.Register(&valueCmd{}, "reports")
	c.Register(&metricCmd{}, "reports")
	c.Register(&reportCmd{}, "reports")

	c.Register(&fetchCmd{}, "market data")
}

// As a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables. Defaults come from the environment; a .env file must
// be loaded before the flag declarations read it.
var _ = godotenv.Load()

var (
	journalFile    = flag.String("journal-file", envOr("QUANTFOLIO_JOURNAL", "journal.jsonl"), "Path to the journal file (JSONL format)")
	securitiesFile = flag.String("securities-file", envOr("QUANTFOLIO_SECURITIES", "securities.json"), "Path to the securities definition file (JSON)")
	currency       = flag.String("currency", envOr("QUANTFOLIO_CURRENCY", "USD"), "Reporting currency of the portfolio")
	verbose        = flag.Bool("v", false, "Enable diagnostic logging")
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// loadPortfolio reads the securities file and replays the journal into a
// fresh portfolio.
func loadPortfolio() (*quantfolio.Portfolio, error) {
	sf, err := os.Open(*securitiesFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open securities file %q: %w", *securitiesFile, err)
	}
	defer sf.Close()
	series, err := instrument.DecodeSeries(sf)
	if err != nil {
		return nil, err
	}
	securities, err := instrument.NewAll(series...)
	if err != nil {
		return nil, err
	}

	jf, err := os.Open(*journalFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open journal file %q: %w", *journalFile, err)
	}
	defer jf.Close()
	journal, err := quantfolio.DecodeJournal(jf)
	if err != nil {
		return nil, err
	}

	p := quantfolio.NewPortfolio(*currency, securities, quantfolio.WithLogger(logger()))
	if err := journal.Replay(p); err != nil {
		return nil, err
	}
	return p, nil
}

// parseDay reads a -d flag value, defaulting to today.
func parseDay(s string) (quantfolio.Date, error) {
	if s == "" {
		return quantfolio.Today(), nil
	}
	return quantfolio.ParseDate(s)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
