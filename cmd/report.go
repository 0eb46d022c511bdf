package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/renderer"
)

type reportCmd struct {
	metricFlags metricCmd // reuse curve and model flags
	day         string
	metrics     string
	raw         bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "render the full valuation and risk report" }
func (*reportCmd) Usage() string {
	return `report [-d <date>] [-m <name,...>] [-raw] [-curve <file>] [-short-rate r -mean-reversion a -sigma s]

  Renders the valuation breakdown and the requested risk metrics as
  markdown, styled for the terminal unless -raw is given.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "valuation date (YYYY-MM-DD), default today")
	f.StringVar(&c.metrics, "m", "", "comma-separated metric names, default all")
	f.BoolVar(&c.raw, "raw", false, "print raw markdown instead of styled output")
	f.StringVar(&c.metricFlags.curveFile, "curve", "", "benchmark zero curve file (JSON with terms and rates lists)")
	f.Float64Var(&c.metricFlags.shortRate, "short-rate", 0, "calibrated short rate for OAS")
	f.Float64Var(&c.metricFlags.meanRev, "mean-reversion", 0, "calibrated mean-reversion speed for OAS")
	f.Float64Var(&c.metricFlags.sigma, "sigma", 0, "calibrated short-rate volatility for OAS")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDay(c.day)
	if err != nil {
		return fail(err)
	}
	var metrics []quantfolio.Metric
	if c.metrics != "" {
		for _, name := range strings.Split(c.metrics, ",") {
			m, err := quantfolio.ParseMetric(strings.TrimSpace(name))
			if err != nil {
				return fail(err)
			}
			metrics = append(metrics, m)
		}
	}
	ctx, err := c.metricFlags.buildContext(on)
	if err != nil {
		return fail(err)
	}

	p, err := loadPortfolio()
	if err != nil {
		return fail(err)
	}
	valuation, err := p.NewValuationReport(on)
	if err != nil {
		return fail(err)
	}
	risk, err := p.NewRiskReport(on, ctx, metrics...)
	if err != nil {
		return fail(err)
	}

	markdown := renderer.RenderValuation(valuation) + "\n" + renderer.RenderRisk(risk)
	if c.raw {
		fmt.Println(markdown)
		return subcommands.ExitSuccess
	}

	tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fail(err)
	}
	styled, err := tr.Render(markdown)
	if err != nil {
		return fail(err)
	}
	fmt.Print(styled)
	return subcommands.ExitSuccess
}
