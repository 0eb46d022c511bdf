package marketdata

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/bond"
)

// Feed reads end-of-day observations from an EODHD-style JSON provider.
type Feed struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithBaseURL points the feed at another endpoint, mostly for tests.
func WithBaseURL(u string) FeedOption {
	return func(f *Feed) { f.baseURL = strings.TrimRight(u, "/") }
}

// WithLogger sets the feed's logger.
func WithLogger(log zerolog.Logger) FeedOption {
	return func(f *Feed) { f.log = log }
}

// WithClient replaces the default daily-cached HTTP client.
func WithClient(c *http.Client) FeedOption {
	return func(f *Feed) { f.client = c }
}

// NewFeed creates a feed authenticating with the given API key.
func NewFeed(apiKey string, opts ...FeedOption) *Feed {
	f := &Feed{
		apiKey:  apiKey,
		baseURL: "https://eodhd.com/api",
		log:     zerolog.New(io.Discard),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = daily(f.log)
	}
	return f
}

// Daily returns the adjusted daily closes for a ticker over [from, to],
// bounds included.
func (f *Feed) Daily(ticker string, from, to quantfolio.Date) (*quantfolio.TimeSeries, error) {
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s",
		f.baseURL, ticker, f.apiKey, from, to)
	type observation struct {
		Date  quantfolio.Date `json:"date"`
		Close float64         `json:"adjusted_close"`
	}
	var content []observation
	if err := getJSON(f.client, addr, &content); err != nil {
		return nil, fmt.Errorf("cannot fetch daily prices for %q: %w", ticker, err)
	}
	ts := quantfolio.NewTimeSeries()
	for _, obs := range content {
		ts.Set(obs.Date, obs.Close)
	}
	return ts, nil
}

// FX returns the daily exchange rate history for a currency pair.
//
// The provider's forex close is unreliable (it mostly repeats the open), so
// the next day's open is used as the close, shifted back one day.
func (f *Feed) FX(fromCurrency, toCurrency string, from, to quantfolio.Date) (*quantfolio.TimeSeries, error) {
	ticker := fmt.Sprintf("%s%s.FOREX", fromCurrency, toCurrency)
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s",
		f.baseURL, ticker, f.apiKey, from, to.Add(1))
	type observation struct {
		Date quantfolio.Date `json:"date"`
		Open float64         `json:"open"`
	}
	var content []observation
	if err := getJSON(f.client, addr, &content); err != nil {
		return nil, fmt.Errorf("cannot fetch fx rates for %s/%s: %w", fromCurrency, toCurrency, err)
	}
	ts := quantfolio.NewTimeSeries()
	for _, obs := range content {
		ts.Set(obs.Date.Add(-1), obs.Open)
	}
	return ts, nil
}

// Quote fetches a single numeric value out of an arbitrary JSON payload
// using a jsonpath expression. It tolerates the usual provider quirks:
// a list where a scalar is expected, and numbers quoted as strings with a
// comma decimal separator.
func (f *Feed) Quote(addr, path string) (float64, error) {
	var jobj any
	if err := getJSON(f.client, addr, &jobj); err != nil {
		return math.NaN(), fmt.Errorf("cannot fetch %q: %w", addr, err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("cannot evaluate %q on %q: %w", path, addr, err)
	}
	// jsonpath may return a one-element list for a filtered scalar.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return asFloat(jval)
}

// Observations extracts dated values from a JSON payload: datePath and
// valuePath must each select a list, pairs are matched by index.
func Observations(jobj any, datePath, valuePath string) (*quantfolio.TimeSeries, error) {
	dates, err := list(jobj, datePath)
	if err != nil {
		return nil, err
	}
	values, err := list(jobj, valuePath)
	if err != nil {
		return nil, err
	}
	if len(dates) != len(values) {
		return nil, fmt.Errorf("mismatched observation lists: %d dates, %d values", len(dates), len(values))
	}
	ts := quantfolio.NewTimeSeries()
	for i, jd := range dates {
		sd, ok := jd.(string)
		if !ok {
			return nil, fmt.Errorf("date at index %d is not a string: %v", i, jd)
		}
		d, err := quantfolio.ParseDate(sd)
		if err != nil {
			return nil, fmt.Errorf("date at index %d: %w", i, err)
		}
		v, err := asFloat(values[i])
		if err != nil {
			return nil, fmt.Errorf("value at index %d: %w", i, err)
		}
		ts.Set(d, v)
	}
	return ts, nil
}

// CurvePoints extracts a zero curve from a JSON payload: termPath selects
// the list of terms in years, ratePath the matching rates.
func CurvePoints(jobj any, termPath, ratePath string) (*bond.Curve, error) {
	terms, err := list(jobj, termPath)
	if err != nil {
		return nil, err
	}
	rates, err := list(jobj, ratePath)
	if err != nil {
		return nil, err
	}
	if len(terms) != len(rates) {
		return nil, fmt.Errorf("mismatched curve lists: %d terms, %d rates", len(terms), len(rates))
	}
	points := make(map[float64]float64, len(terms))
	for i := range terms {
		term, err := asFloat(terms[i])
		if err != nil {
			return nil, fmt.Errorf("term at index %d: %w", i, err)
		}
		rate, err := asFloat(rates[i])
		if err != nil {
			return nil, fmt.Errorf("rate at index %d: %w", i, err)
		}
		points[term] = rate
	}
	return bond.NewCurve(points), nil
}

func list(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%q does not select a list: %v", path, jval)
	}
	return jlist, nil
}

func asFloat(jval any) (float64, error) {
	if v, ok := jval.(float64); ok {
		return v, nil
	}
	// some providers quote numbers as strings, with a comma decimal
	sval, ok := jval.(string)
	if !ok {
		return math.NaN(), fmt.Errorf("neither a float nor a string: %v", jval)
	}
	sval = strings.ReplaceAll(sval, ",", ".")
	sval = strings.ReplaceAll(sval, " ", "")
	v, err := strconv.ParseFloat(sval, 64)
	if err != nil {
		return math.NaN(), fmt.Errorf("invalid number %q: %w", sval, err)
	}
	return v, nil
}
