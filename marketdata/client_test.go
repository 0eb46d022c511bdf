package marketdata

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type trackedBody struct {
	*strings.Reader
	closed bool
}

func (b *trackedBody) Close() error { b.closed = true; return nil }

type staticTransport struct {
	resp *http.Response
}

func (t staticTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.resp.Request = r
	return t.resp, nil
}

func TestGetJSON_ClosesBodyOnHTTPError(t *testing.T) {
	body := &trackedBody{Reader: strings.NewReader("no such ticker")}
	client := &http.Client{Transport: staticTransport{resp: &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Body:       body,
	}}}

	var data any
	err := getJSON(client, "http://feed.invalid/eod/NOPE", &data)
	assert.Error(t, err)
	assert.True(t, body.closed, "response body left open on status error")
}

func TestGetJSON_ClosesBodyOnSuccess(t *testing.T) {
	body := &trackedBody{Reader: strings.NewReader(`{"close": 101.5}`)}
	client := &http.Client{Transport: staticTransport{resp: &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       body,
	}}}

	var data map[string]float64
	err := getJSON(client, "http://feed.invalid/eod/OK", &data)
	assert.NoError(t, err)
	assert.Equal(t, 101.5, data["close"])
	assert.True(t, body.closed)
}
