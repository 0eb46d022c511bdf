// Package marketdata fetches dated observations from JSON price providers
// and loads them into series the valuation core can read.
package marketdata

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio"
)

// diskCache caches HTTP responses on disk. The key includes the current
// date, so an entry expires at midnight and a provider is queried at most
// once a day.
type diskCache struct {
	base http.RoundTripper
	log  zerolog.Logger
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", quantfolio.Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	if cached, err := c.get(key, req); err == nil {
		return cached, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("method", resp.Request.Method).
		Str("host", resp.Request.URL.Host).
		Str("path", resp.Request.URL.Path).
		Str("status", resp.Status).
		Msg("fetched")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cache write ignored")
	}
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(os.TempDir(), key))
	if err != nil {
		return err
	}
	_, err = f.Write(content)
	f.Close()
	return err
}

// daily returns a client whose responses are cached until the end of the
// day.
func daily(log zerolog.Logger) *http.Client {
	return &http.Client{Transport: &diskCache{base: http.DefaultTransport, log: log}}
}

// getJSON performs an HTTP GET and unmarshals the JSON response into data.
func getJSON(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		resp.Body.Close()
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
