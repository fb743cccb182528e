package brokerage

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// diskCache implements a simple disk cache for HTTP responses. The cache key
// includes the current day, so entries expire daily.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", time.Now().UTC().Format("2006-01-02"), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cached, err := c.get(key, req)
	if err == nil { // Cache hit
		return cached, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
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
	return os.WriteFile(filepath.Join(os.TempDir(), key), content, 0644)
}

// intraday returns a client whose responses are cached on disk until the end
// of the day.
func intraday() *http.Client {
	return &http.Client{Transport: &diskCache{http.DefaultTransport}}
}

// jwget performs an HTTP GET and unmarshals the JSON response into data.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// HTTPQuotes resolves spot prices from a JSON quote endpoint. The endpoint
// is expected to answer GET <base>?symbols=<SYM> with a document the
// configured jsonpath expression can reduce to one number.
//
// The default configuration targets a Yahoo-style quote API, the same feed
// the trading loop's symbol universe is quoted from.
type HTTPQuotes struct {
	// Base is the quote endpoint, without the query string.
	Base string
	// Path is the jsonpath expression extracting the price from a
	// single-symbol response.
	Path string
	// Client defaults to an intraday disk-cached client.
	Client *http.Client
}

// NewHTTPQuotes creates a quote source over the Yahoo finance quote API.
func NewHTTPQuotes() *HTTPQuotes {
	return &HTTPQuotes{
		Base:   "https://query1.finance.yahoo.com/v7/finance/quote",
		Path:   "$.quoteResponse.result[0].regularMarketPrice",
		Client: intraday(),
	}
}

func (q *HTTPQuotes) client() *http.Client {
	if q.Client != nil {
		return q.Client
	}
	return http.DefaultClient
}

// Price resolves the current price of one symbol. It fails with ErrNoPrice
// when the endpoint has no quote for the symbol.
func (q *HTTPQuotes) Price(ctx context.Context, symbol string) (Money, error) {
	addr := q.Base + "?symbols=" + url.QueryEscape(symbol)
	var jobj any
	if err := jwget(ctx, q.client(), addr, &jobj); err != nil {
		return Money{}, fmt.Errorf("%w for %q: %v", ErrNoPrice, symbol, err)
	}
	jval, err := jsonpath.Get(q.Path, jobj)
	if err != nil {
		return Money{}, fmt.Errorf("%w for %q: %q %v", ErrNoPrice, symbol, q.Path, err)
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer; keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok || val <= 0 {
		return Money{}, fmt.Errorf("%w for %q: not a positive number: %v", ErrNoPrice, symbol, jval)
	}
	return USD(val), nil
}

// Prices resolves prices for several symbols, best-effort: symbols that
// cannot be quoted are left out of the result.
func (q *HTTPQuotes) Prices(ctx context.Context, symbols []string) map[string]Money {
	lookup := make(map[string]Money, len(symbols))
	for _, sym := range symbols {
		price, err := q.Price(ctx, sym)
		if err != nil {
			log.Printf("quotes: skipping %s: %v", sym, err)
			continue
		}
		lookup[sym] = price
	}
	return lookup
}
