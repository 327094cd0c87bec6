// Package pubchem retrieves 2D SDF records from the PubChem PUG REST service.
package pubchem

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/logger"
	"github.com/H1W0XXX/chiralcarbon/mdlmol"
)

const (
	DefaultBaseURL = "https://pubchem.ncbi.nlm.nih.gov"
	DefaultTimeout = 10 * time.Second

	recordPath   = "/rest/pug/compound/CID/%d/record/SDF/?record_type=2d&response_type=display"
	maxBodyBytes = 4 << 20
	userAgent    = "chiralcarbon/1.0"
)

// Client fetches compound records. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retries int
	nextCID func() int
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRate limits outgoing requests to rps per second.
func WithRate(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithRetries sets how many random CIDs Random tries.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithCIDGenerator replaces the random CID source used by Random.
func WithCIDGenerator(next func() int) Option {
	return func(c *Client) { c.nextCID = next }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		retries: 5,
		nextCID: RandomCID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RandomCID draws a compound id, skewed toward the populated low range.
func RandomCID() int {
	return int(rand.Float64()*100_000_000 + rand.Float64()*10_000_000 + rand.Float64()*100_000 + 100_000)
}

// FetchCID downloads and parses the 2D record of one compound.
func (c *Client) FetchCID(ctx context.Context, cid int) (*mdlmol.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit")
	}

	url := c.baseURL + fmt.Sprintf(recordPath, cid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for cid %d", cid)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "chemical/x-mdl-sdfile, text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch cid %d", cid)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.WrapNotFound(errors.Newf("cid %d", cid), "fetch molecule")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("fetch cid %d: bad response code %d", cid, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "read cid %d", cid)
	}
	rec, err := mdlmol.ParseRecord(string(body))
	if err != nil {
		return nil, errors.Wrapf(err, "parse cid %d", cid)
	}
	if rec.Title == "" {
		rec.Title = fmt.Sprint(cid)
	}
	return rec, nil
}

// Random fetches a random compound, drawing a new CID after each failure.
func (c *Client) Random(ctx context.Context) (*mdlmol.Record, error) {
	log := logger.Named("pubchem")
	attempts := max(c.retries, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		cid := c.nextCID()
		rec, err := c.FetchCID(ctx, cid)
		if err == nil {
			return rec, nil
		}
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "random molecule")
		}
		log.Debugw("fetch failed", logger.FieldCID, cid, logger.FieldAttempt, attempt, logger.FieldError, err)
		lastErr = err
	}
	return nil, errors.Wrapf(lastErr, "no molecule after %d attempts", attempts)
}

// Next implements the captcha molecule source interface.
func (c *Client) Next(ctx context.Context) (*mdlmol.Record, error) {
	return c.Random(ctx)
}
