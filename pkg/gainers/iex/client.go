// Package iex talks to the IEX Cloud stock endpoints.
package iex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/komsit37/gainers/pkg/gainers/metrics"
	"github.com/komsit37/gainers/pkg/gainers/types"
)

const DefaultBaseURL = "https://cloud.iexapis.com/stable"

// maxBody bounds a single response; logos are small and JSON payloads smaller.
const maxBody = 8 << 20

// Kind selects one of the three API operations.
type Kind int

const (
	ListGainers Kind = iota
	Quote
	Logo
	// Image is the unauthenticated fetch of a logo URL.
	Image
)

func (k Kind) String() string {
	switch k {
	case ListGainers:
		return "list"
	case Quote:
		return "quote"
	case Logo:
		return "logo"
	case Image:
		return "image"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrEmptySymbol rejects quote and logo requests without a ticker.
var ErrEmptySymbol = errors.New("empty symbol")

// FetchError is the single failure class of the client. It matches types.ErrTransport.
type FetchError struct {
	Kind   Kind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s %s: status %d", e.Kind, e.URL, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Kind, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: failed", e.Kind, e.URL)
	}
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{types.ErrTransport}
	}
	return []error{types.ErrTransport, e.Err}
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client issues GETs against the configured host. It never retries.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewClient(cfg Config, log *zap.Logger, m *metrics.Metrics) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
		metrics: m,
	}
}

// URL builds the authenticated request URL for kind.
func (c *Client) URL(kind Kind, symbol string) (string, error) {
	var path string
	switch kind {
	case ListGainers:
		path = "/stock/market/list/gainers"
	case Quote, Logo:
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			return "", ErrEmptySymbol
		}
		path = "/stock/" + url.PathEscape(symbol) + "/" + kind.String()
	default:
		return "", fmt.Errorf("unsupported kind %s", kind)
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Get performs the API call for kind and returns the raw body.
func (c *Client) Get(ctx context.Context, kind Kind, symbol string) ([]byte, error) {
	u, err := c.URL(kind, symbol)
	if err != nil {
		c.metrics.ObserveRequest(kind.String(), "error", 0)
		return nil, &FetchError{Kind: kind, URL: c.baseURL, Err: err}
	}
	return c.do(ctx, kind, u)
}

// FetchImage downloads the bytes behind a logo URL without the token.
func (c *Client) FetchImage(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("invalid image url %q", rawURL)
		}
		c.metrics.ObserveRequest(Image.String(), "error", 0)
		return nil, &FetchError{Kind: Image, URL: rawURL, Err: err}
	}
	return c.do(ctx, Image, u.String())
}

func (c *Client) do(ctx context.Context, kind Kind, u string) ([]byte, error) {
	shown := redact(u)
	start := time.Now()
	body, err := c.fetch(ctx, kind, u, shown)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		c.log.Debug("request failed", zap.Stringer("kind", kind), zap.String("url", shown), zap.Error(err))
	} else {
		c.log.Debug("request done", zap.Stringer("kind", kind), zap.String("url", shown),
			zap.Int("bytes", len(body)), zap.Duration("took", time.Since(start)))
	}
	c.metrics.ObserveRequest(kind.String(), outcome, time.Since(start))
	return body, err
}

func (c *Client) fetch(ctx context.Context, kind Kind, u, shown string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Kind: kind, URL: shown, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: kind, URL: shown, Err: stripURL(err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &FetchError{Kind: kind, URL: shown, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &FetchError{Kind: kind, URL: shown, Err: err}
	}
	if len(data) == 0 {
		return nil, &FetchError{Kind: kind, URL: shown, Err: errors.New("empty body")}
	}
	return data, nil
}

// redact hides the token in URLs that reach logs and errors.
func redact(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	q := parsed.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
		parsed.RawQuery = q.Encode()
	}
	return parsed.String()
}

// stripURL drops the *url.Error wrapper, which repeats the unredacted URL.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
