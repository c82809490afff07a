package iex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/komsit37/gainers/pkg/gainers/metrics"
	"github.com/komsit37/gainers/pkg/gainers/types"
)

func TestURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://example.test/stable/", Token: "pk_abc"}, nil, nil)
	cases := []struct {
		kind Kind
		sym  string
		want string
	}{
		{ListGainers, "", "https://example.test/stable/stock/market/list/gainers?token=pk_abc"},
		{Quote, "AAPL", "https://example.test/stable/stock/AAPL/quote?token=pk_abc"},
		{Logo, "BRK.B", "https://example.test/stable/stock/BRK.B/logo?token=pk_abc"},
		{Quote, "A/B", "https://example.test/stable/stock/A%2FB/quote?token=pk_abc"},
	}
	for _, c2 := range cases {
		got, err := c.URL(c2.kind, c2.sym)
		if err != nil {
			t.Errorf("URL(%s, %q) error: %v", c2.kind, c2.sym, err)
			continue
		}
		if got != c2.want {
			t.Errorf("URL(%s, %q) = %q; want %q", c2.kind, c2.sym, got, c2.want)
		}
	}
}

func TestURL_EmptySymbol(t *testing.T) {
	c := NewClient(Config{Token: "t"}, nil, nil)
	for _, k := range []Kind{Quote, Logo} {
		if _, err := c.URL(k, "  "); !errors.Is(err, ErrEmptySymbol) {
			t.Errorf("URL(%s, blank) err = %v; want ErrEmptySymbol", k, err)
		}
	}
	_, err := c.Get(context.Background(), Quote, "")
	if !errors.Is(err, types.ErrTransport) || !errors.Is(err, ErrEmptySymbol) {
		t.Errorf("Get with empty symbol err = %v; want transport+empty symbol", err)
	}
}

func TestGet_Success(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		w.Write([]byte(`{"companyName":"Alpha Co"}`))
	}))
	defer srv.Close()

	m := metrics.New()
	c := NewClient(Config{BaseURL: srv.URL, Token: "secret"}, nil, m)
	body, err := c.Get(context.Background(), Quote, "AAA")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != `{"companyName":"Alpha Co"}` {
		t.Errorf("body = %s", body)
	}
	if gotPath != "/stock/AAA/quote" || gotToken != "secret" {
		t.Errorf("path=%q token=%q", gotPath, gotToken)
	}
	if n := testutil.ToFloat64(m.Requests.WithLabelValues("quote", "ok")); n != 1 {
		t.Errorf("quote ok = %v; want 1", n)
	}
}

func TestGet_Failures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		status  int
	}{
		{
			name:    "non-200",
			handler: func(w http.ResponseWriter, r *http.Request) { http.Error(w, "nope", http.StatusForbidden) },
			status:  http.StatusForbidden,
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c := NewClient(Config{BaseURL: srv.URL, Token: "secret"}, nil, nil)
			_, err := c.Get(context.Background(), ListGainers, "")
			if !errors.Is(err, types.ErrTransport) {
				t.Fatalf("err = %v; want ErrTransport", err)
			}
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("err %T is not *FetchError", err)
			}
			if fe.Status != tc.status {
				t.Errorf("status = %d; want %d", fe.Status, tc.status)
			}
			if strings.Contains(err.Error(), "secret") {
				t.Errorf("error leaks token: %v", err)
			}
		})
	}
}

func TestGet_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: base, Token: "secret", Timeout: time.Second}, nil, nil)
	_, err := c.Get(context.Background(), Logo, "AAA")
	if !errors.Is(err, types.ErrTransport) {
		t.Fatalf("err = %v; want ErrTransport", err)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("error leaks token: %v", err)
	}
}

func TestGet_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClient(Config{BaseURL: srv.URL, Token: "t"}, nil, nil)
	_, err := c.Get(ctx, ListGainers, "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v; want context.Canceled", err)
	}
}

func TestFetchImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("token") {
			t.Errorf("image request carries token")
		}
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: "http://unused", Token: "t"}, nil, nil)
	data, err := c.FetchImage(context.Background(), srv.URL+"/logo.png")
	if err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	if len(data) != 4 {
		t.Errorf("len = %d; want 4", len(data))
	}

	if _, err := c.FetchImage(context.Background(), "not a url"); !errors.Is(err, types.ErrTransport) {
		t.Errorf("bad url err = %v; want ErrTransport", err)
	}
}

func TestRedact(t *testing.T) {
	got := redact("https://x.test/stock/A/quote?token=pk_live")
	if strings.Contains(got, "pk_live") || !strings.Contains(got, "token=REDACTED") {
		t.Errorf("redact = %q", got)
	}
}
