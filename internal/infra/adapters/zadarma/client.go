// File: internal/infra/adapters/zadarma/client.go
package zadarma

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"telegram-door-intercom/internal/domain/ports/adapter"
	"telegram-door-intercom/internal/infra/metrics"
)

const (
	ProductionURL = "https://api.zadarma.com"
	SandboxURL    = "https://api-sandbox.zadarma.com"

	// CallbackMethod rings `from` first and bridges the answered call to `to`.
	CallbackMethod = "/v1/request/callback/"
	DefaultFormat  = "json"
)

// Verb is the HTTP method of an API call.
type Verb string

const (
	VerbGet    Verb = http.MethodGet
	VerbPost   Verb = http.MethodPost
	VerbPut    Verb = http.MethodPut
	VerbDelete Verb = http.MethodDelete
)

// normalizeVerb upper-cases v and falls back to GET for anything the API
// does not accept.
func normalizeVerb(v Verb) Verb {
	switch up := Verb(strings.ToUpper(string(v))); up {
	case VerbGet, VerbPost, VerbPut, VerbDelete:
		return up
	default:
		return VerbGet
	}
}

var _ adapter.CallbackDialer = (*Client)(nil)

// Client signs and dispatches Zadarma REST calls. It holds no mutable
// state after construction and is safe for concurrent use.
type Client struct {
	key     string
	secret  string
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds requests made by the default client; zero leaves them
// unbounded. It has no effect together with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithBaseURL overrides the production/sandbox endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithLogger(l *zerolog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient builds a client for the production API, or the sandbox when
// sandbox is set. Credentials are not validated.
func NewClient(key, secret string, sandbox bool, opts ...Option) *Client {
	base := ProductionURL
	if sandbox {
		base = SandboxURL
	}
	nop := zerolog.Nop()
	c := &Client{
		key:     key,
		secret:  secret,
		baseURL: base,
		timeout: 15 * time.Second,
		log:     &nop,
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = &http.Client{
			Timeout:   c.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return c
}

// BaseURL reports the endpoint requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Call issues one request. params is read but never modified; format is
// added to a copy under "format". GET carries the canonical string in the
// query, other verbs send it as a form body. The response is returned as
// is, whatever its status.
func (c *Client) Call(ctx context.Context, method string, params Params, verb Verb, format string, requireAuth bool) (*adapter.CallResponse, error) {
	verb = normalizeVerb(verb)
	canon := Encode(params.with("format", String(format)))

	target := c.baseURL + method
	var body io.Reader
	if verb == VerbGet {
		target += "?" + canon
	} else {
		body = strings.NewReader(canon)
	}

	req, err := http.NewRequestWithContext(ctx, string(verb), target, body)
	if err != nil {
		return nil, fmt.Errorf("zadarma: build %s %s: %w", verb, method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if requireAuth {
		req.Header.Set("Authorization", Sign(c.key, c.secret, method, canon))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveZadarmaRequest(method, string(verb), "error", time.Since(start))
		c.log.Warn().Err(err).Str("method", method).Str("verb", string(verb)).Msg("zadarma request failed")
		return nil, fmt.Errorf("zadarma %s %s: %w", verb, method, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveZadarmaRequest(method, string(verb), "error", time.Since(start))
		return nil, fmt.Errorf("zadarma %s %s: read body: %w", verb, method, err)
	}
	metrics.ObserveZadarmaRequest(method, string(verb), strconv.Itoa(resp.StatusCode), time.Since(start))
	c.log.Debug().
		Str("method", method).
		Str("verb", string(verb)).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("zadarma response")

	return &adapter.CallResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: b}, nil
}

// RequestCallback implements adapter.CallbackDialer.
func (c *Client) RequestCallback(ctx context.Context, from, to string) (*adapter.CallResponse, error) {
	params := Params{
		"from": String(from),
		"to":   String(to),
	}
	return c.Call(ctx, CallbackMethod, params, VerbGet, DefaultFormat, true)
}
