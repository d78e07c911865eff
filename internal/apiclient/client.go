// Package apiclient is the authenticated JSON client for the application
// API. UI tests use it for arrange/assert paths that are faster via HTTP
// than via the DOM; the API smoke tests use it directly.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/omniapp-io/omniapp-qa/internal/qaerr"
)

// Response is the raw outcome of one API call. Tests that assert on
// specific error codes work with this record directly.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// JSON gives query access to the decoded body.
func (r *Response) JSON() gjson.Result { return gjson.ParseBytes(r.Body) }

// Get digs a path out of the JSON body, e.g. resp.Get("user.email").
func (r *Response) Get(path string) gjson.Result { return gjson.GetBytes(r.Body, path) }

// Decode unmarshals the body into dest.
func (r *Response) Decode(dest any) error { return json.Unmarshal(r.Body, dest) }

// Session holds the authentication state owned by the client.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Authenticated reports whether a token is held at all.
func (s Session) Authenticated() bool { return s.AccessToken != "" }

// Expired reports whether the held token is past its expiry.
func (s Session) Expired() bool {
	return s.Authenticated() && !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// ExchangeHook observes each request/response pair, typically to attach
// the exchange to the report.
type ExchangeHook func(method, url string, status int, reqBody, respBody []byte)

// Client issues JSON calls against the API base URL.
type Client struct {
	base   string
	apiKey string
	http   *http.Client
	log    zerolog.Logger

	mu      sync.Mutex
	session Session

	onExchange ExchangeHook
}

// Option configures a Client.
type Option func(*Client)

// WithLogger routes client logging to the per-test sink.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithExchangeHook registers a report hook for every exchange.
func WithExchangeHook(hook ExchangeHook) Option {
	return func(c *Client) { c.onExchange = hook }
}

// WithHTTPClient substitutes the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds an unauthenticated client. The transport retries only on
// connection-level failures; HTTP error statuses are never retried here
// because negative-path tests assert on them. The sole status-driven
// retry is the single 401 refresh handled by Do.
func New(baseURL, apiKey string, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.Logger = nil
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return err != nil, nil
	}

	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		apiKey: apiKey,
		http:   rc.StandardClient(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a copy of the current authentication state.
func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// ClearSession drops all authentication state.
func (c *Client) ClearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = Session{}
}

// Do issues one call and returns the raw response record. A 401 on an
// authenticated non-auth call triggers exactly one silent refresh and one
// retry before the 401 is returned to the caller.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	// An already-expired token gets one proactive refresh attempt, then
	// the call proceeds; the server has the final word.
	if s := c.Session(); s.Expired() && s.RefreshToken != "" && !isAuthPath(path) {
		if err := c.RefreshSession(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.doOnce(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusUnauthorized && !isAuthPath(path) {
		s := c.Session()
		if s.RefreshToken == "" {
			return resp, nil
		}
		c.log.Debug().Str("path", path).Msg("401 received, attempting token refresh")
		if err := c.RefreshSession(ctx); err != nil {
			return resp, nil // surface the original 401
		}
		return c.doOnce(ctx, method, path, body)
	}
	return resp, nil
}

// Call is the expect-success mode: non-2xx responses become typed errors.
func (c *Client) Call(ctx context.Context, method, path string, body any) (*Response, error) {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		kind := qaerr.FromStatus(resp.Status)
		return resp, qaerr.New(kind, "%s %s returned %d: %s",
			method, path, resp.Status, snippet(resp.Body))
	}
	return resp, nil
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) doOnce(ctx context.Context, method, path string, body any) (*Response, error) {
	var reqBody []byte
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = raw
		reader = bytes.NewReader(raw)
	}

	url := c.base + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, qaerr.Wrap(qaerr.KindInfrastructure, err, "build request %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if s := c.Session(); s.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	}

	start := time.Now()
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, qaerr.Wrap(qaerr.KindInfrastructure, err, "%s %s", method, path)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, qaerr.Wrap(qaerr.KindInfrastructure, err, "read response of %s %s", method, path)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", httpResp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api call")
	if c.onExchange != nil {
		c.onExchange(method, url, httpResp.StatusCode, reqBody, respBody)
	}

	return &Response{
		Status:  httpResp.StatusCode,
		Headers: httpResp.Header,
		Body:    respBody,
	}, nil
}

// Login authenticates and stores the token bundle. The absolute expiry is
// taken from the JWT exp claim when the token parses as one, otherwise
// from the expires_in field the server returned.
func (c *Client) Login(ctx context.Context, email, password string) error {
	resp, err := c.doOnce(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return qaerr.New(qaerr.KindAuthentication, "login as %s returned %d: %s",
			email, resp.Status, snippet(resp.Body))
	}
	c.storeTokens(resp)
	c.log.Info().Str("email", email).Msg("api login succeeded")
	return nil
}

// RefreshSession exchanges the refresh token for a new token bundle.
func (c *Client) RefreshSession(ctx context.Context) error {
	s := c.Session()
	if s.RefreshToken == "" {
		return qaerr.New(qaerr.KindAuthentication, "no refresh token held")
	}
	resp, err := c.doOnce(ctx, http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": s.RefreshToken,
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		c.ClearSession()
		return qaerr.New(qaerr.KindAuthentication, "token refresh returned %d", resp.Status)
	}
	c.storeTokens(resp)
	return nil
}

// Logout invalidates the server session and clears local state. Local
// state is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.ClearSession()
	if !c.Session().Authenticated() {
		return nil
	}
	resp, err := c.doOnce(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return err
	}
	if !resp.OK() && resp.Status != http.StatusUnauthorized {
		return qaerr.New(qaerr.FromStatus(resp.Status), "logout returned %d", resp.Status)
	}
	return nil
}

func (c *Client) storeTokens(resp *Response) {
	access := resp.Get("access_token").String()
	refresh := resp.Get("refresh_token").String()

	expiresAt := time.Time{}
	if claims := parseJWTExpiry(access); !claims.IsZero() {
		expiresAt = claims
	} else if in := resp.Get("expires_in").Int(); in > 0 {
		expiresAt = time.Now().Add(time.Duration(in) * time.Second)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}
}

func parseJWTExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/auth/login") ||
		strings.HasPrefix(path, "/auth/refresh") ||
		strings.HasPrefix(path, "/auth/logout")
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "…"
	}
	return s
}
