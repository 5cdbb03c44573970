// Package gateway is the single chokepoint for HTTP calls to the
// collaboration backend. It attaches identity and bearer headers and turns
// every failure into a typed *errors.APIError. It never retries.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	cerr "github.com/originals/collab-client/client/internal/errors"
)

// Header names sent on every request.
const (
	HeaderIdentity  = "X-Zora-Wallet"
	HeaderRequestID = "X-Request-ID"
)

// TokenSource supplies bearer tokens. An empty token means "not signed in".
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) AccessToken(ctx context.Context) (string, error) { return f(ctx) }

// Call describes one backend request. Path is relative to the base URL.
type Call struct {
	Method   string
	Path     string
	Query    url.Values
	Body     any
	Identity string
	Headers  map[string]string
}

// ErrorBody is the structured error part of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the normalized response {success, data?, error?}. Raw holds the
// whole body for endpoints that put flags at the top level.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorBody      `json:"error,omitempty"`

	Status int    `json:"-"`
	Raw    []byte `json:"-"`
}

// Gateway performs requests against one backend base URL.
type Gateway struct {
	rc     *resty.Client
	tokens TokenSource
	log    zerolog.Logger
}

// New returns a Gateway. hc may be nil; tokens may be nil when no identity
// provider supplies bearer tokens.
func New(baseURL string, hc *http.Client, tokens TokenSource, logger *zerolog.Logger) *Gateway {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	lg := log.Logger
	if logger != nil {
		lg = *logger
	}
	rc := resty.NewWithClient(hc).
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")
	return &Gateway{rc: rc, tokens: tokens, log: lg.With().Str("component", "gateway").Logger()}
}

// Request performs the call and returns the decoded envelope for any 2xx
// response. Non-2xx responses and transport failures return *errors.APIError.
// A cancelled context returns the context error unchanged.
func (g *Gateway) Request(ctx context.Context, c Call) (*Envelope, error) {
	start := time.Now()
	req := g.rc.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, uuid.NewString())
	if c.Identity != "" {
		req.SetHeader(HeaderIdentity, c.Identity)
	}
	if tok := g.bearer(ctx); tok != "" {
		req.SetAuthToken(tok)
	}
	for k, v := range c.Headers {
		req.SetHeader(k, v)
	}
	if len(c.Query) > 0 {
		req.SetQueryParamsFromValues(c.Query)
	}
	if c.Body != nil {
		req.SetBody(c.Body)
	}

	resp, err := req.Execute(c.Method, c.Path)
	if err != nil {
		observe(c.Method, "error", start)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		g.log.Debug().Err(err).Str("method", c.Method).Str("path", c.Path).Msg("request failed before response")
		return nil, cerr.NewNetworkError(c.Method+" "+c.Path, err)
	}
	status := resp.StatusCode()
	observe(c.Method, strconv.Itoa(status), start)

	env := &Envelope{Status: status, Raw: resp.Body()}
	decodeErr := json.Unmarshal(env.Raw, env)

	if !resp.IsSuccess() {
		var code, msg string
		if decodeErr == nil && env.Error != nil {
			code, msg = env.Error.Code, env.Error.Message
		}
		g.log.Debug().Str("method", c.Method).Str("path", c.Path).Int("status", status).Str("code", code).Msg("backend returned failure")
		return nil, cerr.NewHTTPError(status, code, msg)
	}
	if decodeErr != nil {
		return nil, &cerr.APIError{Code: cerr.CodeUnknown, Message: "malformed response body", Status: status, Err: decodeErr}
	}
	return env, nil
}

func (g *Gateway) bearer(ctx context.Context) string {
	if g.tokens == nil {
		return ""
	}
	tok, err := g.tokens.AccessToken(ctx)
	if err != nil {
		g.log.Debug().Err(err).Msg("access token unavailable, omitting bearer header")
		return ""
	}
	return tok
}

// Decode unwraps the data of a success envelope into T. An envelope with
// success=false becomes an *errors.APIError carrying the body's code.
func Decode[T any](env *Envelope) (T, error) {
	var out T
	if env == nil {
		return out, &cerr.APIError{Code: cerr.CodeUnknown, Message: "empty response"}
	}
	if !env.Success {
		var code, msg string
		if env.Error != nil {
			code, msg = env.Error.Code, env.Error.Message
		}
		return out, cerr.NewHTTPError(env.Status, code, msg)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, &cerr.APIError{Code: cerr.CodeUnknown, Message: "malformed response data", Status: env.Status, Err: err}
	}
	return out, nil
}

// DecodeRaw unmarshals the whole response body into T.
func DecodeRaw[T any](env *Envelope) (T, error) {
	var out T
	if env == nil || len(env.Raw) == 0 {
		return out, &cerr.APIError{Code: cerr.CodeUnknown, Message: "empty response"}
	}
	if err := json.Unmarshal(env.Raw, &out); err != nil {
		return out, &cerr.APIError{Code: cerr.CodeUnknown, Message: "malformed response body", Status: env.Status, Err: err}
	}
	return out, nil
}
