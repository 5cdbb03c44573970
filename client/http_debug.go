package client

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport dumps every request and response at debug level.
//
// Enable with ORIGINALS_DEBUG=true or DEBUG=true, or WithDebugLogging.
// Dumps include the wallet header, bearer tokens and bodies; keep it out of
// production.
//
//	export ORIGINALS_DEBUG=true
//	originals feed   # every backend call is logged
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := dt.base
	if base == nil {
		base = http.DefaultTransport
	}
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested reports whether ORIGINALS_DEBUG or DEBUG is "true".
func debugLoggingRequested() bool {
	return os.Getenv("ORIGINALS_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
