package memoboard

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport logs full HTTP request/response dumps for a remote
// backend. Enable it with WithDebugLogging, Config.Debug, or by setting
// MEMOBOARD_DEBUG=true (or DEBUG=true) in the environment.
//
// Dumps include headers and bodies, which means session tokens and user
// content end up in the log stream. Keep it off outside development.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if debugLoggingRequested() {
		if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
		}
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		if debugLoggingRequested() {
			log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		}
		return nil, err
	}

	if debugLoggingRequested() {
		if respDump, err := httputil.DumpResponse(resp, true); err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
		}
	}
	return resp, nil
}

// debugLoggingRequested reports whether HTTP dump logging is switched on
// via the environment. MEMOBOARD_DEBUG targets this module; DEBUG is the
// broader development flag. Both compare against the literal "true".
func debugLoggingRequested() bool {
	return os.Getenv("MEMOBOARD_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
