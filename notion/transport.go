package notion

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eringen/folio/internal/logger"
)

// apiTransport sends requests to a configured base URL instead of the
// public endpoint, and turns non-JSON error bodies (proxies, gateways) into
// the API's error envelope so they surface as *APIError.
type apiTransport struct {
	base  *url.URL
	inner http.RoundTripper
}

func newAPITransport(baseURL string, inner http.RoundTripper) *apiTransport {
	t := &apiTransport{inner: inner}
	if baseURL != DefaultBaseURL {
		if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
			u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "/v1")
			t.base = u
		}
	}
	return t
}

func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.base != nil {
		req = req.Clone(req.Context())
		req.URL.Scheme = t.base.Scheme
		req.URL.Host = t.base.Host
		req.URL.Path = t.base.Path + req.URL.Path
		req.Host = ""
	}
	resp, err := t.inner.RoundTrip(req)
	if err != nil || resp.StatusCode < 400 {
		return resp, err
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
	var envelope APIError
	if json.Unmarshal(data, &envelope) != nil || (envelope.Message == "" && envelope.Code == "") {
		data, _ = json.Marshal(map[string]any{
			"object":  "error",
			"status":  resp.StatusCode,
			"code":    "",
			"message": strings.TrimSpace(string(data)),
		})
		resp.Header.Set("Content-Type", "application/json")
		resp.ContentLength = int64(len(data))
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp, nil
}

// loggingRoundTripper logs every outbound workspace call with its status and
// latency. The Authorization header is never logged.
type loggingRoundTripper struct {
	inner http.RoundTripper
	log   logger.Logger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.inner.RoundTrip(req)
	duration := time.Since(start)

	fields := logger.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"duration": duration.String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.WithFields(l.log, fields).Error("notion request failed")
		return nil, err
	}
	fields["status"] = resp.StatusCode
	if resp.StatusCode >= 400 {
		logger.WithFields(l.log, fields).Warn("notion request returned error status")
	} else {
		logger.WithFields(l.log, fields).Debug("notion request")
	}
	return resp, nil
}
