package probes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/net/http2"

	"github.com/jonwraymond/statuskit/status"
)

// ErrEmptyURL is returned when an HTTP probe has no URL.
var ErrEmptyURL = errors.New("probes: empty url")

// maxBodyBytes caps how much of a response body is read for assertions.
const maxBodyBytes = 1 << 20

// HTTPConfig configures an HTTP endpoint probe.
type HTTPConfig struct {
	// URL is the endpoint to request.
	URL string

	// Method is the request method.
	// Default: GET
	Method string

	// Headers are added to the request.
	Headers map[string]string

	// ExpectStatus is the required status code.
	// Default: 0 (any 2xx)
	ExpectStatus int

	// BodyContains, when set, must appear in the response body.
	BodyContains string

	// JSONPath, when set, is a gjson path that must exist in the response
	// body. Queries such as `items.#(name=="db").up` are allowed.
	JSONPath string

	// ExpectValue, when set, must equal the string form of the JSONPath
	// result.
	ExpectValue string

	// Timeout bounds the request.
	// Default: 10 seconds
	Timeout time.Duration

	// Client sends the request.
	// Default: an HTTP/2 capable client with Timeout
	Client *http.Client
}

// newClient returns a client whose transport negotiates HTTP/2 over TLS.
func newClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: time.Second,
	}
	// Fails only when h2 is already registered on the transport.
	_ = http2.ConfigureTransport(transport)
	return &http.Client{Timeout: timeout, Transport: transport}
}

// HTTP returns an action that requests the configured URL. Transport errors
// are action errors. Unexpected responses are declared failures carrying
// the reason.
func HTTP(config HTTPConfig) status.Action {
	if config.Method == "" {
		config.Method = http.MethodGet
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Client == nil {
		config.Client = newClient(config.Timeout)
	}

	return func(ctx context.Context) (status.Outcome, error) {
		if config.URL == "" {
			return status.Outcome{}, ErrEmptyURL
		}

		req, err := http.NewRequestWithContext(ctx, config.Method, config.URL, nil)
		if err != nil {
			return status.Outcome{}, fmt.Errorf("build request: %w", err)
		}
		for k, v := range config.Headers {
			req.Header.Set(k, v)
		}

		start := time.Now()
		resp, err := config.Client.Do(req)
		if err != nil {
			return status.Outcome{}, fmt.Errorf("%s %s: %w", config.Method, config.URL, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return status.Outcome{}, fmt.Errorf("read body: %w", err)
		}

		data := map[string]any{
			"url":         config.URL,
			"status_code": resp.StatusCode,
			"latency_ms":  float64(time.Since(start).Microseconds()) / 1000,
		}
		if reason := check(config, resp.StatusCode, body); reason != "" {
			data["reason"] = reason
			return status.Failed(data), nil
		}
		return status.Succeeded(data), nil
	}
}

// check returns why the response fails the probe, or "".
func check(config HTTPConfig, code int, body []byte) string {
	switch {
	case config.ExpectStatus != 0 && code != config.ExpectStatus:
		return fmt.Sprintf("status %d, want %d", code, config.ExpectStatus)
	case config.ExpectStatus == 0 && (code < 200 || code > 299):
		return fmt.Sprintf("status %d, want 2xx", code)
	}

	if config.BodyContains != "" && !strings.Contains(string(body), config.BodyContains) {
		return fmt.Sprintf("body does not contain %q", config.BodyContains)
	}

	if config.JSONPath != "" {
		if !gjson.ValidBytes(body) {
			return "body is not valid JSON"
		}
		got := gjson.GetBytes(body, config.JSONPath)
		if !got.Exists() {
			return fmt.Sprintf("json path %q not found", config.JSONPath)
		}
		if config.ExpectValue != "" && got.String() != config.ExpectValue {
			return fmt.Sprintf("json path %q = %q, want %q", config.JSONPath, got.String(), config.ExpectValue)
		}
	}
	return ""
}
