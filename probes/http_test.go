package probes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonwraymond/statuskit/status"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthy":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok","db":{"connected":true},"deps":[{"name":"db","up":true},{"name":"queue","up":false}]}`))
		case "/text":
			_, _ = w.Write([]byte("all systems go"))
		case "/auth":
			if r.Header.Get("Authorization") != "Bearer t" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTP(t *testing.T) {
	srv := newUpstream(t)

	tests := []struct {
		name        string
		config      HTTPConfig
		wantSuccess bool
	}{
		{"2xx", HTTPConfig{URL: srv.URL + "/healthy"}, true},
		{"5xx", HTTPConfig{URL: srv.URL + "/broken"}, false},
		{"expected status", HTTPConfig{URL: srv.URL + "/broken", ExpectStatus: 500}, true},
		{"body contains", HTTPConfig{URL: srv.URL + "/text", BodyContains: "systems go"}, true},
		{"body missing", HTTPConfig{URL: srv.URL + "/text", BodyContains: "degraded"}, false},
		{"json path exists", HTTPConfig{URL: srv.URL + "/healthy", JSONPath: "db.connected"}, true},
		{"json path value", HTTPConfig{URL: srv.URL + "/healthy", JSONPath: "status", ExpectValue: "ok"}, true},
		{"json path mismatch", HTTPConfig{URL: srv.URL + "/healthy", JSONPath: "status", ExpectValue: "down"}, false},
		{"json query", HTTPConfig{URL: srv.URL + "/healthy", JSONPath: `deps.#(name=="db").up`, ExpectValue: "true"}, true},
		{"json query mismatch", HTTPConfig{URL: srv.URL + "/healthy", JSONPath: `deps.#(name=="queue").up`, ExpectValue: "true"}, false},
		{"json query no match", HTTPConfig{URL: srv.URL + "/healthy", JSONPath: `deps.#(name=="cache").up`}, false},
		{"json path missing", HTTPConfig{URL: srv.URL + "/healthy", JSONPath: "cache.hits"}, false},
		{"json on text body", HTTPConfig{URL: srv.URL + "/text", JSONPath: "status"}, false},
		{"headers", HTTPConfig{URL: srv.URL + "/auth", Headers: map[string]string{"Authorization": "Bearer t"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := HTTP(tt.config)(context.Background())
			if err != nil {
				t.Fatalf("HTTP() error = %v", err)
			}
			if out.Success() != tt.wantSuccess {
				t.Errorf("Success() = %v, want %v (%v)", out.Success(), tt.wantSuccess, out.Value())
			}
			data := out.Value().(status.Report).Data
			if _, ok := data["status_code"]; !ok {
				t.Error("status_code missing")
			}
			if _, hasReason := data["reason"]; hasReason == tt.wantSuccess {
				t.Errorf("reason present = %v, want %v", hasReason, !tt.wantSuccess)
			}
		})
	}
}

func TestHTTP_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := HTTP(HTTPConfig{URL: url})(context.Background()); err == nil {
		t.Error("HTTP() error = nil for closed server")
	}
}

func TestHTTP_EmptyURL(t *testing.T) {
	if _, err := HTTP(HTTPConfig{})(context.Background()); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("HTTP() error = %v, want ErrEmptyURL", err)
	}
}

func TestHTTP_NegotiatesHTTP2(t *testing.T) {
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Proto))
	}))
	srv.EnableHTTP2 = true
	srv.StartTLS()
	t.Cleanup(srv.Close)

	client := newClient(time.Second)
	transport := client.Transport.(*http.Transport)
	transport.TLSClientConfig.RootCAs = srv.Client().Transport.(*http.Transport).TLSClientConfig.RootCAs

	out, err := HTTP(HTTPConfig{URL: srv.URL, BodyContains: "HTTP/2.0", Client: client})(context.Background())
	if err != nil {
		t.Fatalf("HTTP() error = %v", err)
	}
	if !out.Success() {
		t.Errorf("HTTP() = %+v, want success over HTTP/2", out.Value())
	}
}
