package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/statuskit/auth"
	"github.com/jonwraymond/statuskit/observe"
)

// HandlerConfig configures the HTTP adapter.
type HandlerConfig struct {
	// BasePath is the route prefix.
	// Default: "/status"
	BasePath string

	// Timeout bounds one run triggered by a request.
	// Default: 30 seconds
	Timeout time.Duration

	// CORS allows cross-origin requests from any origin.
	CORS bool

	// Authenticator, when set, guards every route.
	Authenticator auth.Authenticator

	// Logger receives request summaries.
	// Default: no-op logger
	Logger observe.Logger
}

// Handler serves a registry over HTTP.
//
// Routes:
//   - GET {base}-list: JSON array of sorted collector names.
//   - GET {base} and GET {base}/a/b: JSON array of envelopes for the
//     collectors matching PatternFromPath("a/b"). 200 when every envelope
//     succeeded, 503 otherwise.
type Handler struct {
	reg    *Registry
	eng    *Engine
	config HandlerConfig
	router chi.Router
	group  singleflight.Group
}

// NewHandler creates the HTTP adapter for reg. A nil eng uses NewEngine().
func NewHandler(reg *Registry, eng *Engine, config ...HandlerConfig) *Handler {
	var cfg HandlerConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg.BasePath = normalizeBasePath(cfg.BasePath)
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if eng == nil {
		eng = NewEngine()
	}

	h := &Handler{reg: reg, eng: eng, config: cfg}
	h.router = h.routes()
	return h
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/status"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func (h *Handler) routes() chi.Router {
	r := chi.NewRouter()
	if h.config.CORS {
		r.Use(cors.AllowAll().Handler)
	}
	if h.config.Authenticator != nil {
		r.Use(auth.Middleware(h.config.Authenticator))
	}

	base := h.config.BasePath
	r.Get(base+"-list", h.handleList)
	r.Get(base, h.handleRun)
	r.Get(base+"/*", h.handleRun)
	return r
}

// Router returns the chi router serving the status routes, for mounting
// into a larger router.
func (h *Handler) Router() chi.Router {
	return h.router
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.reg.Names())
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	rest := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(rest); err == nil {
		rest = unescaped
	}
	pattern := PatternFromPath(rest)

	// Concurrent requests for one pattern share a run detached from any
	// single caller.
	ch := h.group.DoChan(pattern, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.config.Timeout)
		defer cancel()
		return h.eng.Execute(ctx, h.reg, pattern)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-r.Context().Done():
		return
	}

	if res.Err != nil {
		h.config.Logger.Error(r.Context(), "status run failed",
			observe.Field{Key: "pattern", Value: pattern},
			observe.Field{Key: "error", Value: res.Err.Error()},
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": res.Err.Error()})
		return
	}

	envs, _ := res.Val.([]Envelope)
	summary := Summarize(envs)
	h.config.Logger.Info(r.Context(), "status run",
		observe.Field{Key: "pattern", Value: pattern},
		observe.Field{Key: "total", Value: summary.Total},
		observe.Field{Key: "failed", Value: summary.Failed},
		observe.Field{Key: "shared", Value: res.Shared},
		observe.Field{Key: "principal", Value: auth.PrincipalFromContext(r.Context())},
	)

	code := http.StatusOK
	if !AllSucceeded(envs) {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, envs)
}

// PatternFromPath converts a URL path below the base path into a selection
// pattern: non-empty segments joined with '.', followed by '*'.
// "" selects everything and "db/primary" becomes "db.primary*".
func PatternFromPath(path string) string {
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	return strings.Join(segments, ".") + "*"
}

// writeJSON encodes v before writing the header so that an encoding
// failure becomes a 500 instead of a truncated response.
func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		code = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}
