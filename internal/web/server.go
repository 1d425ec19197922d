package web

import (
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/gorilla/websocket"
    "go.uber.org/zap"

    "github.com/jaminalder/tant-fant/internal/app"
)

// Option configures NewServer.
type Option func(*handlers)

// WithLogger sets the request and connection logger.
func WithLogger(log *zap.Logger) Option {
    return func(h *handlers) {
        if log != nil {
            h.log = log
        }
    }
}

// WithHeartbeat sets the interval of SSE keep-alive comments.
func WithHeartbeat(d time.Duration) Option {
    return func(h *handlers) {
        if d > 0 {
            h.heartbeat = d
        }
    }
}

// WithAllowedOrigins restricts websocket upgrades to origins whose host is one
// of hosts or a subdomain of one. No hosts means any origin is accepted.
func WithAllowedOrigins(hosts []string) Option {
    return func(h *handlers) { h.origins = hosts }
}

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service, opts ...Option) http.Handler {
    h := &handlers{
        svc:       s,
        tpl:       loadTemplates(),
        log:       zap.NewNop(),
        heartbeat: defaultHeartbeat,
    }
    for _, opt := range opts {
        opt(h)
    }
    h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}

    r := chi.NewRouter()
    r.Use(middleware.Recoverer)
    r.Use(requestLogger(h.log))
    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Get("/state", h.state)
        r.Post("/click", h.click)
        r.Post("/jump", h.jump)
        r.Get("/events", h.events)
        r.Get("/ws", h.socket)
    })
    return r
}

// checkOrigin checks a websocket request's origin against the allowed hosts.
func (h *handlers) checkOrigin(r *http.Request) bool {
    if len(h.origins) == 0 {
        return true
    }
    u, err := url.Parse(r.Header.Get("Origin"))
    if err != nil {
        return false
    }
    origin := strings.ToLower(u.Hostname())
    for _, host := range h.origins {
        host = strings.ToLower(host)
        if host != "" && (origin == host || strings.HasSuffix(origin, "."+host)) {
            return true
        }
    }
    return false
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()
            defer func() {
                log.Debug("request",
                    zap.String("method", r.Method),
                    zap.String("path", r.URL.Path),
                    zap.Int("status", ww.Status()),
                    zap.Duration("elapsed", time.Since(start)),
                )
            }()
            next.ServeHTTP(ww, r)
        })
    }
}
