package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/diagnosis/dalmatia-stays/internal/http/response"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"github.com/diagnosis/dalmatia-stays/services/gateway/internal/proxy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	authProxy  *proxy.ServiceProxy
	staysProxy *proxy.ServiceProxy
}

func New(authProxy, staysProxy *proxy.ServiceProxy) *Handlers {
	return &Handlers{
		authProxy:  authProxy,
		staysProxy: staysProxy,
	}
}

// Options carries the edge policies. Nil limiters mean unlimited.
type Options struct {
	AllowedOrigins []string
	GlobalLimit    func(http.Handler) http.Handler
	AuthLimit      func(http.Handler) http.Handler
}

func (h *Handlers) Routes(opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Idempotent-Replayed", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.GlobalLimit != nil {
		r.Use(opts.GlobalLimit)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if opts.AuthLimit != nil {
				r.Use(opts.AuthLimit)
			}
			r.Handle("/*", h.forward(h.authProxy, "/v1/auth"))
		})
		r.Handle("/*", h.forward(h.staysProxy, "/v1"))
	})

	return r
}

// forward relays the request with prefix stripped from its path.
func (h *Handlers) forward(p *proxy.ServiceProxy, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			response.BadRequest(w, "Failed to read request body")
			return
		}

		path := strings.TrimPrefix(r.URL.Path, prefix)
		if path == "" {
			path = "/"
		}
		if r.URL.RawQuery != "" {
			path += "?" + r.URL.RawQuery
		}

		resp, err := p.ProxyRequest(r.Context(), r.Method, path, body, r.Header)
		if err != nil {
			logger.ErrorContext(r.Context(), "Service proxy error", "error", err, "service", p.Name(), "path", path)
			response.ServiceUnavailable(w, "Service unavailable")
			return
		}
		defer resp.Body.Close()

		for key, values := range resp.Header {
			if !shouldCopyHeader(key) {
				continue
			}
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		w.WriteHeader(resp.StatusCode)

		if _, err := io.Copy(w, resp.Body); err != nil {
			logger.ErrorContext(r.Context(), "Failed to copy response body", "error", err)
		}
	}
}

func shouldCopyHeader(key string) bool {
	switch strings.ToLower(key) {
	case "connection", "keep-alive", "proxy-authenticate", "proxy-authorization",
		"te", "trailer", "transfer-encoding", "upgrade", "content-length",
		"access-control-allow-origin", "access-control-allow-credentials", "vary", "x-request-id":
		return false
	}
	return true
}
