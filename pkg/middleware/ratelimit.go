package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diagnosis/dalmatia-stays/internal/http/response"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// ParseRate reads rates such as "10-1m", "120-30s" or "1000-24h".
func ParseRate(s string) (limiter.Rate, error) {
	limitStr, periodStr, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return limiter.Rate{}, fmt.Errorf("invalid rate format: %s", s)
	}

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid limit: %s", limitStr)
	}

	if len(periodStr) < 2 {
		return limiter.Rate{}, fmt.Errorf("invalid period: %s", periodStr)
	}
	n, err := strconv.Atoi(periodStr[:len(periodStr)-1])
	if err != nil || n <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid period: %s", periodStr)
	}

	var unit time.Duration
	switch periodStr[len(periodStr)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	default:
		return limiter.Rate{}, fmt.Errorf("unsupported period: %s", periodStr)
	}

	return limiter.Rate{Period: time.Duration(n) * unit, Limit: limit}, nil
}

// NewRedisRateStore keeps counters for one named limit in Redis.
func NewRedisRateStore(client *redis.Client, name string) (limiter.Store, error) {
	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   "rate_limiter:" + name,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate store %s: %w", name, err)
	}
	return store, nil
}

// ParseTrustedProxies reads proxy addresses given as bare IPs or CIDRs.
func ParseTrustedProxies(list []string) ([]*net.IPNet, error) {
	var out []*net.IPNet
	for _, entry := range list {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy: %s", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy: %s", entry)
		}
		out = append(out, n)
	}
	return out, nil
}

// RateLimit limits requests per client IP. Forwarding headers count only
// when the peer is one of trusted.
func RateLimit(store limiter.Store, rate limiter.Rate, trusted ...*net.IPNet) func(http.Handler) http.Handler {
	instance := limiter.New(store, rate)
	key := ClientIP(trusted)
	return func(next http.Handler) http.Handler {
		limited := stdlib.NewMiddleware(instance,
			stdlib.WithKeyGetter(key),
			stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
				response.RateLimit(w, "too many requests, try again later")
			}),
			stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				logger.WarnContext(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
			}),
		).Handler(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns a key func resolving the client address. The socket peer
// is used unless it is a trusted proxy; then X-Forwarded-For is walked from
// the right, skipping trusted hops, and X-Real-IP is the fallback.
func ClientIP(trusted []*net.IPNet) func(*http.Request) string {
	isTrusted := func(s string) bool {
		ip := net.ParseIP(s)
		if ip == nil {
			return false
		}
		for _, n := range trusted {
			if n.Contains(ip) {
				return true
			}
		}
		return false
	}

	return func(r *http.Request) string {
		peer, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			peer = r.RemoteAddr
		}
		if !isTrusted(peer) {
			return peer
		}

		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			hops := strings.Split(xff, ",")
			for i := len(hops) - 1; i >= 0; i-- {
				hop := strings.TrimSpace(hops[i])
				if hop != "" && !isTrusted(hop) {
					return hop
				}
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
		return peer
	}
}
