package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"

	idempotencyTTL = 24 * time.Hour
)

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type storedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// Idempotency replays the first successful response for a repeated
// Idempotency-Key on POST. Keys are scoped to the caller and the path, so two
// users cannot collide. Store failures degrade to normal processing, and a
// nil store disables replay entirely.
func Idempotency(store IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderIdempotencyKey)
			if r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}

			scope := "anonymous"
			if id, ok := IdentityFrom(r.Context()); ok {
				scope = id.ID
			}
			sum := sha256.Sum256([]byte(scope + "|" + r.URL.Path + "|" + key))
			storeKey := fmt.Sprintf("idempotency:%x", sum)

			if existing, err := store.Get(r.Context(), storeKey); err != nil {
				logger.WarnContext(r.Context(), "idempotency lookup failed", "error", err)
			} else if existing != "" {
				var prev storedResponse
				if err := json.Unmarshal([]byte(existing), &prev); err == nil {
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set(HeaderReplayed, "true")
					w.WriteHeader(prev.Status)
					w.Write([]byte(prev.Body))
					return
				}
			}

			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(recorder, r)

			if recorder.statusCode < 200 || recorder.statusCode >= 300 {
				return
			}
			payload, _ := json.Marshal(storedResponse{Status: recorder.statusCode, Body: string(recorder.body)})
			if err := store.Set(r.Context(), storeKey, string(payload), idempotencyTTL); err != nil {
				logger.WarnContext(r.Context(), "idempotency save failed", "error", err)
			}
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       []byte
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(body []byte) (int, error) {
	r.body = append(r.body, body...)
	return r.ResponseWriter.Write(body)
}

// RedisIdempotencyStore keeps replay records in Redis with a TTL.
type RedisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *RedisIdempotencyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return s.client.Set(ctx, key, value, ttl).Err()
}
