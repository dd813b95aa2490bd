// Package middleware holds HTTP middleware shared by the API routes.
package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/cinema-ticketing/api"
	"github.com/metinatakli/cinema-ticketing/internal/jsonutil"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	IdempotencyKeyPrefix = "idempotency:"

	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultProcessingTTL  = 60 * time.Second

	maxIdempotencyKeyLength = 255
)

const (
	ErrIdempotencyKeyTooLong = "Idempotency key must be at most 255 characters long"
	ErrIdempotencyKeyReused  = "Idempotency key was already used with a different request"
	ErrRequestInProgress     = "A request with this idempotency key is already being processed"
)

type IdempotencyStatus string

const (
	StatusProcessing IdempotencyStatus = "processing"
	StatusCompleted  IdempotencyStatus = "completed"
)

// IdempotencyRecord is what gets stored in Redis per idempotency key.
type IdempotencyRecord struct {
	Status       IdempotencyStatus `json:"status"`
	RequestHash  string            `json:"requestHash"`
	ResponseCode int               `json:"responseCode,omitempty"`
	ResponseBody string            `json:"responseBody,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	CompletedAt  *time.Time        `json:"completedAt,omitempty"`
}

type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type IdempotencyConfig struct {
	Redis  RedisClient
	Logger *slog.Logger
	// TTL applies to completed records, ProcessingTTL to records of requests still
	// being handled, so a crashed request does not block its key for long.
	TTL           time.Duration
	ProcessingTTL time.Duration
}

// Idempotency replays the stored response when a client retries a request with the
// same Idempotency-Key header. Requests without the header pass through. When Redis
// is unreachable the request is handled as if no key was sent.
func Idempotency(config IdempotencyConfig) func(http.Handler) http.Handler {
	if config.TTL <= 0 {
		config.TTL = DefaultIdempotencyTTL
	}
	if config.ProcessingTTL <= 0 {
		config.ProcessingTTL = DefaultProcessingTTL
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if len(key) > maxIdempotencyKeyLength {
				writeError(w, r, http.StatusBadRequest, ErrIdempotencyKeyTooLong)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, "Request body could not be read")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			ctx := r.Context()
			redisKey := IdempotencyKeyPrefix + key
			record := &IdempotencyRecord{
				Status:      StatusProcessing,
				RequestHash: requestHash(r, body),
				CreatedAt:   time.Now(),
			}

			acquired, err := setRecordNX(ctx, config.Redis, redisKey, record, config.ProcessingTTL)
			if err != nil {
				config.Logger.Warn("idempotency store unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if !acquired {
				existing, err := getRecord(ctx, config.Redis, redisKey)
				if err != nil {
					if !errors.Is(err, redis.Nil) {
						config.Logger.Warn("failed to read idempotency record", "error", err)
					}
					next.ServeHTTP(w, r)
					return
				}

				replay(w, r, existing, record.RequestHash)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			var captured bytes.Buffer
			ww.Tee(&captured)

			next.ServeHTTP(ww, r)

			// Server errors are not stored so the client can retry them.
			if ww.Status() >= http.StatusInternalServerError {
				if err := config.Redis.Del(ctx, redisKey).Err(); err != nil {
					config.Logger.Warn("failed to release idempotency key", "error", err)
				}
				return
			}

			completedAt := time.Now()
			record.Status = StatusCompleted
			record.ResponseCode = ww.Status()
			record.ResponseBody = captured.String()
			record.CompletedAt = &completedAt

			if err := setRecord(ctx, config.Redis, redisKey, record, config.TTL); err != nil {
				config.Logger.Warn("failed to store idempotent response", "error", err)
			}
		})
	}
}

func replay(w http.ResponseWriter, r *http.Request, existing *IdempotencyRecord, hash string) {
	if existing.RequestHash != hash {
		writeError(w, r, http.StatusUnprocessableEntity, ErrIdempotencyKeyReused)
		return
	}

	if existing.Status == StatusProcessing {
		writeError(w, r, http.StatusConflict, ErrRequestInProgress)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(existing.ResponseCode)
	w.Write([]byte(existing.ResponseBody))
}

func requestHash(r *http.Request, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte(r.URL.Path))
	h.Write(body)

	return hex.EncodeToString(h.Sum(nil))
}

func getRecord(ctx context.Context, client RedisClient, key string) (*IdempotencyRecord, error) {
	result, err := client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var record IdempotencyRecord
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func setRecordNX(ctx context.Context, client RedisClient, key string, record *IdempotencyRecord, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return false, err
	}

	return client.SetNX(ctx, key, string(data), ttl).Result()
}

func setRecord(ctx context.Context, client RedisClient, key string, record *IdempotencyRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, string(data), ttl).Err()
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	jsonutil.WriteJSON(w, status, resp, nil)
}
