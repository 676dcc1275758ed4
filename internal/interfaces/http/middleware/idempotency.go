package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/infrastructure/logger"
	"github.com/erp/supplychain/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader names the client-chosen key of a retryable POST
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayHeader marks a response served from the store
	IdempotentReplayHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
)

// IdempotencyOptions tunes the Idempotency middleware
type IdempotencyOptions struct {
	// TTL is how long a completed response is replayed
	TTL time.Duration
	// LockTTL bounds how long an in-flight request holds its key
	LockTTL time.Duration
	Logger  *zap.Logger
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of a POST that carries an
// Idempotency-Key already seen on the same path. A second request arriving
// while the first still runs gets 409 CONFLICT. 5xx responses are not stored
// so the client can retry them.
func Idempotency(store shared.IdempotencyStore, opts IdempotencyOptions) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithCode(c, dto.ErrCodeBadRequest, "Idempotency-Key must be at most 255 characters")
			return
		}

		ctx := logger.WithIdempotencyKey(c.Request.Context(), key)
		c.Request = c.Request.WithContext(ctx)
		log := opts.Logger.With(zap.String("idempotency_key", key), zap.String("path", c.Request.URL.Path))
		storeKey := c.Request.URL.Path + ":" + key

		if replay(c, store, storeKey, log) {
			return
		}

		release, err := store.Lock(ctx, storeKey, opts.LockTTL)
		if errors.Is(err, shared.ErrIdempotencyKeyInUse) {
			abortWithCode(c, shared.CodeConflict, shared.ErrIdempotencyKeyInUse.Message)
			return
		}
		if err != nil {
			// a broken store must not block writes
			log.Warn("idempotency lock unavailable, serving without replay", zap.Error(err))
			c.Next()
			return
		}
		defer release()

		// the first request may have finished between the lookup and the lock
		if replay(c, store, storeKey, log) {
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() >= http.StatusInternalServerError {
			return
		}
		resp := &shared.StoredResponse{
			StatusCode:  rec.Status(),
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		}
		if err := store.Save(context.WithoutCancel(ctx), storeKey, resp, opts.TTL); err != nil {
			log.Warn("failed to store idempotent response", zap.Error(err))
		}
	}
}

func replay(c *gin.Context, store shared.IdempotencyStore, key string, log *zap.Logger) bool {
	stored, err := store.Get(c.Request.Context(), key)
	if err != nil {
		log.Warn("idempotency lookup failed", zap.Error(err))
		return false
	}
	if stored == nil {
		return false
	}
	c.Header(IdempotentReplayHeader, "true")
	c.Data(stored.StatusCode, stored.ContentType, stored.Body)
	c.Abort()
	return true
}

func abortWithCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
