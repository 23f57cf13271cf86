package logging

import (
	"context"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

type traceIDKey struct{}

// FromContext returns the logger stored in ctx, or a disabled logger when
// none is present. Components never log through a package-level logger;
// the context is the only channel.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// ContextWithTraceID stores a trace ID in ctx and stamps it onto the
// context logger so every subsequent event carries it.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	ctx = context.WithValue(ctx, traceIDKey{}, traceID)
	logger := zerolog.Ctx(ctx).With().Str("trace_id", traceID).Logger()
	return logger.WithContext(ctx)
}

// TraceIDFromContext returns the trace ID stored in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetOrGenerateTraceID returns the context's trace ID, generating a fresh
// ULID when the context has none. ULIDs sort by creation time, which keeps
// log aggregation ordered across repeated runs.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewRunID()
}

// NewRunID generates a ULID suitable for identifying a single
// orchestration run.
func NewRunID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // IDs, not secrets
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
