package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context for one gateway request.
type LogContext struct {
	TraceID       string    // OpenTelemetry trace ID
	SpanID        string    // OpenTelemetry span ID
	Method        string    // HTTP method (GET, HEAD, PUT)
	Bucket        string    // bucket_id
	Path          string    // object path
	ClientIP      string    // Client IP address (without port)
	CacheOutcome  string    // "hit", "miss", "" (unknown yet)
	InflightRole  string    // "leader", "follower", "" (not applicable)
	StartTime     time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext with the given client IP
func NewLogContext(clientIP string) *LogContext {
	return &LogContext{
		ClientIP:  clientIP,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithMethod returns a copy with the HTTP method set
func (lc *LogContext) WithMethod(method string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Method = method
	}
	return clone
}

// WithObject returns a copy with the bucket/path set
func (lc *LogContext) WithObject(bucket, path string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Bucket = bucket
		clone.Path = path
	}
	return clone
}

// WithCacheOutcome returns a copy with the cache hit/miss outcome set
func (lc *LogContext) WithCacheOutcome(outcome string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.CacheOutcome = outcome
	}
	return clone
}

// WithInflightRole returns a copy with the inflight leader/follower role set
func (lc *LogContext) WithInflightRole(role string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.InflightRole = role
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
