package logger

import (
	"log/slog"
)

// Standard field keys for structured logging across the gateway.
// Use these keys consistently across all log statements for log aggregation and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// HTTP request
	// ========================================================================
	KeyMethod    = "method"     // HTTP method: GET, HEAD, PUT
	KeyBucket    = "bucket"     // bucket_id
	KeyPath      = "path"       // object path
	KeyClientIP  = "client_ip"  // Client IP address
	KeyStatus    = "status"     // HTTP response status code
	KeyBytes     = "bytes"      // Response/request body size in bytes
	KeyRequestID = "request_id" // chi request ID

	// ========================================================================
	// Cache & inflight
	// ========================================================================
	KeyCacheOutcome = "cache_outcome" // "hit" or "miss"
	KeyInflightRole = "inflight_role" // "leader" or "follower"
	KeyCacheSize    = "cache_size"    // current resident bytes
	KeyCacheCap     = "cache_cap"     // configured capacity in bytes
	KeyEvicted      = "evicted"       // number of entries evicted by one admission

	// ========================================================================
	// Upstream
	// ========================================================================
	KeyStoreType = "store_type" // s3, azure
	KeyErrorKind = "error_kind" // classified upstream error kind

	// ========================================================================
	// Auth
	// ========================================================================
	KeyAuthMethod = "auth_method" // "bearer" or "presign"
	KeyAuthKind   = "auth_kind"   // specific failure kind

	// ========================================================================
	// Operation metadata
	// ========================================================================
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
)

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr { return slog.String(KeySpanID, id) }

// Method returns a slog.Attr for the HTTP method
func Method(m string) slog.Attr { return slog.String(KeyMethod, m) }

// Bucket returns a slog.Attr for the bucket id
func Bucket(id string) slog.Attr { return slog.String(KeyBucket, id) }

// Path returns a slog.Attr for the object path
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// ClientIP returns a slog.Attr for the client IP address
func ClientIP(addr string) slog.Attr { return slog.String(KeyClientIP, addr) }

// Status returns a slog.Attr for the HTTP status code
func Status(code int) slog.Attr { return slog.Int(KeyStatus, code) }

// Bytes returns a slog.Attr for a byte count
func Bytes(n int64) slog.Attr { return slog.Int64(KeyBytes, n) }

// RequestID returns a slog.Attr for the request id
func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }

// CacheOutcome returns a slog.Attr for the cache hit/miss outcome
func CacheOutcome(outcome string) slog.Attr { return slog.String(KeyCacheOutcome, outcome) }

// InflightRole returns a slog.Attr for the leader/follower role
func InflightRole(role string) slog.Attr { return slog.String(KeyInflightRole, role) }

// CacheSize returns a slog.Attr for current resident cache bytes
func CacheSize(size int64) slog.Attr { return slog.Int64(KeyCacheSize, size) }

// CacheCap returns a slog.Attr for configured cache capacity
func CacheCap(cap int64) slog.Attr { return slog.Int64(KeyCacheCap, cap) }

// Evicted returns a slog.Attr for number of entries evicted
func Evicted(n int) slog.Attr { return slog.Int(KeyEvicted, n) }

// StoreType returns a slog.Attr for upstream store type
func StoreType(t string) slog.Attr { return slog.String(KeyStoreType, t) }

// ErrorKind returns a slog.Attr for a classified error kind
func ErrorKind(kind string) slog.Attr { return slog.String(KeyErrorKind, kind) }

// AuthMethod returns a slog.Attr for the credential form attempted
func AuthMethod(method string) slog.Attr { return slog.String(KeyAuthMethod, method) }

// AuthKind returns a slog.Attr for the specific auth failure kind
func AuthKind(kind string) slog.Attr { return slog.String(KeyAuthKind, kind) }

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
