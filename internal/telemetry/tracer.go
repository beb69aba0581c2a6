package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for gateway request spans.
const (
	AttrClientIP = "client.ip"

	AttrMethod = "http.method"
	AttrBucket = "gateway.bucket"
	AttrPath   = "gateway.path"
	AttrStatus = "http.status_code"
	AttrBytes  = "gateway.bytes"

	AttrCacheOutcome = "cache.outcome" // "hit" or "miss"
	AttrInflightRole = "inflight.role" // "leader" or "follower"

	AttrAuthMethod = "auth.method" // "bearer" or "presign"
	AttrAuthKind   = "auth.kind"   // specific failure kind

	AttrStoreType = "store.type" // s3, azure
	AttrErrorKind = "upstream.error_kind"
)

// Span names for gateway operations.
const (
	SpanRequest  = "gateway.request"
	SpanAuth     = "auth.verify"
	SpanCacheGet = "cache.get"
	SpanCachePut = "cache.put"
	SpanInflight = "inflight.acquire"
	SpanUpstream = "upstream.call"
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// Method returns an attribute for the HTTP method
func Method(method string) attribute.KeyValue {
	return attribute.String(AttrMethod, method)
}

// Bucket returns an attribute for bucket_id
func Bucket(id string) attribute.KeyValue {
	return attribute.String(AttrBucket, id)
}

// Path returns an attribute for the object path
func Path(path string) attribute.KeyValue {
	return attribute.String(AttrPath, path)
}

// Status returns an attribute for HTTP status code
func Status(code int) attribute.KeyValue {
	return attribute.Int(AttrStatus, code)
}

// Bytes returns an attribute for a byte count
func Bytes(n int64) attribute.KeyValue {
	return attribute.Int64(AttrBytes, n)
}

// CacheOutcome returns an attribute for cache hit/miss outcome
func CacheOutcome(outcome string) attribute.KeyValue {
	return attribute.String(AttrCacheOutcome, outcome)
}

// InflightRole returns an attribute for leader/follower role
func InflightRole(role string) attribute.KeyValue {
	return attribute.String(AttrInflightRole, role)
}

// AuthMethod returns an attribute for the credential form attempted
func AuthMethod(method string) attribute.KeyValue {
	return attribute.String(AttrAuthMethod, method)
}

// AuthKind returns an attribute for the specific auth failure kind
func AuthKind(kind string) attribute.KeyValue {
	return attribute.String(AttrAuthKind, kind)
}

// StoreType returns an attribute for the upstream store type
func StoreType(t string) attribute.KeyValue {
	return attribute.String(AttrStoreType, t)
}

// ErrorKind returns an attribute for a classified upstream error kind
func ErrorKind(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}

// StartRequestSpan starts the root span for one gateway HTTP request.
func StartRequestSpan(ctx context.Context, method, bucket, path string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanRequest, trace.WithAttributes(
		Method(method), Bucket(bucket), Path(path),
	))
}

// StartCacheSpan starts a span for a cache operation ("get" or "put").
func StartCacheSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "cache."+operation, trace.WithAttributes(attrs...))
}

// StartInflightSpan starts a span for an inflight coordinator acquire.
func StartInflightSpan(ctx context.Context, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanInflight, trace.WithAttributes(attrs...))
}

// StartUpstreamSpan starts a span for an upstream adapter call.
func StartUpstreamSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "upstream."+operation, trace.WithAttributes(attrs...))
}

// StartAuthSpan starts a span for auth verification.
func StartAuthSpan(ctx context.Context, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanAuth, trace.WithAttributes(attrs...))
}
