package gwapi

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/ditsuke/cachegate/internal/telemetry"
	"github.com/ditsuke/cachegate/pkg/upstream"
)

// observeUpstream wraps an upstream call with tracing and the
// upstream_ok_total / upstream_err_total / upstream_latency_ms metrics.
func (h *objectHandler) observeUpstream(ctx context.Context, operation string, call func() (*upstream.Object, error)) (*upstream.Object, error) {
	_, span := telemetry.StartUpstreamSpan(ctx, operation)
	defer span.End()

	start := time.Now()
	obj, err := call()
	elapsed := time.Since(start)

	kind := ""
	if err != nil {
		kind = upstream.ErrorKind(err)
		span.SetAttributes(telemetry.ErrorKind(kind))
	}
	h.metrics.ObserveUpstream(operation, elapsed, kind)
	return obj, err
}

// observeUpstreamHead is the Head-shaped counterpart of observeUpstream.
func (h *objectHandler) observeUpstreamHead(ctx context.Context, operation string, call func() (*upstream.HeadResult, error)) (*upstream.HeadResult, error) {
	_, span := telemetry.StartUpstreamSpan(ctx, operation)
	defer span.End()

	start := time.Now()
	res, err := call()
	elapsed := time.Since(start)

	kind := ""
	if err != nil {
		kind = upstream.ErrorKind(err)
		span.SetAttributes(telemetry.ErrorKind(kind))
	}
	h.metrics.ObserveUpstream(operation, elapsed, kind)
	return res, err
}

// readAllLimited reads body fully. size, when known (>0), is used only as
// a capacity hint for the buffer.
func readAllLimited(body io.Reader, size int64) ([]byte, error) {
	if size > 0 {
		buf := bytes.NewBuffer(make([]byte, 0, size))
		if _, err := io.Copy(buf, body); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return io.ReadAll(body)
}
