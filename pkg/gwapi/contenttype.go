package gwapi

import (
	"mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// guessContentType resolves a content type for path by extension, falling
// back to application/octet-stream when the extension is unknown. Used for
// HEAD misses without an upstream content type and for PUT admissions
// without a Content-Type request header.
func guessContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// resolveContentType implements the GET fetch-path content-type resolution:
// guess by extension first, then sniff the payload's magic number, then
// fall back to application/octet-stream.
func resolveContentType(path string, payload []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	if len(payload) > 0 {
		return mimetype.Detect(payload).String()
	}
	return "application/octet-stream"
}
