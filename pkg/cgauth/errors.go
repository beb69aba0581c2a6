package cgauth

import "errors"

// Distinct auth failure kinds, tried against errors.Is by callers and
// recorded under auth_fail_total{method} by the caller's metrics sink.
var (
	ErrMalformedSignature  = errors.New("cgauth: malformed signature")
	ErrMalformedPayload    = errors.New("cgauth: malformed payload")
	ErrInvalidSignature    = errors.New("cgauth: invalid signature")
	ErrUnsupportedVersion  = errors.New("cgauth: unsupported presign version")
	ErrExpired             = errors.New("cgauth: presign token expired")
	ErrMismatch            = errors.New("cgauth: method, bucket, or path mismatch")
	ErrInvalidKeyMaterial  = errors.New("cgauth: invalid key material")
	ErrKeyMismatch         = errors.New("cgauth: public key does not match private key")
	ErrMissingAuth         = errors.New("cgauth: missing auth")
	ErrInvalidBearer       = errors.New("cgauth: invalid bearer token")
	ErrBearerNotConfigured = errors.New("cgauth: bearer token not configured")
)

// Kind returns a short label for an auth error, suitable for metrics labels
// and log fields. Unknown errors return "other".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedSignature):
		return "malformed_signature"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrUnsupportedVersion):
		return "unsupported_version"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrMismatch):
		return "mismatch"
	case errors.Is(err, ErrInvalidKeyMaterial):
		return "invalid_key_material"
	case errors.Is(err, ErrKeyMismatch):
		return "key_mismatch"
	case errors.Is(err, ErrMissingAuth):
		return "missing_auth"
	case errors.Is(err, ErrInvalidBearer):
		return "invalid_bearer"
	case errors.Is(err, ErrBearerNotConfigured):
		return "bearer_not_configured"
	default:
		return "other"
	}
}
