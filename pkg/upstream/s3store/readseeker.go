package s3store

import (
	"bytes"
	"io"
)

// newReadSeeker wraps a chunk in an io.ReadSeeker, as required by the S3
// SDK's UploadPartInput.Body.
func newReadSeeker(chunk []byte) io.ReadSeeker {
	return bytes.NewReader(chunk)
}
