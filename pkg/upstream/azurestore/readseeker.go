package azurestore

import (
	"bytes"
	"io"
)

// readSeekCloser adapts a bytes.Reader to io.ReadSeekCloser, which the
// Azure SDK's StageBlock requires for its Body parameter.
type readSeekCloser struct {
	*bytes.Reader
}

func (readSeekCloser) Close() error { return nil }

func newReadSeekCloser(b []byte) io.ReadSeekCloser {
	return readSeekCloser{bytes.NewReader(b)}
}
