package s3store

import (
	"context"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// minPartSize is S3's minimum multipart part size (5 MiB); every part
// except the last must be at least this large, so chunks are coalesced
// into an internal buffer and flushed as full parts.
const minPartSize = 5 * 1024 * 1024

// multipartWriter wraps the S3 SDK's CreateMultipartUpload/UploadPart/
// CompleteMultipartUpload/AbortMultipartUpload sequence behind the
// upstream.MultipartWriter interface.
type multipartWriter struct {
	client   *s3.Client
	bucket   string
	key      string
	uploadID string

	mu      sync.Mutex
	buf     []byte
	parts   []types.CompletedPart
	partNum int32
}

func (w *multipartWriter) WriteChunk(ctx context.Context, chunk []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, chunk...)
	for len(w.buf) >= minPartSize {
		part := w.buf[:minPartSize]
		if err := w.uploadPart(ctx, part); err != nil {
			return err
		}
		w.buf = w.buf[minPartSize:]
	}
	return nil
}

// uploadPart sends one part. Caller holds w.mu.
func (w *multipartWriter) uploadPart(ctx context.Context, part []byte) error {
	w.partNum++
	out, err := w.client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(w.bucket),
		Key:        aws.String(w.key),
		UploadId:   aws.String(w.uploadID),
		PartNumber: aws.Int32(w.partNum),
		Body:       newReadSeeker(part),
	})
	if err != nil {
		return classifyError(err)
	}
	w.parts = append(w.parts, types.CompletedPart{ETag: out.ETag, PartNumber: aws.Int32(w.partNum)})
	return nil
}

func (w *multipartWriter) Finish(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Flush the tail; an empty upload still needs one (empty) part for
	// CompleteMultipartUpload to succeed.
	if len(w.buf) > 0 || len(w.parts) == 0 {
		if err := w.uploadPart(ctx, w.buf); err != nil {
			return err
		}
		w.buf = nil
	}

	parts := make([]types.CompletedPart, len(w.parts))
	copy(parts, w.parts)
	sort.Slice(parts, func(i, j int) bool {
		return aws.ToInt32(parts[i].PartNumber) < aws.ToInt32(parts[j].PartNumber)
	})

	_, err := w.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(w.bucket),
		Key:      aws.String(w.key),
		UploadId: aws.String(w.uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: parts,
		},
	})
	if err != nil {
		return classifyError(err)
	}
	return nil
}

func (w *multipartWriter) Abort(ctx context.Context) error {
	_, err := w.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(w.bucket),
		Key:      aws.String(w.key),
		UploadId: aws.String(w.uploadID),
	})
	if err != nil {
		return classifyError(err)
	}
	return nil
}
