// Package azurestore implements the upstream.Store interface over Azure
// Blob Storage block blobs. Multipart uploads stage blocks directly on the
// final blob (no temp objects), so an abandoned upload leaves only
// uncommitted blocks that Azure garbage-collects after a week.
package azurestore

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"

	"github.com/ditsuke/cachegate/pkg/upstream"
)

// Config configures one Azure Blob backend. ConnectionString is parsed as
// ";"-separated key=value pairs (case-insensitive keys, optionally quoted
// values) to extract AccountName, AccountKey, and optionally BlobEndpoint/
// DefaultEndpointsProtocol/EndpointSuffix.
type Config struct {
	Container        string
	ConnectionString string
}

// Store implements upstream.Store over an Azure Blob container.
type Store struct {
	client    *azblob.Client
	container string
}

// New parses cfg.ConnectionString and builds a shared-key-authenticated
// Azure Blob client.
func New(cfg Config) (*Store, error) {
	parsed, err := parseConnectionString(cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("azurestore: %w", err)
	}

	cred, err := azblob.NewSharedKeyCredential(parsed.accountName, parsed.accountKey)
	if err != nil {
		return nil, fmt.Errorf("azurestore: shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(parsed.endpoint, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("azurestore: new client: %w", err)
	}

	return &Store{client: client, container: cfg.Container}, nil
}

func (s *Store) Get(ctx context.Context, path string) (*upstream.Object, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, path, nil)
	if err != nil {
		return nil, classifyError(err)
	}

	obj := &upstream.Object{Body: resp.Body}
	if resp.ContentLength != nil {
		obj.Size = *resp.ContentLength
	}
	if resp.ContentType != nil {
		obj.ContentType = *resp.ContentType
	}
	return obj, nil
}

func (s *Store) Head(ctx context.Context, path string) (*upstream.HeadResult, error) {
	blobClient := s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(path)
	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		return nil, classifyError(err)
	}

	res := &upstream.HeadResult{}
	if props.ContentLength != nil {
		res.Size = *props.ContentLength
	}
	if props.ContentType != nil {
		res.ContentType = *props.ContentType
	}
	return res, nil
}

func (s *Store) PutMultipart(ctx context.Context, path string) (upstream.MultipartWriter, error) {
	blockClient := s.client.ServiceClient().NewContainerClient(s.container).NewBlockBlobClient(path)
	return &multipartWriter{client: blockClient, uploadID: path}, nil
}

type multipartWriter struct {
	client   *blockblob.Client
	uploadID string
	partNum  int
	ids      []string
}

// nextBlockID derives a fixed-length block ID; Azure requires all block
// IDs on a blob to be base64 strings of equal length.
func (w *multipartWriter) nextBlockID() string {
	w.partNum++
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%05d", w.uploadID, w.partNum)))
}

func (w *multipartWriter) WriteChunk(ctx context.Context, chunk []byte) error {
	id := w.nextBlockID()
	_, err := w.client.StageBlock(ctx, id, newReadSeekCloser(chunk), nil)
	if err != nil {
		return classifyError(err)
	}
	w.ids = append(w.ids, id)
	return nil
}

func (w *multipartWriter) Finish(ctx context.Context) error {
	_, err := w.client.CommitBlockList(ctx, w.ids, nil)
	if err != nil {
		return classifyError(err)
	}
	return nil
}

// Abort is a no-op: no final blob exists until CommitBlockList, and
// uncommitted staged blocks auto-expire after 7 days.
func (w *multipartWriter) Abort(ctx context.Context) error {
	return nil
}

// classifyError maps Azure SDK errors into the bounded upstream error
// kinds by string-matching the error message; Azure's REST error codes
// are not reliably typed across SDK versions.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "blobnotfound"), strings.Contains(msg, "containernotfound"),
		strings.Contains(msg, "404"), strings.Contains(msg, "the specified blob does not exist"),
		strings.Contains(msg, "the specified container does not exist"):
		return fmt.Errorf("%w: %v", upstream.ErrNotFound, err)
	case strings.Contains(msg, "authenticationfailed"), strings.Contains(msg, "401"):
		return fmt.Errorf("%w: %v", upstream.ErrUnauthenticated, err)
	case strings.Contains(msg, "authorizationfailure"), strings.Contains(msg, "403"):
		return fmt.Errorf("%w: %v", upstream.ErrPermissionDenied, err)
	case strings.Contains(msg, "conditionnotmet"), strings.Contains(msg, "412"):
		return fmt.Errorf("%w: %v", upstream.ErrPreconditionFailed, err)
	default:
		return fmt.Errorf("%w: %v", upstream.ErrOther, err)
	}
}
