package azurestore

import (
	"errors"
	"testing"

	"github.com/ditsuke/cachegate/pkg/upstream"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"blob not found", errors.New("BlobNotFound: the specified blob does not exist"), upstream.ErrNotFound},
		{"container not found", errors.New("ContainerNotFound"), upstream.ErrNotFound},
		{"status 404", errors.New("404 Not Found"), upstream.ErrNotFound},
		{"auth failed", errors.New("AuthenticationFailed"), upstream.ErrUnauthenticated},
		{"status 401", errors.New("401 unauthorized"), upstream.ErrUnauthenticated},
		{"authz failure", errors.New("AuthorizationFailure"), upstream.ErrPermissionDenied},
		{"status 403", errors.New("403 forbidden"), upstream.ErrPermissionDenied},
		{"condition not met", errors.New("ConditionNotMet"), upstream.ErrPreconditionFailed},
		{"unrecognized", errors.New("something else entirely"), upstream.ErrOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyError(tc.err)
			if !errors.Is(got, tc.want) {
				t.Errorf("classifyError(%v) = %v, want wrapping %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	if classifyError(nil) != nil {
		t.Error("classifyError(nil) should return nil")
	}
}

func TestMultipartWriter_BlockIDsIncrement(t *testing.T) {
	w := &multipartWriter{uploadID: "bucket/key"}
	id1 := w.nextBlockID()
	id2 := w.nextBlockID()
	if id1 == id2 {
		t.Error("expected distinct block IDs across calls")
	}
	if w.partNum != 2 {
		t.Errorf("partNum = %d, want 2", w.partNum)
	}
}
