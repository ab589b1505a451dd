package compiler

import (
	"context"
	"os"
)

// Reader loads the raw content of a document.
type Reader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// OSReader reads documents from the local file system.
type OSReader struct{}

// ReadFile reads path unless ctx is already done.
func (OSReader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
