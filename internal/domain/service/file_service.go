package service

import (
	"context"
	"io"
)

// UploadResult describes a stored proof attachment.
type UploadResult struct {
	URL        string
	ObjectName string
	Size       int64
}

// ProofStorage keeps proof attachments outside the report store; the core
// only ever sees the returned metadata.
type ProofStorage interface {
	UploadFile(ctx context.Context, file io.Reader, fileType, fileName, folder string) (*UploadResult, error)
	DeleteFile(ctx context.Context, objectName string) error
	Close() error
}
