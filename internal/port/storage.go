package port

import (
	"context"
	"io"
)

// UploadInput describes one invoice PDF to store.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	// Metadata is stored as object user metadata (x-amz-meta-*).
	Metadata map[string]string
}

// UploadOutput is what the store reports after a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage keeps the original invoice PDFs.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	// Download reads a whole object; used to re-extract rows without raw text.
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	// Delete removes an object whose database record was never written.
	Delete(ctx context.Context, bucket, key string) error
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
	// PublicURL returns the stable URL saved in pdf_url.
	PublicURL(bucket, key string) string
}
