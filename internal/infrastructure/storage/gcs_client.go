package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"scamwatch/internal/domain/service"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
	maxSize    int64
}

// NewCloudStorageClient stores proof files in bucketName. Uploads larger than
// maxSize bytes are rejected; zero disables the limit.
func NewCloudStorageClient(ctx context.Context, bucketName string, maxSize int64, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
		maxSize:    maxSize,
	}, nil
}

func (c *CloudStorageClient) UploadFile(ctx context.Context, file io.Reader, fileType, fileName, folder string) (*service.UploadResult, error) {
	name := objectName(folder, fileType, fileName, uuid.New().String(), time.Now())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	obj := c.client.Bucket(c.bucketName).Object(name)
	wc := obj.NewWriter(ctx)
	wc.ContentType = fileType
	wc.CacheControl = "private, max-age=86400"
	wc.Metadata = map[string]string{"originalName": fileName}

	src := file
	if c.maxSize > 0 {
		src = io.LimitReader(file, c.maxSize+1)
	}
	n, err := io.Copy(wc, src)
	if err != nil {
		return nil, fmt.Errorf("failed to copy file to GCS: %v", err)
	}
	if c.maxSize > 0 && n > c.maxSize {
		// cancelling the context aborts the pending upload
		cancel()
		wc.Close()
		return nil, fmt.Errorf("file exceeds %d bytes", c.maxSize)
	}

	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %v", err)
	}

	return &service.UploadResult{
		URL:        fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, name),
		ObjectName: name,
		Size:       n,
	}, nil
}

func (c *CloudStorageClient) DeleteFile(ctx context.Context, objectName string) error {
	obj := c.client.Bucket(c.bucketName).Object(objectName)
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}

	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

func objectName(folder, fileType, fileName, id string, now time.Time) string {
	name := fmt.Sprintf("%s/%s-%s", strings.Trim(folder, "/"), id, now.UTC().Format("20060102150405"))
	return name + extension(fileType, fileName)
}

func extension(fileType, fileName string) string {
	switch fileType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	}

	if ext := strings.ToLower(path.Ext(fileName)); ext != "" && len(ext) <= 6 {
		return ext
	}
	return ".bin"
}
