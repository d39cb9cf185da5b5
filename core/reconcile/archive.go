package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"prompt-console/core/storage"

	"github.com/minio/minio-go/v7"
)

// Archive stores sweep summaries in object storage so operators can audit
// past runs. Objects are keyed sweeps/<sweep-name>/<run-id>.json.
type Archive struct {
	client storage.Client
	bucket string
}

// NewArchive creates an archive writing to the given bucket.
func NewArchive(client storage.Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// Store uploads the summary and returns the object name.
func (a *Archive) Store(ctx context.Context, sum RunSummary) (string, error) {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create archive bucket: %w", err)
		}
	}

	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	objectName := fmt.Sprintf("sweeps/%s/%s.json", sum.Sweep, sum.RunID)
	_, err = a.client.PutObject(ctx, a.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload summary: %w", err)
	}

	return objectName, nil
}
