// Package media archives downloaded voice notes to GCS for audit and
// debugging. Archival is best-effort: a failure is logged by the caller and
// never blocks transcription.
package media

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
)

// Archiver stores raw voice-note bytes.
type Archiver interface {
	ArchiveVoiceNote(ctx context.Context, from, messageID string, audio []byte) (string, error)
}

// GCSArchiver implements Archiver against a single bucket.
type GCSArchiver struct {
	client *storage.Client
	bucket string
}

func NewGCSArchiver(ctx context.Context, bucket string) (*GCSArchiver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("media: create storage client: %w", err)
	}
	return &GCSArchiver{client: client, bucket: bucket}, nil
}

// ArchiveVoiceNote uploads the audio under voice/<from>/<message-id>.ogg and
// returns the object's gs:// URI.
func (a *GCSArchiver) ArchiveVoiceNote(ctx context.Context, from, messageID string, audio []byte) (string, error) {
	objectName := fmt.Sprintf("voice/%s/%s.ogg", from, messageID)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "audio/ogg"

	if _, err := w.Write(audio); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("media: write voice note: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("media: finalize voice note: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}

// Close releases the underlying client.
func (a *GCSArchiver) Close() error {
	return a.client.Close()
}

var _ Archiver = (*GCSArchiver)(nil)
