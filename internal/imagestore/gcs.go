package imagestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// GCSStore uploads images to a Cloud Storage bucket. It hands out signed
// URLs when the credentials can sign and public URLs otherwise.
type GCSStore struct {
	client    *storage.Client
	bucket    string
	signedTTL time.Duration
	logger    *zerolog.Logger
}

// NewGCSStore uses Application Default Credentials. project, when set, is
// billed as the quota project.
func NewGCSStore(ctx context.Context, bucket string, project string, signedTTL time.Duration, logger *zerolog.Logger) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS bucket name is required")
	}

	var opts []option.ClientOption
	if project != "" {
		opts = append(opts, option.WithQuotaProject(project))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStore{client: client, bucket: bucket, signedTTL: signedTTL, logger: logger}, nil
}

func (g *GCSStore) Upload(ctx context.Context, recipeID string, data []byte) (string, error) {
	name := objectName(recipeID)
	bucket := g.client.Bucket(g.bucket)

	w := bucket.Object(name).NewWriter(ctx)
	w.ContentType = "image/png"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", name, err)
	}

	signed, err := bucket.SignedURL(name, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(g.signedTTL),
	})
	if err == nil {
		g.logger.Info().Str("object", name).Msg("image uploaded to GCS (signed URL)")
		return signed, nil
	}

	// end-user credentials cannot sign; the bucket must allow public reads
	g.logger.Debug().Err(err).Msg("could not sign URL")
	public := fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, name)
	g.logger.Info().Str("object", name).Msg("image uploaded to GCS (public URL)")
	return public, nil
}

func (g *GCSStore) Delete(ctx context.Context, recipeID string) error {
	err := g.client.Bucket(g.bucket).Object(objectName(recipeID)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete image for %s: %w", recipeID, err)
	}
	return nil
}

func (g *GCSStore) Close() error {
	return g.client.Close()
}
