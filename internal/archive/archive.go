// Package archive exports a user's journal as a JSON document and, when
// object storage is configured, uploads it to an S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/config"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/google/uuid"
)

// PresignTTL is how long an uploaded archive stays downloadable.
const PresignTTL = 15 * time.Minute

// EntryLister is the part of the entry service the archive reads from.
type EntryLister interface {
	List(ctx context.Context, userID string) ([]models.JournalEntry, error)
}

// Document is the exported file.
type Document struct {
	UserID     string                `json:"user_id"`
	ExportedAt time.Time             `json:"exported_at"`
	Entries    []models.JournalEntry `json:"entries"`
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type getPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
	newS3PresignClient    = func(c *s3.Client) getPresigner { return s3.NewPresignClient(c) }
)

// newStorage builds the bucket clients. Swapped in tests.
var newStorage = func(ctx context.Context, cfg *config.Config) (objectPutter, getPresigner, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return client, newS3PresignClient(client), nil
}

// Archiver produces journal exports.
type Archiver struct {
	entries EntryLister
	cfg     *config.Config
	log     logging.Logger
	now     func() time.Time
}

func NewArchiver(entries EntryLister, cfg *config.Config, log logging.Logger) *Archiver {
	return &Archiver{
		entries: entries,
		cfg:     cfg,
		log:     log.With("module", "archive"),
		now:     time.Now,
	}
}

// Enabled reports whether Upload can be used.
func (a *Archiver) Enabled() bool {
	return a.cfg.ArchiveEnabled()
}

// Export renders every entry of userID as an indented JSON document.
func (a *Archiver) Export(ctx context.Context, userID string) ([]byte, error) {
	entries, err := a.entries.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc := Document{
		UserID:     userID,
		ExportedAt: a.now().UTC(),
		Entries:    entries,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode archive: %v", common.ErrorInternal, err)
	}
	return data, nil
}

// StorageKey returns the object key for an archive of userID taken at t.
func StorageKey(userID string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("users/%s/%04d/%02d/%02d/%s.json", userID, t.Year(), int(t.Month()), t.Day(), uuid.New())
}

// Upload stores a fresh export in the bucket and returns a presigned GET
// URL valid for PresignTTL.
func (a *Archiver) Upload(ctx context.Context, userID string) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("%w: object storage is not configured", common.ErrConfiguration)
	}

	data, err := a.Export(ctx, userID)
	if err != nil {
		return "", err
	}

	putter, presigner, err := newStorage(ctx, a.cfg)
	if err != nil {
		a.log.Error(ctx, "s3 client init failed", "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrServiceUnavailable, err)
	}

	bucket := a.cfg.S3Bucket
	key := StorageKey(userID, a.now())

	_, err = putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		a.log.Error(ctx, "archive upload failed", "key", key, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrServiceUnavailable, err)
	}

	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignTTL))
	if err != nil {
		a.log.Error(ctx, "archive presign failed", "key", key, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrServiceUnavailable, err)
	}

	a.log.Info(ctx, "archive uploaded", "user_id", userID, "key", key, "bytes", len(data))
	return req.URL, nil
}
