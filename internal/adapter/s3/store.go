package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	portmedia "github.com/alanyang/folio/internal/port/media"
)

var _ portmedia.Store = (*Store)(nil)

// API is the subset of *s3.Client the store calls.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store keeps media in an S3 bucket. References are publicURL + "/" + key.
type Store struct {
	api       API
	bucket    string
	publicURL string
}

func New(api API, bucket, publicURL string) *Store {
	return &Store{
		api:       api,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// NewClient builds an S3 client from the default credential chain. A custom
// endpoint switches to path-style addressing for S3-compatible servers.
func NewClient(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// DefaultPublicURL is the virtual-hosted bucket URL, or endpoint/bucket for a
// custom endpoint.
func DefaultPublicURL(bucket, region, endpoint string) string {
	if endpoint != "" {
		return strings.TrimRight(endpoint, "/") + "/" + bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}

func (s *Store) Store(ctx context.Context, f portmedia.File, namespace string) (string, error) {
	detected := mimetype.Detect(f.Data)
	ext := detected.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(f.Name))
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = detected.String()
	}

	key := namespace + "/" + uuid.NewString() + ext
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(f.Data),
		ContentLength: aws.Int64(int64(len(f.Data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("putting object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

// Release deletes the object behind ref. S3 deletes are idempotent; references
// that do not point into this bucket are ignored.
func (s *Store) Release(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, s.publicURL+"/")
	if !ok || key == "" {
		return nil
	}
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", key, err)
	}
	return nil
}
