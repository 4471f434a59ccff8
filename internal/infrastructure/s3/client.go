package s3infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/smart-campus-api/internal/config"
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// AvatarStore keeps user avatars in a single bucket.
type AvatarStore struct {
	client  objectAPI
	bucket  string
	baseURL string
}

// NewClient creates an S3 client. When cfg.AWSEndpointURL is set (LocalStack),
// it overrides the endpoint and enables path-style addressing.
func NewClient(awsCfg aws.Config, cfg *config.Config) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		}
	})
}

// NewAvatarStore returns a store for bucket. Object URLs are built from
// baseURL when set, otherwise they are s3:// URIs.
func NewAvatarStore(client objectAPI, bucket, baseURL string) *AvatarStore {
	return &AvatarStore{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload streams an object to S3 under key and returns its URL.
func (s *AvatarStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         r,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=86400"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return s.URL(key), nil
}

func (s *AvatarStore) URL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

// EnsureBucket creates the bucket when it is missing. Used against LocalStack.
func (s *AvatarStore) EnsureBucket(ctx context.Context) {
	_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		slog.Info("created bucket", "bucket", s.bucket)
		return
	}
	var owned *types.BucketAlreadyOwnedByYou
	var exists *types.BucketAlreadyExists
	if !errors.As(err, &owned) && !errors.As(err, &exists) {
		slog.Warn("could not create bucket", "bucket", s.bucket, "err", err)
	}
}
