package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/divluffy/lightforgaza/config"
)

// ObjectStore wraps the S3-compatible client used for campaign images and
// avatars (Cloudflare R2).
type ObjectStore struct {
	client *s3.Client
	bucket string
}

// NewObjectStore builds an ObjectStore from storage configuration.
func NewObjectStore(ctx context.Context, sc config.Storage) (*ObjectStore, error) {
	if sc.AccountID == "" || sc.AccessKeyID == "" || sc.SecretAccessKey == "" || sc.Bucket == "" {
		return nil, fmt.Errorf("object storage is not configured")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"), // Required by SDK, R2 ignores this
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.AccessKeyID, sc.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", sc.AccountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &ObjectStore{client: client, bucket: sc.Bucket}, nil
}

// Upload stores a file under objectName, inferring content type from the
// extension.
func (o *ObjectStore) Upload(ctx context.Context, objectName string, file io.Reader) error {
	contentType := mime.TypeByExtension(path.Ext(objectName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(objectName),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("object upload failed: %w", err)
	}
	return nil
}

// SignedURL returns a presigned GET URL for the given object.
func (o *ObjectStore) SignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	presigner := s3.NewPresignClient(o.client)
	presigned, err := presigner.PresignGetObject(ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(o.bucket),
			Key:    aws.String(objectName),
		},
		func(po *s3.PresignOptions) {
			po.Expires = expiry
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign object URL: %w", err)
	}
	return presigned.URL, nil
}

// Delete removes an object. Missing objects are not treated as an error by S3.
func (o *ObjectStore) Delete(ctx context.Context, objectName string) error {
	_, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return fmt.Errorf("object delete failed: %w", err)
	}
	return nil
}
