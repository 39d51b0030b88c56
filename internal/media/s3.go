package media

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config carries the settings for an S3-compatible media backend.
// Endpoint is optional; set it for R2/minio style providers.
type S3Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
	PublicURL string // base URL the bucket is served from
}

// S3Store persists media in an S3-compatible bucket, for deployments where
// the API instances have no shared disk.
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
	maxSize   int64
}

// NewS3Store builds the S3 client and returns a store writing into the
// configured bucket.
func NewS3Store(ctx context.Context, cfg S3Config, maxSize int64) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
		maxSize:   maxSize,
	}, nil
}

// Save uploads the media blob under a unique key.
func (s *S3Store) Save(ctx context.Context, upload *multipart.FileHeader) (*File, error) {
	data, mediaType, ext, err := inspect(upload, s.maxSize)
	if err != nil {
		return nil, err
	}

	name, err := newFilename(ext)
	if err != nil {
		return nil, err
	}

	contentType := upload.Header.Get("Content-Type")
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("error uploading media to S3: %w", err)
	}

	return &File{
		Filename:  name,
		URL:       s.publicURL + "/" + name,
		MediaType: mediaType,
	}, nil
}

// Remove deletes a stored object. Deleting a missing key succeeds.
func (s *S3Store) Remove(ctx context.Context, filename string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filename),
	})
	return err
}
