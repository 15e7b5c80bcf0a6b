// Package publish uploads rendered reports to object storage.
package publish

import (
	"bytes"
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const DefaultRegion = "us-east-1"

type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Body        []byte
}

type Uploader interface {
	Upload(ctx context.Context, obj Object) error
}

// PutObjectAPI is the part of the s3 client used for uploads
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Uploader struct {
	client PutObjectAPI
}

func NewS3Uploader(client PutObjectAPI) Uploader {
	return &s3Uploader{client: client}
}

// LoadS3Uploader builds an uploader from the shared AWS configuration.
// An empty profile uses the default credential chain.
func LoadS3Uploader(ctx context.Context, profile string) (Uploader, error) {
	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(DefaultRegion)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return NewS3Uploader(s3.NewFromConfig(awsCfg)), nil
}

func (u *s3Uploader) Upload(ctx context.Context, obj Object) error {
	if obj.Bucket == "" || obj.Key == "" {
		return fmt.Errorf("bucket and key are required, got bucket=%q key=%q", obj.Bucket, obj.Key)
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        awssdk.String(obj.Bucket),
		Key:           awssdk.String(obj.Key),
		Body:          bytes.NewReader(obj.Body),
		ContentLength: awssdk.Int64(int64(len(obj.Body))),
		ContentType:   awssdk.String(obj.ContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", obj.Bucket, obj.Key, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("bucket", obj.Bucket).
		Str("key", obj.Key).
		Int("bytes", len(obj.Body)).
		Msg("uploaded report")
	return nil
}
