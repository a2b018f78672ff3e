// Package s3 archives CSV exports in an S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const csvContentType = "text/csv; charset=utf-8"

// Config holds the bucket settings. Credentials come from the default AWS
// chain (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, shared config).
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional; enables a custom endpoint such as MinIO
	PathStyle bool
	Prefix    string
}

// Archive implements pipeline.Archive on a single bucket.
type Archive struct {
	client *s3.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// New creates an Archive from cfg.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Archive, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newArchive(client, cfg, logger), nil
}

func newArchive(client *s3.Client, cfg Config, logger *slog.Logger) *Archive {
	return &Archive{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, logger: logger}
}

// Put uploads body as prefix+name and returns its s3:// location. An
// existing object with the same name is replaced.
func (a *Archive) Put(ctx context.Context, name string, body []byte) (string, error) {
	key := a.prefix + name
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(csvContentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	location := fmt.Sprintf("s3://%s/%s", a.bucket, key)
	a.logger.Debug("object stored", "location", location, "bytes", len(body))
	return location, nil
}
