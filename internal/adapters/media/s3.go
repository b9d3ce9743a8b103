package media

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/example/fieldbook/internal/ports/secondary"
)

// S3Store implements secondary.MediaStore on an S3-compatible backend
// (AWS S3 or MinIO). Single bucket; filenames map to object keys under
// the configured prefix.
type S3Store struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
	prefix   string
}

// NewS3 creates an S3 media store from Options. Credentials come from
// the default AWS chain.
func NewS3(ctx context.Context, opts Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.PathStyle {
			o.UsePathStyle = true
		}
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return &S3Store{
		client:   client,
		bucket:   opts.Bucket,
		region:   region,
		endpoint: strings.TrimSuffix(opts.Endpoint, "/"),
		prefix:   opts.Prefix,
	}, nil
}

// Upload stores content under the given filename and returns the object
// key and its URL.
func (s *S3Store) Upload(ctx context.Context, content []byte, filename, contentType string) (*secondary.MediaObject, error) {
	name, err := sanitizeName(filename)
	if err != nil {
		return nil, err
	}
	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return &secondary.MediaObject{
		ID:   key,
		Link: s.objectURL(key),
	}, nil
}

// objectURL builds a browsable URL for the stored object. With a custom
// endpoint the path-style form is used; otherwise the virtual-hosted
// AWS form.
func (s *S3Store) objectURL(key string) string {
	escaped := escapeKey(key)
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// Ensure S3Store implements the interface
var _ secondary.MediaStore = (*S3Store)(nil)
