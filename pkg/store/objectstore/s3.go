package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	Scheme        = "s3"
	DefaultRegion = "us-east-1"
)

// Location addresses one object in a bucket.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return fmt.Sprintf("%s://%s/%s", Scheme, l.Bucket, l.Key)
}

// IsURI reports whether target names an object store location rather than a local path.
func IsURI(target string) bool {
	return strings.HasPrefix(strings.ToLower(target), Scheme+"://")
}

// ParseURI parses s3://bucket/key.
func ParseURI(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("failed to parse object URI: %w", err)
	}
	if !strings.EqualFold(u.Scheme, Scheme) {
		return Location{}, fmt.Errorf("unsupported scheme %q, expected %s://", u.Scheme, Scheme)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" || strings.HasSuffix(key, "/") {
		return Location{}, fmt.Errorf("object URI %q must name a bucket and a key", raw)
	}
	return Location{Bucket: u.Host, Key: key}, nil
}

type Uploader interface {
	Upload(ctx context.Context, loc Location, body []byte, contentType string) error
}

// PutObjectAPI is the part of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Uploader struct {
	client PutObjectAPI
}

func NewS3Uploader(client PutObjectAPI) Uploader {
	return &s3Uploader{client: client}
}

// NewS3UploaderFromProfile builds an uploader from the shared AWS config.
// An empty profile uses the default credential chain.
func NewS3UploaderFromProfile(ctx context.Context, profile, region string) (Uploader, error) {
	cfg, err := LoadConfig(ctx, profile, region)
	if err != nil {
		return nil, err
	}
	return NewS3Uploader(s3.NewFromConfig(*cfg)), nil
}

func LoadConfig(ctx context.Context, profile, region string) (*awssdk.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithDefaultRegion(DefaultRegion),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &awsCfg, nil
}

func (u *s3Uploader) Upload(ctx context.Context, loc Location, body []byte, contentType string) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        awssdk.String(loc.Bucket),
		Key:           awssdk.String(loc.Key),
		Body:          bytes.NewReader(body),
		ContentLength: awssdk.Int64(int64(len(body))),
		ContentType:   awssdk.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", loc, err)
	}
	return nil
}
