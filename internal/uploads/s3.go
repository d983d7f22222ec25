package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goliatone/go-site-cms/internal/logging"
	"github.com/goliatone/go-site-cms/pkg/interfaces"
)

// S3Config configures the S3 (or S3 compatible) backend.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint targets S3 compatible services such as MinIO.
	Endpoint     string
	UsePathStyle bool
	// KeyPrefix is prepended to every object key.
	KeyPrefix string
	// URLPrefix is the public base returned paths are built on, e.g. a CDN
	// origin or /media.
	URLPrefix string
	Policy    Policy
}

// ObjectUploader is the subset of manager.Uploader used by S3Store.
type ObjectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Store uploads objects to a bucket.
type S3Store struct {
	cfg      S3Config
	uploader ObjectUploader
	now      func() time.Time
	suffix   func() string
	logger   interfaces.Logger
}

// S3Option customizes an S3Store.
type S3Option func(*S3Store)

// WithUploader replaces the AWS uploader, mainly for tests.
func WithUploader(uploader ObjectUploader) S3Option {
	return func(s *S3Store) {
		if uploader != nil {
			s.uploader = uploader
		}
	}
}

func WithS3Clock(now func() time.Time) S3Option {
	return func(s *S3Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithS3Suffix(suffix func() string) S3Option {
	return func(s *S3Store) {
		if suffix != nil {
			s.suffix = suffix
		}
	}
}

func WithS3Logger(logger interfaces.Logger) S3Option {
	return func(s *S3Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewS3Store builds an S3 client from cfg unless WithUploader supplies one.
func NewS3Store(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("uploads: s3 bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	store := &S3Store{
		cfg:    cfg,
		now:    time.Now,
		suffix: randomSuffix,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.uploader != nil {
		return store, nil
	}

	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store.uploader = manager.NewUploader(client)
	return store, nil
}

func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	if cfg.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...any) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					SigningRegion:     cfg.Region,
					HostnameImmutable: true,
				}, nil
			})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("uploads: load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

func (s *S3Store) Put(ctx context.Context, filename string, body io.Reader) (string, error) {
	ext, err := s.cfg.Policy.extension(filename)
	if err != nil {
		return "", err
	}

	key := ObjectKey(s.now(), filename, s.suffix())
	if prefix := strings.Trim(s.cfg.KeyPrefix, "/"); prefix != "" {
		key = path.Join(prefix, key)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   s.cfg.Policy.limit(body),
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("uploads: put %s: %w", key, err)
	}

	publicPath := s.publicPath(key)
	s.logger.Info("uploads.put", "backend", "s3", "bucket", s.cfg.Bucket, "key", key, "path", publicPath)
	return publicPath, nil
}

func (s *S3Store) publicPath(key string) string {
	prefix := strings.TrimSpace(s.cfg.URLPrefix)
	if strings.HasPrefix(prefix, "http://") || strings.HasPrefix(prefix, "https://") {
		return strings.TrimRight(prefix, "/") + "/" + key
	}
	if prefix == "" {
		prefix = "/" + s.cfg.Bucket
	}
	return PublicPath(prefix, key)
}
