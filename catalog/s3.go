package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/poiesic/stylematch/core"
)

// S3Client is the subset of the S3 API used by S3Source.
type S3Client interface {
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
}

// S3Config locates the remote catalog object.
type S3Config struct {
	Bucket         string `env:"STYLEMATCH_S3_BUCKET"`
	Key            string `env:"STYLEMATCH_S3_KEY"`
	Region         string `env:"STYLEMATCH_S3_REGION"`
	AccessKeyID    string `env:"STYLEMATCH_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"STYLEMATCH_S3_SECRET_KEY"`
	Endpoint       string `env:"STYLEMATCH_S3_ENDPOINT"` // MinIO and other S3-compatible services
	ForcePathStyle bool   `env:"STYLEMATCH_S3_FORCE_PATH_STYLE"`
}

// Enabled reports whether enough fields are set to reach a bucket.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.Key != ""
}

// S3Option configures an S3Source.
type S3Option func(*s3Options)

type s3Options struct {
	client          S3Client
	s3ClientOptions []func(*s3aws.Options)
}

// WithS3Client supplies a pre-built client, usually a test double.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) {
		o.client = client
	}
}

// WithS3ClientOption adds an option applied when the client is created.
func WithS3ClientOption(option func(*s3aws.Options)) S3Option {
	return func(o *s3Options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// S3Source reads and writes a catalog CSV stored as a single S3 object.
type S3Source struct {
	client S3Client
	bucket string
	key    string
}

// NewS3Source creates a source for cfg. Static credentials are used when both
// keys are set; otherwise the default AWS credential chain applies.
func NewS3Source(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, ErrInvalidS3Config)
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("%w: loading AWS config: %w", core.ErrConfiguration, err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(o *s3aws.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
			for _, opt := range options.s3ClientOptions {
				opt(o)
			}
		})
	}

	return &S3Source{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

// Location returns the object as an s3:// URL.
func (s *S3Source) Location() string {
	return "s3://" + s.bucket + "/" + s.key
}

// Open fetches the catalog object. The caller closes the returned reader.
// A missing object or bucket is reported as ErrCatalogUnavailable.
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, classifyS3Error(s.Location(), err)
	}
	return out.Body, nil
}

// Download copies the catalog object to w.
func (s *S3Source) Download(ctx context.Context, w io.Writer) (int64, error) {
	body, err := s.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("%w: reading %s: %w", core.ErrTransientService, s.Location(), err)
	}
	return n, nil
}

// Upload writes items as CSV to the catalog object.
func (s *S3Source) Upload(ctx context.Context, items []core.CatalogItem) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, items); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String("text/csv"),
	})
	if err != nil {
		return classifyS3Error(s.Location(), err)
	}
	return nil
}

func classifyS3Error(location string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s: %w", ErrCatalogUnavailable, location, err)
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %s: %w", ErrCatalogUnavailable, location, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %s: %w", ErrCatalogUnavailable, location, err)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %s: %w", core.ErrConfiguration, location, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", core.ErrTransientService, location, err)
}
