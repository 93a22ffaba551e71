package source

import (
	"context"
	stderrors "errors"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/ajitpratap0/csvtype/pkg/errors"
)

// S3API is the subset of the S3 client used by S3Backend.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Backend reads s3://bucket/key objects. The client is created on first
// use from the default AWS credential chain.
type S3Backend struct {
	once   sync.Once
	client S3API
	err    error
}

// NewS3Backend returns a backend using the default AWS configuration.
func NewS3Backend() *S3Backend {
	return &S3Backend{}
}

// NewS3BackendWithClient returns a backend using client.
func NewS3BackendWithClient(client S3API) *S3Backend {
	b := &S3Backend{client: client}
	b.once.Do(func() {})
	return b
}

func (b *S3Backend) init(ctx context.Context) error {
	b.once.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			b.err = errors.Wrap(err, errors.ErrorTypeSourceNotFound, "failed to load AWS configuration")
			return
		}
		b.client = s3.NewFromConfig(cfg)
	})
	return b.err
}

// Stat implements Backend.
func (b *S3Backend) Stat(ctx context.Context, loc Location) (Info, error) {
	if err := b.init(ctx); err != nil {
		return Info{}, err
	}
	out, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return Info{}, s3Error(err, loc, "failed to stat S3 object")
	}
	return Info{Location: loc, Size: aws.ToInt64(out.ContentLength)}, nil
}

// Open implements Backend.
func (b *S3Backend) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	if err := b.init(ctx); err != nil {
		return nil, err
	}
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, s3Error(err, loc, "failed to open S3 object")
	}
	return out.Body, nil
}

// s3AccessDenied lists the error codes S3 returns when the caller may not
// read an object. HeadObject has no body, so a 403 surfaces as "Forbidden".
var s3AccessDenied = map[string]bool{
	"AccessDenied":          true,
	"Forbidden":             true,
	"AllAccessDisabled":     true,
	"InvalidAccessKeyId":    true,
	"SignatureDoesNotMatch": true,
}

func s3Error(err error, loc Location, msg string) error {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	var apiErr smithy.APIError
	errType := errors.ErrorTypeFile
	switch {
	case stderrors.As(err, &notFound), stderrors.As(err, &noSuchKey), stderrors.As(err, &noSuchBucket):
		errType = errors.ErrorTypeSourceNotFound
	case stderrors.As(err, &apiErr) && s3AccessDenied[apiErr.ErrorCode()]:
		errType = errors.ErrorTypeSourceNotFound
	}
	return errors.Wrap(err, errType, msg).
		WithDetail("bucket", loc.Bucket).
		WithDetail("key", loc.Key)
}
