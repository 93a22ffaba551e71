package source

import (
	"context"
	stderrors "errors"
	"io"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/ajitpratap0/csvtype/pkg/errors"
)

// GCSBackend reads gs://bucket/object objects.
type GCSBackend struct {
	credentialsFile string

	once   sync.Once
	client *storage.Client
	err    error
}

// NewGCSBackend returns a backend using application default credentials, or
// credentialsFile when it is not empty.
func NewGCSBackend(credentialsFile string) *GCSBackend {
	return &GCSBackend{credentialsFile: credentialsFile}
}

func (b *GCSBackend) init(ctx context.Context) error {
	b.once.Do(func() {
		var opts []option.ClientOption
		if b.credentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(b.credentialsFile))
		}
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			b.err = errors.Wrap(err, errors.ErrorTypeSourceNotFound, "failed to create GCS client")
			return
		}
		b.client = client
	})
	return b.err
}

// Stat implements Backend.
func (b *GCSBackend) Stat(ctx context.Context, loc Location) (Info, error) {
	if err := b.init(ctx); err != nil {
		return Info{}, err
	}
	attrs, err := b.client.Bucket(loc.Bucket).Object(loc.Key).Attrs(ctx)
	if err != nil {
		return Info{}, gcsError(err, loc, "failed to stat GCS object")
	}
	return Info{Location: loc, Size: attrs.Size}, nil
}

// Open implements Backend.
func (b *GCSBackend) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	if err := b.init(ctx); err != nil {
		return nil, err
	}
	r, err := b.client.Bucket(loc.Bucket).Object(loc.Key).NewReader(ctx)
	if err != nil {
		return nil, gcsError(err, loc, "failed to open GCS object")
	}
	return r, nil
}

func gcsError(err error, loc Location, msg string) error {
	var apiErr *googleapi.Error
	errType := errors.ErrorTypeFile
	switch {
	case stderrors.Is(err, storage.ErrObjectNotExist), stderrors.Is(err, storage.ErrBucketNotExist):
		errType = errors.ErrorTypeSourceNotFound
	case stderrors.As(err, &apiErr) && (apiErr.Code == 401 || apiErr.Code == 403):
		errType = errors.ErrorTypeSourceNotFound
	}
	return errors.Wrap(err, errType, msg).
		WithDetail("bucket", loc.Bucket).
		WithDetail("object", loc.Key)
}
