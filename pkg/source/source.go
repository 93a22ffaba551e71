// Package source locates and opens the delimited file to scan. Inputs are
// addressed by URI: a plain path or file:// URI for local files, s3:// for
// Amazon S3 and gs:// for Google Cloud Storage. Compressed inputs are
// decoded transparently.
package source

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/ajitpratap0/csvtype/pkg/compression"
	"github.com/ajitpratap0/csvtype/pkg/errors"
)

// Location is a parsed input URI.
type Location struct {
	// Raw is the URI as given.
	Raw string
	// Scheme is "file", "s3" or "gs".
	Scheme string
	// Bucket is set for object stores.
	Bucket string
	// Key is the object key, or the local path for files.
	Key string
}

// Base returns the last path element of the location.
func (l Location) Base() string {
	return path.Base(l.Key)
}

// IsLocal reports whether the location is on the local filesystem.
func (l Location) IsLocal() bool {
	return l.Scheme == SchemeFile
}

// Supported schemes.
const (
	SchemeFile = "file"
	SchemeS3   = "s3"
	SchemeGCS  = "gs"
)

// Info describes an existing input.
type Info struct {
	Location Location
	Size     int64
}

// Backend reads objects of one scheme.
type Backend interface {
	// Stat returns an ErrorTypeSourceNotFound error when the object does not exist.
	Stat(ctx context.Context, loc Location) (Info, error)
	Open(ctx context.Context, loc Location) (io.ReadCloser, error)
}

// Parse splits a URI into its location parts.
func Parse(uri string) (Location, error) {
	if strings.TrimSpace(uri) == "" {
		return Location{}, errors.New(errors.ErrorTypeSourceNotFound, "empty input path")
	}

	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return Location{Raw: uri, Scheme: SchemeFile, Key: uri}, nil
	}

	switch scheme {
	case SchemeFile:
		u, err := url.Parse(uri)
		if err != nil {
			return Location{}, errors.Wrap(err, errors.ErrorTypeConfig, "invalid file URI")
		}
		return Location{Raw: uri, Scheme: SchemeFile, Key: u.Path}, nil
	case SchemeS3, SchemeGCS:
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, errors.Newf(errors.ErrorTypeConfig, "%s URI must be %s://bucket/key", scheme, scheme).
				WithDetail("uri", uri)
		}
		return Location{Raw: uri, Scheme: scheme, Bucket: bucket, Key: key}, nil
	default:
		return Location{}, errors.Newf(errors.ErrorTypeConfig, "unsupported input scheme %q", scheme).
			WithDetail("uri", uri)
	}
}

// Resolver dispatches URIs to backends by scheme.
type Resolver struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewResolver returns a resolver with the local, S3 and GCS backends.
func NewResolver() *Resolver {
	r := &Resolver{backends: make(map[string]Backend)}
	r.Register(SchemeFile, LocalBackend{})
	r.Register(SchemeS3, NewS3Backend())
	r.Register(SchemeGCS, NewGCSBackend(""))
	return r
}

// Register installs b for scheme, replacing any previous backend.
func (r *Resolver) Register(scheme string, b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[scheme] = b
}

func (r *Resolver) backend(loc Location) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[loc.Scheme]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeConfig, "no backend for scheme %q", loc.Scheme)
	}
	return b, nil
}

// Stat checks that uri exists.
func (r *Resolver) Stat(ctx context.Context, uri string) (Info, error) {
	loc, err := Parse(uri)
	if err != nil {
		return Info{}, err
	}
	b, err := r.backend(loc)
	if err != nil {
		return Info{}, err
	}
	return b.Stat(ctx, loc)
}

// Open opens uri and decodes it with alg. Pass compression.None with
// auto=true to pick the codec from the extension.
func (r *Resolver) Open(ctx context.Context, uri string, alg compression.Algorithm, auto bool) (io.ReadCloser, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	b, err := r.backend(loc)
	if err != nil {
		return nil, err
	}

	raw, err := b.Open(ctx, loc)
	if err != nil {
		return nil, err
	}

	if auto {
		alg = compression.FromPath(loc.Key)
	}
	dec, err := compression.NewReader(alg, raw)
	if err != nil {
		_ = raw.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to decode input").
			WithDetail("uri", uri).
			WithDetail("compression", string(alg))
	}
	return &stackedReadCloser{Reader: dec, closers: []io.Closer{dec, raw}}, nil
}

// stackedReadCloser closes the decoder before the underlying stream.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var (
	defaultResolver     *Resolver
	defaultResolverOnce sync.Once
)

// Default returns the process-wide resolver.
func Default() *Resolver {
	defaultResolverOnce.Do(func() {
		defaultResolver = NewResolver()
	})
	return defaultResolver
}
