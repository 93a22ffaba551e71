package source

import (
	"context"
	"io"
	"os"

	"github.com/ajitpratap0/csvtype/pkg/errors"
)

// LocalBackend reads from the local filesystem.
type LocalBackend struct{}

// Stat implements Backend.
func (LocalBackend) Stat(_ context.Context, loc Location) (Info, error) {
	fi, err := os.Stat(loc.Key)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, errors.Wrap(err, errors.ErrorTypeSourceNotFound, "input file does not exist").
				WithDetail("path", loc.Key)
		}
		return Info{}, errors.Wrap(err, errors.ErrorTypeSourceNotFound, "input file is not accessible").
			WithDetail("path", loc.Key)
	}
	if fi.IsDir() {
		return Info{}, errors.New(errors.ErrorTypeSourceNotFound, "input path is a directory").
			WithDetail("path", loc.Key)
	}
	return Info{Location: loc, Size: fi.Size()}, nil
}

// Open implements Backend.
func (LocalBackend) Open(_ context.Context, loc Location) (io.ReadCloser, error) {
	f, err := os.Open(loc.Key) //nolint:gosec // path is supplied by the caller
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSourceNotFound, "failed to open input file").
			WithDetail("path", loc.Key)
	}
	return f, nil
}
