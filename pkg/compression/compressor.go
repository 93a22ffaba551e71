// Package compression provides streaming codecs for compressed inputs and
// types files. The codec is normally chosen from the file extension:
//
//	r, err := compression.NewReader(compression.FromPath("data.csv.zst"), f)
//
// Supported algorithms: gzip, zstd, lz4, snappy (framed), s2, xz and bzip2
// (bzip2 is read-only).
package compression

import (
	"compress/bzip2"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// XZ represents xz compression
	XZ Algorithm = "xz"
	// Bzip2 represents bzip2 compression, decode only
	Bzip2 Algorithm = "bzip2"
)

// Level represents compression level, controlling the trade-off between
// compression speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

var extensions = map[string]Algorithm{
	".gz":   Gzip,
	".gzip": Gzip,
	".zst":  Zstd,
	".zstd": Zstd,
	".lz4":  LZ4,
	".sz":   Snappy,
	".s2":   S2,
	".xz":   XZ,
	".bz2":  Bzip2,
}

// FromPath returns the algorithm implied by the extension of p, or None.
// p may be a local path or an object URI.
func FromPath(p string) Algorithm {
	if alg, ok := extensions[strings.ToLower(path.Ext(p))]; ok {
		return alg
	}
	return None
}

// Parse resolves a user supplied algorithm name. "auto" and "" yield ok=false
// so callers can fall back to FromPath.
func Parse(name string) (Algorithm, bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return None, false, nil
	case "none":
		return None, true, nil
	case "gzip", "gz":
		return Gzip, true, nil
	case "zstd", "zst":
		return Zstd, true, nil
	case "lz4":
		return LZ4, true, nil
	case "snappy", "sz":
		return Snappy, true, nil
	case "s2":
		return S2, true, nil
	case "xz":
		return XZ, true, nil
	case "bzip2", "bz2":
		return Bzip2, true, nil
	default:
		return None, false, fmt.Errorf("unsupported compression algorithm: %s", name)
	}
}

// TrimExtension removes a compression extension from p, if present.
func TrimExtension(p string) string {
	if FromPath(p) == None {
		return p
	}
	return strings.TrimSuffix(p, path.Ext(p))
}

// NewReader wraps src with a decoder for alg. Closing the result releases the
// decoder but does not close src.
func NewReader(alg Algorithm, src io.Reader) (io.ReadCloser, error) {
	switch alg {
	case None, "":
		return io.NopCloser(src), nil
	case Gzip:
		r, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return r, nil
	case Zstd:
		dec, err := zstd.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(src)), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(src)), nil
	case S2:
		return io.NopCloser(s2.NewReader(src)), nil
	case XZ:
		r, err := xz.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return io.NopCloser(r), nil
	case Bzip2:
		return io.NopCloser(bzip2.NewReader(src)), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

// NewWriter wraps dst with an encoder for alg. Close flushes the encoder but
// does not close dst.
func NewWriter(alg Algorithm, dst io.Writer, level Level) (io.WriteCloser, error) {
	switch alg {
	case None, "":
		return nopWriteCloser{dst}, nil
	case Gzip:
		w, err := gzip.NewWriterLevel(dst, gzipLevel(level))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip writer: %w", err)
		}
		return w, nil
	case Zstd:
		enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstdLevel(level)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return enc, nil
	case LZ4:
		w := lz4.NewWriter(dst)
		if err := w.Apply(lz4.CompressionLevelOption(lz4Level(level))); err != nil {
			return nil, fmt.Errorf("failed to set lz4 compression level: %w", err)
		}
		return w, nil
	case Snappy:
		return snappy.NewBufferedWriter(dst), nil
	case S2:
		return s2.NewWriter(dst, s2Options(level)...), nil
	case XZ:
		w, err := xz.NewWriter(dst)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		return w, nil
	case Bzip2:
		return nil, fmt.Errorf("bzip2 output is not supported")
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func gzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func zstdLevel(level Level) zstd.EncoderLevel {
	switch {
	case level <= Fastest:
		return zstd.SpeedFastest
	case level >= Best:
		return zstd.SpeedBestCompression
	case level >= Better:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedDefault
	}
}

func lz4Level(level Level) lz4.CompressionLevel {
	switch {
	case level <= Fastest:
		return lz4.Fast
	case level >= Best:
		return lz4.Level9
	case level >= Better:
		return lz4.Level7
	default:
		return lz4.Level5
	}
}

func s2Options(level Level) []s2.WriterOption {
	switch {
	case level >= Best:
		return []s2.WriterOption{s2.WriterBestCompression()}
	case level >= Better:
		return []s2.WriterOption{s2.WriterBetterCompression()}
	default:
		return nil
	}
}
