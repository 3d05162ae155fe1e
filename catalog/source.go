package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/stylematch/core"
)

// Loader resolves the catalog from the first source that has it: the local
// file, then S3 (caching the object at path), then an optional sample.
type Loader struct {
	path       string
	remote     *S3Source
	sampleSize int
	sampleDims int
	readOpts   []ReadOption
	logger     *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRemote sets the S3 object downloaded when the local file is missing.
func WithRemote(src *S3Source) LoaderOption {
	return func(l *Loader) {
		l.remote = src
	}
}

// WithSampleFallback generates a Sample catalog of size items when no other
// source is available. dims of 0 leaves the sample unembedded.
func WithSampleFallback(size, dims int) LoaderOption {
	return func(l *Loader) {
		l.sampleSize = size
		l.sampleDims = dims
	}
}

// WithReadOptions passes options to the CSV reader.
func WithReadOptions(opts ...ReadOption) LoaderOption {
	return func(l *Loader) {
		l.readOpts = append(l.readOpts, opts...)
	}
}

// WithLoaderLogger sets the logger.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader reading path.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		path:   path,
		logger: slog.Default().With("component", "catalog"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the catalog, or ErrCatalogUnavailable when every source is exhausted.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	cat, err := l.readFile()
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if l.remote != nil {
		l.logger.Info("catalog not found locally, downloading", "path", l.path, "source", l.remote.Location())
		err = l.fetch(ctx)
		if err == nil {
			return l.readFile()
		}
		if !errors.Is(err, ErrCatalogUnavailable) {
			return nil, err
		}
		l.logger.Warn("remote catalog unavailable", "source", l.remote.Location(), "error", err)
	}

	if l.sampleSize > 0 {
		l.logger.Warn("using generated sample catalog", "items", l.sampleSize, "dimensions", l.sampleDims)
		return New(Sample(l.sampleSize, l.sampleDims, 1))
	}

	return nil, fmt.Errorf("%w: %s", ErrCatalogUnavailable, l.path)
}

func (l *Loader) readFile() (*Catalog, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cat, err := ReadCSV(f, l.readOpts...)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", l.path, err)
	}
	l.logger.Info("catalog loaded", "path", l.path, "items", cat.Len(), "embedded", cat.Embedded())
	return cat, nil
}

// fetch downloads the remote object next to path and renames it into place
// so a failed download never leaves a partial catalog behind.
func (l *Loader) fetch(ctx context.Context) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", core.ErrConfiguration, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	n, err := l.remote.Download(ctx, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return err
	}
	l.logger.Info("catalog downloaded", "path", l.path, "bytes", n)
	return nil
}

// Save writes items to path as CSV, replacing any existing file.
func Save(path string, items []core.CatalogItem) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	err = WriteCSV(tmp, items)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing catalog %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
