package fasta

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/msatrim/msa"
	"github.com/klauspost/compress/gzip"
)

// GzipSuffix marks files that are read and written gzip-compressed.
const GzipSuffix = ".gz"

func isGzip(path string) bool { return strings.HasSuffix(path, GzipSuffix) }

type reader struct {
	ctx context.Context
	f   file.File
	gz  *gzip.Reader
	r   io.Reader
}

func (r *reader) Read(p []byte) (int, error) { return r.r.Read(p) }

func (r *reader) Close() error {
	var err errors.Once
	if r.gz != nil {
		err.Set(r.gz.Close())
	}
	err.Set(r.f.Close(r.ctx))
	return err.Err()
}

// Open opens path for reading.  Paths ending in GzipSuffix are decompressed.
// The caller must close the result.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "fasta.Open:", path)
	}
	r := &reader{ctx: ctx, f: f, r: f.Reader(ctx)}
	if isGzip(path) {
		if r.gz, err = gzip.NewReader(r.r); err != nil {
			_ = f.Close(ctx)
			return nil, errors.E(err, "fasta.Open:", path)
		}
		r.r = r.gz
	}
	return r, nil
}

type writer struct {
	ctx context.Context
	f   file.File
	buf *bufio.Writer
	gz  *gzip.Writer
	w   io.Writer
}

func (w *writer) Write(p []byte) (int, error) { return w.w.Write(p) }

func (w *writer) Close() error {
	var err errors.Once
	if w.gz != nil {
		err.Set(w.gz.Close())
	}
	err.Set(w.buf.Flush())
	err.Set(w.f.Close(w.ctx))
	return err.Err()
}

// Create creates path for writing.  Paths ending in GzipSuffix are
// compressed.  The file is complete only once the result has been closed
// without error.
func Create(ctx context.Context, path string) (io.WriteCloser, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "fasta.Create:", path)
	}
	w := &writer{ctx: ctx, f: f, buf: bufio.NewWriter(f.Writer(ctx))}
	w.w = w.buf
	if isGzip(path) {
		w.gz = gzip.NewWriter(w.buf)
		w.w = w.gz
	}
	return w, nil
}

// ReadFile reads the alignment stored at path.
func ReadFile(ctx context.Context, path string) (a *msa.Alignment, err error) {
	r, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = errors.E(cerr, "fasta.ReadFile:", path)
		}
	}()
	if a, err = ReadAlignment(r); err != nil {
		return nil, errors.E(err, "fasta.ReadFile:", path)
	}
	return a, nil
}

// WriteFile writes a to path with the given line width.
func WriteFile(ctx context.Context, path string, a *msa.Alignment, lineWidth int) error {
	w, err := Create(ctx, path)
	if err != nil {
		return err
	}
	err = WriteAlignment(w, a, lineWidth)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.E(err, "fasta.WriteFile:", path)
	}
	return nil
}
