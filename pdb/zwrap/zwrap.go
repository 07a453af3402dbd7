// Package zwrap takes a file pointer and optionally wraps it so upon
// calling Close, the decompressor will be closed, followed by the
// underlying file.
// It also has the two helpers we need on the way out and in:
// GzipFile for results we keep and Bunzip2 for the HSSP archives.

package zwrap

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ZRdr reads through a decompressor if there is one, otherwise
// straight from the source.
type ZRdr struct {
	fp   io.ReadCloser
	zrdr io.Reader
	gz   *gzip.Reader // only set for gzip, since bzip2 has no Close
}

// Close closes the decompressor, then the underlying backing readCloser.
func (zr *ZRdr) Close() error {
	var errs []error
	if zr.gz != nil {
		errs = append(errs, zr.gz.Close())
	}
	errs = append(errs, zr.fp.Close())
	return errors.Join(errs...)
}

// Read makes sure we read from the compressed stream and
// not the underlying file stream.
func (zr *ZRdr) Read(p []byte) (int, error) {
	if zr.zrdr != nil {
		return zr.zrdr.Read(p)
	}
	return zr.fp.Read(p)
}

// Wrap takes a gzipped source and wraps it so the correct Close and
// Read will be called. An error means it was not gzip.
func Wrap(fp io.ReadCloser) (*ZRdr, error) {
	gz, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	return &ZRdr{fp: fp, zrdr: gz, gz: gz}, nil
}

// WrapBz2 wraps a bzip2 source. bzip2 streams are only checked when
// you read them, so this cannot fail.
func WrapBz2(fp io.ReadCloser) *ZRdr {
	return &ZRdr{fp: fp, zrdr: bzip2.NewReader(fp)}
}

// ReadSeekCloser does not seem to be in the standard library
type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// WrapMaybe will decide if the underlying stream is gzipped
// and wrap the file pointer if necessary.
// If you pass in something which can seek, you get back something
// which cannot. This is the price of reading from a compressed reader.
func WrapMaybe(fpIn ReadSeekCloser) (*ZRdr, error) {
	if out, err := Wrap(fpIn); err == nil {
		return out, nil
	}
	_, err := fpIn.Seek(0, io.SeekStart)
	return &ZRdr{fp: fpIn}, err
}

// OpenMaybe opens a file and passes it through WrapMaybe. Names ending
// in .bz2 are read with bzip2.
func OpenMaybe(fname string) (*ZRdr, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(fname, ".bz2") {
		return WrapBz2(fp), nil
	}
	zr, err := WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	return zr, nil
}

// Bunzip2 decompresses the file src into dst, overwriting dst.
func Bunzip2(src, dst string) (err error) {
	fp, err := os.Open(src)
	if err != nil {
		return err
	}
	zr := WrapBz2(fp)
	defer zr.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.Close(); err == nil {
			err = e
		}
	}()
	if _, err = io.Copy(out, zr); err != nil {
		return fmt.Errorf("decompressing %s: %w", src, err)
	}
	return nil
}

// GzipFile compresses fname to fname.gz and removes fname.
// It returns the new name.
func GzipFile(fname string) (string, error) {
	gzname := fname + ".gz"
	in, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	defer in.Close()
	out, err := os.Create(gzname)
	if err != nil {
		return "", err
	}
	zw := gzip.NewWriter(out)
	_, err = io.Copy(zw, in)
	err = errors.Join(err, zw.Close(), out.Close())
	if err != nil {
		os.Remove(gzname)
		return "", fmt.Errorf("gzipping %s: %w", fname, err)
	}
	in.Close()
	if err := os.Remove(fname); err != nil {
		return "", err
	}
	return gzname, nil
}
