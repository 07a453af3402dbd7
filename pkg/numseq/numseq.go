// 3 Aug 2020

// Package numseq counts the sequences in a fasta file without parsing
// it. Every '>' is taken as the start of a sequence.
package numseq

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/andrew-torda/consprep/pdb/zwrap"
	"github.com/edsrzf/mmap-go"
)

var cmmt = []byte(">")

// ByMmap maps the file into memory and counts.
func ByMmap(fname string) (int, error) {
	var fp *os.File
	var err error
	var mm mmap.MMap
	if fp, err = os.Open(fname); err != nil {
		return 0, err
	}
	defer fp.Close()
	if fi, err := fp.Stat(); err != nil {
		return 0, err
	} else if fi.Size() == 0 {
		return 0, nil // cannot map an empty file
	}
	if mm, err = mmap.Map(fp, mmap.RDONLY, 0); err != nil {
		return 0, err
	}
	defer mm.Unmap()
	return bytes.Count(mm, cmmt), nil
}

// ByReading counts from a stream, a buffer at a time.
func ByReading(rdr io.Reader) (int, error) {
	const bsize = 64 * 1024
	var buf [bsize]byte
	count := 0
	for {
		n, err := rdr.Read(buf[:])
		count += bytes.Count(buf[:n], cmmt)
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, err
		}
	}
}

// Count picks a method. Compressed files are read through zwrap,
// anything else is mapped.
func Count(fname string) (int, error) {
	if !strings.HasSuffix(fname, ".gz") && !strings.HasSuffix(fname, ".bz2") {
		return ByMmap(fname)
	}
	zr, err := zwrap.OpenMaybe(fname)
	if err != nil {
		return 0, err
	}
	defer zr.Close()
	return ByReading(zr)
}
