// 16 Oct 2026

// Package fasta writes the chains of a structure as fasta files and
// reads fasta back in, using the biogo reader. One file per chain, each with a header like
//
//	>1ABC:A
//
// and the sequence broken into lines of 80 characters.
package fasta

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/biogo/biogo/alphabet"
	bfasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"

	"github.com/andrew-torda/consprep/pdb"
	"github.com/andrew-torda/consprep/pdb/cmmn"
	"github.com/andrew-torda/consprep/pkg/common"
)

const cmmt_char byte = '>' // and this introduces comments in fasta format

// LineWidth is where sequence lines are broken.
const LineWidth = 80

// Entry is one sequence. Cmmt is the header without the ">".
type Entry struct {
	Cmmt string
	Seq  []byte
}

// Write writes one entry, breaking lines at width characters.
func (e Entry) Write(w io.Writer, width int) error {
	if _, err := fmt.Fprintf(w, "%c%s\n", cmmt_char, e.Cmmt); err != nil {
		return err
	}
	s := e.Seq
	for ; len(s) > width; s = s[width:] {
		if _, err := fmt.Fprintf(w, "%s\n", s[:width]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s\n", s)
	return err
}

// header builds the header for a chain of a structure.
func header(structID, chainID string) string { return structID + ":" + chainID }

// Chain2Fasta makes an entry for one chain. A chain without residues
// gives false.
func Chain2Fasta(structID string, c cmmn.Chain) (Entry, bool) {
	if c.Empty() {
		return Entry{}, false
	}
	return Entry{Cmmt: header(structID, c.ChainID), Seq: c.Seq}, true
}

// Reader reads fasta files, one entry at a time.
type Reader struct {
	r *bfasta.Reader
}

// NewReader reads from rdr. Sequences may be protein or alignments
// with gaps. Nothing is checked against an alphabet.
func NewReader(rdr io.Reader) *Reader {
	template := &linear.Seq{Annotation: seq.Annotation{Alpha: alphabet.Protein}}
	return &Reader{r: bfasta.NewReader(rdr, template)}
}

// Read returns the next entry, or io.EOF when there are no more.
func (r *Reader) Read() (Entry, error) {
	s, err := r.r.Read()
	if err != nil && (err != io.EOF || s == nil) {
		return Entry{}, err
	}
	lin, ok := s.(*linear.Seq)
	if !ok || lin == nil {
		return Entry{}, io.EOF
	}
	e := Entry{Cmmt: lin.ID, Seq: make([]byte, len(lin.Seq))}
	if lin.Desc != "" {
		e.Cmmt += " " + lin.Desc
	}
	for i, l := range lin.Seq {
		e.Seq[i] = byte(l)
	}
	return e, nil
}

// writeEntry puts one entry in a new file.
func writeEntry(fname string, e Entry) error {
	fp, err := os.Create(fname)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fp)
	err = errors.Join(e.Write(w, LineWidth), w.Flush(), fp.Close())
	if err != nil {
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	return nil
}

// FileToFasta reads one PDB file and writes a fasta file for each chain
// next to it. 1abc.pdb with chains A and B gives 1abcA.pdb.fasta and
// 1abcB.pdb.fasta. It returns the names of the new files.
func FileToFasta(fname string, lg *log.Logger) ([]string, error) {
	s, err := pdb.ReadStructure(fname, lg)
	if err != nil {
		return nil, err
	}
	base, ext := pdb.BaseName(fname)
	var written []string
	for _, c := range s.Chains {
		e, ok := Chain2Fasta(s.ID, c)
		if !ok {
			common.Quiet(lg).Println("chain", c.ChainID, "of", fname, "has no residues, skipping")
			continue
		}
		out := base + c.ChainID + ext + ".fasta"
		if err := writeEntry(out, e); err != nil {
			return written, err
		}
		if abs, err := filepath.Abs(out); err == nil {
			out = abs
		}
		written = append(written, out)
	}
	return written, nil
}

// DirToFasta calls FileToFasta on every PDB file in a directory, in
// name order. It stops at the first error.
func DirToFasta(dir string, lg *log.Logger) ([]string, error) {
	dents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(dents))
	for _, d := range dents {
		if !d.IsDir() && pdb.IsPDBName(d.Name()) {
			names = append(names, d.Name())
		}
	}
	sort.Strings(names)
	var written []string
	for _, n := range names {
		w, err := FileToFasta(filepath.Join(dir, n), lg)
		written = append(written, w...)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
