// 14 Oct 2026

// Package scoretable reads the per residue conservation scores written
// by the MSA to conservation script (.hom files).
//
// Two layouts are understood. The JSD script writes
//
//	# comment
//	0	0.53142	MMMM-M
//
// which is column number, score and the alignment column. The first
// character of the column is the query residue. If it is a gap, the
// alignment column is not a residue of the query and is skipped.
// Simpler tools write one number per line and nothing else. Then the
// table has no residue symbols until SetRef gives it some.
package scoretable

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/andrew-torda/consprep/pdb/zwrap"
	"github.com/andrew-torda/consprep/pkg/common"
)

// NoSym marks a residue whose symbol we do not know.
const NoSym byte = 0

// Residue is one line of a score file.
type Residue struct {
	Sym   byte
	Score float64
}

// Table is one score file. Key is the chain name given by the HSSP
// side of things, which need not be the name in the PDB file.
type Table struct {
	Key string
	Res []Residue
}

// Len is the number of residues.
func (t *Table) Len() int { return len(t.Res) }

// HasSyms is true if we know the residue symbols.
func (t *Table) HasSyms() bool {
	for _, r := range t.Res {
		if r.Sym == NoSym {
			return false
		}
	}
	return len(t.Res) > 0
}

// Seq returns the residue symbols as a sequence. Unknown symbols
// come back as 'X'.
func (t *Table) Seq() []byte {
	s := make([]byte, len(t.Res))
	for i, r := range t.Res {
		if s[i] = r.Sym; s[i] == NoSym {
			s[i] = 'X'
		}
	}
	return s
}

// ParseError says what was wrong with a score file and where.
// Line is zero if the problem is not on one line.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("%s line %d: %s", e.File, e.Line, e.Msg)
}

// maxLine is the longest line we read. A JSD line carries a whole
// alignment column, one character per sequence.
const maxLine = 64 * 1024 * 1024

// layout of a file, found from the first line with numbers on it
const (
	unset = iota
	plain
	jsd
)

// parseLine works on one line which is not empty and not a comment.
// It says if the line carries a residue.
func parseLine(fields []string, layout int) (Residue, bool, error) {
	var r Residue
	var s string
	switch layout {
	case plain:
		if len(fields) != 1 {
			return r, false, fmt.Errorf("expected one number, got %d fields", len(fields))
		}
		s = fields[0]
	case jsd:
		if len(fields) < 3 {
			return r, false, fmt.Errorf("expected number, score, column, got %d fields", len(fields))
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			return r, false, fmt.Errorf("bad column number \"%s\"", fields[0])
		}
		s = fields[1]
		r.Sym = fields[2][0]
		if r.Sym == common.GapChar {
			return r, false, nil
		}
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return r, false, fmt.Errorf("bad score \"%s\"", s)
	}
	if x < 0 { // the JSD script writes -1000 for columns with too many gaps
		x = 0
	}
	r.Score = x
	return r, true, nil
}

// Parse reads a score file from rdr. name is only used in error messages.
func Parse(rdr io.Reader, key, name string) (*Table, error) {
	t := &Table{Key: key}
	layout := unset
	scnnr := bufio.NewScanner(rdr)
	scnnr.Buffer(make([]byte, 0, 64*1024), maxLine)
	for nline := 1; scnnr.Scan(); nline++ {
		line := strings.TrimSpace(scnnr.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if layout == unset {
			if len(fields) == 1 {
				layout = plain
			} else {
				layout = jsd
			}
		}
		r, ok, err := parseLine(fields, layout)
		if err != nil {
			return nil, &ParseError{File: name, Line: nline, Msg: err.Error()}
		}
		if ok {
			t.Res = append(t.Res, r)
		}
	}
	if err := scnnr.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return t, nil
}

// ReadFile reads a score file. Plain files are memory mapped. Files
// ending in .gz go through the decompressor.
func ReadFile(fname, key string) (*Table, error) {
	if strings.HasSuffix(fname, ".gz") {
		zr, err := zwrap.OpenMaybe(fname)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return Parse(zr, key, fname)
	}
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 { // cannot map an empty file
		return &Table{Key: key}, nil
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", fname, err)
	}
	defer mm.Unmap()
	return Parse(bytes.NewReader(mm), key, fname)
}

// SetRef checks the table against the sequence that was fed to the
// alignment tool (without gaps). The lengths must agree. If the table
// had no symbols, it takes them from ref.
func (t *Table) SetRef(ref []byte, name string) error {
	if len(ref) != len(t.Res) {
		msg := fmt.Sprintf("%d scores, but reference sequence has %d residues", len(t.Res), len(ref))
		return &ParseError{File: name, Msg: msg}
	}
	for i := range t.Res {
		if t.Res[i].Sym == NoSym {
			t.Res[i].Sym = ref[i]
		}
	}
	return nil
}
