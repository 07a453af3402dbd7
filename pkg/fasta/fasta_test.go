package fasta_test

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/andrew-torda/consprep/pdb/cmmn"
	"github.com/andrew-torda/consprep/pdb/pdbtest"
	. "github.com/andrew-torda/consprep/pkg/fasta"
)

func str(e Entry) string {
	var b strings.Builder
	e.Write(&b, LineWidth)
	return b.String()
}

func TestWrap(t *testing.T) {
	seq := strings.Repeat("A", LineWidth) + strings.Repeat("K", LineWidth) + "MM"
	got := str(Entry{Cmmt: "1ABC:A", Seq: []byte(seq)})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatal("wanted 4 lines, got", len(lines), got)
	}
	if lines[0] != ">1ABC:A" || len(lines[1]) != LineWidth || len(lines[2]) != LineWidth || lines[3] != "MM" {
		t.Error("bad wrapping:", got)
	}
	exact := str(Entry{Cmmt: "x", Seq: []byte(strings.Repeat("G", LineWidth))})
	if strings.Count(exact, "\n") != 2 {
		t.Error("full line should not give an empty line:", exact)
	}
}

func TestChain2Fasta(t *testing.T) {
	e, ok := Chain2Fasta("1ABC", cmmn.Chain{ChainID: "B", Seq: []byte("MKTAY")})
	if !ok || str(e) != ">1ABC:B\nMKTAY\n" {
		t.Error("got", str(e), ok)
	}
	if _, ok := Chain2Fasta("1ABC", cmmn.Chain{ChainID: "C"}); ok {
		t.Error("empty chain should be skipped")
	}
}

// readAll collects every entry.
func readAll(t *testing.T, rdr io.Reader) []Entry {
	var entries []Entry
	r := NewReader(rdr)
	for {
		e, err := r.Read()
		if err == io.EOF {
			return entries
		}
		if err != nil {
			t.Fatal(err)
		}
		entries = append(entries, e)
	}
}

func TestRead(t *testing.T) {
	in := ">first one\nMKT\nAY\n>second\nGG-\nvls\n"
	got := readAll(t, strings.NewReader(in))
	want := []Entry{{Cmmt: "first one", Seq: []byte("MKTAY")}, {Cmmt: "second", Seq: []byte("GG-vls")}}
	if !reflect.DeepEqual(got, want) {
		t.Error("got", got)
	}
	if got := readAll(t, strings.NewReader("")); len(got) != 0 {
		t.Error("empty input gave", got)
	}
}

// TestFileToFasta writes a structure out and reads back what was written.
func TestFileToFasta(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("MKTAYIAKQR", 10)
	fname, err := pdbtest.Write(dir, "1abc.pdb", "1ABC",
		pdbtest.Chain{ID: "A", Seq: long}, pdbtest.Chain{ID: "B", Seq: "GGVLS"})
	if err != nil {
		t.Fatal(err)
	}
	written, err := FileToFasta(fname, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 {
		t.Fatal("wanted 2 files, got", written)
	}
	want := map[string]string{"A": long, "B": "GGVLS"}
	for _, w := range written {
		fp, err := os.Open(w)
		if err != nil {
			t.Fatal(err)
		}
		entries := readAll(t, fp)
		fp.Close()
		if len(entries) != 1 {
			t.Fatal("wanted one sequence in", w)
		}
		id, ch, ok := strings.Cut(entries[0].Cmmt, ":")
		if !ok || id != "1ABC" {
			t.Error("header", entries[0].Cmmt)
		}
		if filepath.Base(w) != "1abc"+ch+".pdb.fasta" {
			t.Error("file name", w)
		}
		if string(entries[0].Seq) != want[ch] {
			t.Error("sequence for chain", ch, "got", string(entries[0].Seq))
		}
	}
}

func TestDirToFasta(t *testing.T) {
	dir := t.TempDir()
	if _, err := pdbtest.Write(dir, "1abc.pdb", "1ABC", pdbtest.Chain{ID: "A", Seq: "MKTAY"}); err != nil {
		t.Fatal(err)
	}
	if _, err := pdbtest.Write(dir, "2xyz.pdb", "2XYZ", pdbtest.Chain{ID: "A", Seq: "GGV"},
		pdbtest.Chain{ID: "B", Seq: "LSE"}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	written, err := DirToFasta(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 3 {
		t.Error("wanted 3 files, got", written)
	}
	if _, err := DirToFasta(filepath.Join(dir, "nope"), nil); err == nil {
		t.Error("missing directory should fail")
	}
}
