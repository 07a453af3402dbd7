package pickscores_test

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/consprep/pdb/pdbtest"
	"github.com/andrew-torda/consprep/pkg/chainmatch"
	. "github.com/andrew-torda/consprep/pkg/pickscores"
)

const (
	mkt = "MKTAYIAKQR"
	ggv = "GGVLSEDDKL"
)

// jsd makes a score file in the JSD layout for a sequence.
func jsd(s string) string {
	var b strings.Builder
	b.WriteString("# made for testing\n")
	for i := 0; i < len(s); i++ {
		fmt.Fprintf(&b, "%d\t%.3f\t%c%c-\n", i, 0.1*float64(i), s[i], s[i])
	}
	return b.String()
}

func wrt(t *testing.T, fname, s string) {
	if err := os.WriteFile(fname, []byte(s), 0644); err != nil {
		t.Fatal(err)
	}
}

func wrtGz(t *testing.T, fname, s string) {
	fp, err := os.Create(fname)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(fp)
	if _, err := gz.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := fp.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestForDir(t *testing.T) {
	dir := t.TempDir()
	if _, err := pdbtest.Write(dir, "1abc.pdb", "1ABC", pdbtest.Chain{ID: "A", Seq: mkt},
		pdbtest.Chain{ID: "B", Seq: mkt}, pdbtest.Chain{ID: "C", Seq: ggv}); err != nil {
		t.Fatal(err)
	}
	wrt(t, filepath.Join(dir, "1abcx.hom"), jsd(mkt))
	wrtGz(t, filepath.Join(dir, "1abcy.hom.gz"), jsd(ggv))

	// plain numbers, symbols come from the alignment
	if _, err := pdbtest.Write(dir, "2xyz.pdb", "2XYZ", pdbtest.Chain{ID: "A", Seq: ggv}); err != nil {
		t.Fatal(err)
	}
	wrt(t, filepath.Join(dir, "2xyzQ.hom"), strings.Repeat("0.5\n", len(ggv)))
	wrt(t, filepath.Join(dir, "2xyzQ.fasta"), ">2xyzQ\nGGV-LSEDDKL\n>s1\nGGVALSEDDKL\n")

	// nothing to match
	if _, err := pdbtest.Write(dir, "3nop.pdb", "3NOP", pdbtest.Chain{ID: "A", Seq: mkt}); err != nil {
		t.Fatal(err)
	}
	wrt(t, filepath.Join(dir, "notes.txt"), "not a pdb file\n")

	entries, err := ForDir(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"1abc.pdb A:x B:x C:y", "2xyz.pdb A:Q", "3nop.pdb -"}
	if len(entries) != len(want) {
		t.Fatal("wanted", len(want), "entries, got", entries)
	}
	for i, e := range entries {
		if e.String() != want[i] {
			t.Errorf("got \"%s\" wanted \"%s\"", e, want[i])
		}
	}
}

func TestBrokenScores(t *testing.T) {
	dir := t.TempDir()
	fname, err := pdbtest.Write(dir, "1abc.pdb", "1ABC", pdbtest.Chain{ID: "A", Seq: mkt})
	if err != nil {
		t.Fatal(err)
	}
	wrt(t, filepath.Join(dir, "1abcA.hom"), "0\tnotanumber\tMM\n")
	if _, err := ForFile(fname, nil); err == nil {
		t.Error("broken score file should give an error")
	}
	entries, err := ForDir(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].String() != "1abc.pdb -" {
		t.Error("got", entries)
	}
}

func TestEntryString(t *testing.T) {
	e := Entry{Name: "a.pdb", Match: chainmatch.Match{"B": "k", "A": "j"}}
	if s := e.String(); s != "a.pdb A:j B:k" {
		t.Error(s)
	}
}

// 1abcdA.hom belongs to 1abcd.pdb, not to 1abc.pdb with key "dA".
func TestPrefixSibling(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1abc.pdb", "1abcd.pdb"} {
		if _, err := pdbtest.Write(dir, name, "1ABC", pdbtest.Chain{ID: "A", Seq: mkt}); err != nil {
			t.Fatal(err)
		}
	}
	wrt(t, filepath.Join(dir, "1abcdA.hom"), jsd(mkt))
	entries, err := ForDir(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"1abc.pdb -", "1abcd.pdb A:A"}
	if len(entries) != len(want) {
		t.Fatal("got", entries)
	}
	for i, e := range entries {
		if e.String() != want[i] {
			t.Errorf("got \"%s\" wanted \"%s\"", e, want[i])
		}
	}
}
