package scoretable_test

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/consprep/brokenio"
	"github.com/andrew-torda/consprep/pkg/common"
	. "github.com/andrew-torda/consprep/pkg/scoretable"
)

// What the JSD script writes. The third column has a gap at the start
// which is not part of the query.
var jsdString = `# ./score_conservation.py -s js_divergence msa.fasta
# align_column_number	score	column

0	-1000.00000	-MMM
1	0.51234	MMMM
2	0.30000	KKKR
3	0.75000	TTTT
`

var plainString = `0.5
0.25

0.125
`

func TestJSD(t *testing.T) {
	tbl, err := Parse(strings.NewReader(jsdString), "A", "jsd")
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Key != "A" || tbl.Len() != 3 {
		t.Fatal("got key", tbl.Key, "len", tbl.Len())
	}
	if string(tbl.Seq()) != "MKT" {
		t.Fatal("sequence", string(tbl.Seq()))
	}
	if !tbl.HasSyms() {
		t.Fatal("should have symbols")
	}
	want := []float64{0.51234, 0.3, 0.75}
	for i, r := range tbl.Res {
		if x := r.Score; x != want[i] {
			t.Error("score", i, "got", x, "want", want[i])
		}
	}
}

func TestClampNegative(t *testing.T) {
	tbl, err := Parse(strings.NewReader("0 -1000 M-\n1 0.2 KK\n"), "x", "neg")
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Res[0].Score != 0 || tbl.Res[1].Score != 0.2 {
		t.Fatal("got", tbl.Res)
	}
}

func TestPlain(t *testing.T) {
	tbl, err := Parse(strings.NewReader(plainString), "B", "plain")
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 3 || tbl.HasSyms() {
		t.Fatal("plain file len", tbl.Len(), "syms", tbl.HasSyms())
	}
	if string(tbl.Seq()) != "XXX" {
		t.Fatal("unknown symbols should be X, got", string(tbl.Seq()))
	}
	if err := tbl.SetRef([]byte("GGV"), "plain"); err != nil {
		t.Fatal(err)
	}
	if string(tbl.Seq()) != "GGV" || !tbl.HasSyms() {
		t.Fatal("after SetRef", string(tbl.Seq()))
	}
}

func TestBroken(t *testing.T) {
	broken := []string{
		"0.5\nabc\n",         // not a number
		"0 0.5 MM\n1 x KK\n", // bad score
		"0 0.5 MM\n0.7\n",    // layouts mixed
		"0.5\n0 0.5 MM\n",    // and the other way round
		"zero 0.5 MM\n",      // bad column number
	}
	for _, s := range broken {
		_, err := Parse(strings.NewReader(s), "A", "broken")
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("wanted ParseError on %q, got %v", s, err)
		}
		if perr.Line == 0 || perr.File != "broken" {
			t.Error("error does not say where", perr)
		}
	}
}

func TestSetRefMismatch(t *testing.T) {
	tbl, err := Parse(strings.NewReader(plainString), "B", "plain")
	if err != nil {
		t.Fatal(err)
	}
	err = tbl.SetRef([]byte("GGVL"), "plain")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatal("length mismatch should be a ParseError, got", err)
	}
}

func TestEmpty(t *testing.T) {
	tbl, err := Parse(strings.NewReader("# nothing\n"), "A", "empty")
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 0 || tbl.HasSyms() {
		t.Fatal("empty file gave", tbl.Len())
	}
}

// TestReadError checks that a read failing half way does not give
// back a short table.
func TestReadError(t *testing.T) {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(jsdString)))
	rdr.SetFailAfter(len(jsdString) / 2)
	tbl, err := Parse(rdr, "A", "halfread")
	if err == nil || tbl != nil {
		t.Fatal("wanted error on broken read")
	}
	if !errors.Is(err, brokenio.ErrBroken) {
		t.Fatal("error lost its cause", err)
	}
}

func TestReadFile(t *testing.T) {
	fname, err := common.WrtTemp(jsdString, ".hom")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	tbl, err := ReadFile(fname, "A")
	if err != nil {
		t.Fatal(err)
	}
	if string(tbl.Seq()) != "MKT" {
		t.Fatal("mapped file gave", string(tbl.Seq()))
	}

	empty, err := common.WrtTemp("", ".hom")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(empty)
	if tbl, err = ReadFile(empty, "A"); err != nil || tbl.Len() != 0 {
		t.Fatal("empty file", err)
	}

	gzname := filepath.Join(t.TempDir(), "x.hom.gz")
	fp, err := os.Create(gzname)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(fp)
	io.WriteString(zw, plainString)
	zw.Close()
	fp.Close()
	if tbl, err = ReadFile(gzname, "B"); err != nil || tbl.Len() != 3 {
		t.Fatal("gzipped file", err)
	}

	if _, err = ReadFile(filepath.Join(t.TempDir(), "nothere"), "A"); err == nil {
		t.Fatal("missing file should be an error")
	}
}

// A deep alignment gives JSD lines much longer than bufio's default.
func TestLongColumn(t *testing.T) {
	col := "M" + strings.Repeat("L", 200*1024)
	in := "0\t0.5\t" + col + "\n1\t0.25\tK" + strings.Repeat("-", 200*1024) + "\n"
	tbl, err := Parse(strings.NewReader(in), "A", "deep")
	if err != nil {
		t.Fatal(err)
	}
	if string(tbl.Seq()) != "MK" || tbl.Res[1].Score != 0.25 {
		t.Fatal("got", string(tbl.Seq()), tbl.Res)
	}
}
