// 17 Oct 2026

// Package hssp gets multiple sequence alignments and conservation
// scores for the chains of a structure. Two external scripts do the
// work. The first turns an HSSP file into one fasta alignment per
// chain, the second turns an alignment into scores. We unpack the
// archive, run the scripts, then decide which alignment belongs to
// which chain of the structure.
//
// If a script or the HSSP archive is missing, nothing happens and the
// results are empty. That is not an error.
package hssp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/andrew-torda/consprep/pdb/cmmn"
	"github.com/andrew-torda/consprep/pdb/zwrap"
	"github.com/andrew-torda/consprep/pkg/chainmatch"
	"github.com/andrew-torda/consprep/pkg/common"
	"github.com/andrew-torda/consprep/pkg/fasta"
	"github.com/andrew-torda/consprep/pkg/numseq"
	"github.com/andrew-torda/consprep/pkg/scoretable"
)

const (
	hsspSuffix  = ".hssp"
	archSuffix  = ".hssp.bz2"
	msaSuffix   = ".hssp.fasta" // what the conversion script writes
	fastaSuffix = ".fasta"
	homSuffix   = ".hom"
)

// Tools says where the scripts and the HSSP files live.
// Timeout limits each script run. Zero means wait forever.
type Tools struct {
	HsspToFasta       string
	MsaToConservation string
	HsspDir           string
	Timeout           time.Duration
	Log               *log.Logger
}

// Pair is the alignment and the score file for one chain.
type Pair struct {
	MSA   string
	Score string
}

// Result is what we got for one structure. MSAs and Scores are keyed
// by the chain names from the HSSP side. Pairs is keyed by the chain
// names of the structure. All the files live in one directory which
// goes away with Close.
type Result struct {
	MSAs   map[string]string
	Scores map[string]string
	Match  chainmatch.Match
	Pairs  map[string]Pair
	dir    string
}

// Close removes the files belonging to the result.
func (r *Result) Close() error {
	if r == nil || r.dir == "" {
		return nil
	}
	err := os.RemoveAll(r.dir)
	r.dir = ""
	return err
}

// Dir is where the result files are.
func (r *Result) Dir() string { return r.dir }

// Pair gives the files for a chain of the structure.
func (r *Result) Pair(chainID string) (Pair, bool) {
	p, ok := r.Pairs[chainID]
	return p, ok
}

func (t *Tools) lg() *log.Logger { return common.Quiet(t.Log) }

// runScript runs a script from its own directory. A non-zero exit is
// only logged. Failing to start the script, or running out of time,
// is an error.
func (t *Tools) runScript(stdout io.Writer, script string, args ...string) error {
	abs, err := filepath.Abs(script)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, abs, args...)
	cmd.Dir = filepath.Dir(abs)
	cmd.Stdout = stdout
	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s killed after %v", filepath.Base(abs), t.Timeout)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		t.lg().Printf("%s finished with exit code %d", filepath.Base(abs), exitErr.ExitCode())
		return nil
	}
	if err != nil {
		return fmt.Errorf("running %s: %w", abs, err)
	}
	t.lg().Printf("%s finished with exit code 0", filepath.Base(abs))
	return nil
}

// chainKey gets the key out of {pdbID}{key}.hssp.fasta.
func chainKey(pdbID, fname string) (string, bool) {
	if !strings.HasPrefix(fname, pdbID) || !strings.HasSuffix(fname, msaSuffix) {
		return "", false
	}
	key := fname[len(pdbID) : len(fname)-len(msaSuffix)]
	return key, key != ""
}

// MSAsFromHSSP unpacks {pdbID}.hssp.bz2 and runs the conversion script
// on it. The alignments are moved to runDir and returned, keyed by the
// chain name in the file name. pdbID is lower-cased first.
func (t *Tools) MSAsFromHSSP(pdbID, runDir string) (map[string]string, error) {
	pdbID = strings.ToLower(pdbID)
	lg := t.lg()
	msas := make(map[string]string)
	if t.HsspToFasta == "" || t.HsspDir == "" ||
		!common.Exists(t.HsspToFasta) || !common.Exists(t.HsspDir) {
		lg.Println("no hssp to fasta script or hssp directory, skipping", pdbID)
		return msas, nil
	}
	arch := filepath.Join(t.HsspDir, pdbID+archSuffix)
	lg.Println("Looking for", arch)
	if !common.Exists(arch) {
		return msas, nil
	}
	hsspDir, err := os.MkdirTemp("", pdbID+"_hssp")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(hsspDir)
	fastaDir, err := os.MkdirTemp("", pdbID+"_fasta")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(fastaDir)

	if err := zwrap.Bunzip2(arch, filepath.Join(hsspDir, pdbID+hsspSuffix)); err != nil {
		return nil, err
	}
	lg.Println("Converting hssp to fasta for", pdbID)
	if err := t.runScript(nil, t.HsspToFasta, pdbID, hsspDir, fastaDir); err != nil {
		return nil, err
	}

	dents, err := os.ReadDir(fastaDir)
	if err != nil {
		return nil, err
	}
	for _, d := range dents {
		key, ok := chainKey(pdbID, d.Name())
		if !ok {
			lg.Println("ignoring", d.Name())
			continue
		}
		dst := filepath.Join(runDir, pdbID+key+fastaSuffix)
		if err := moveFile(filepath.Join(fastaDir, d.Name()), dst); err != nil {
			return nil, err
		}
		if n, err := numseq.Count(dst); err == nil {
			lg.Printf("Chain: %s, file: %s, %d sequences", key, dst, n)
		}
		msas[key] = dst
	}
	return msas, nil
}

// ConservationFromMSAs runs the scoring script on each alignment in
// key order. Output goes next to the alignment, .fasta replaced by .hom.
func (t *Tools) ConservationFromMSAs(msas map[string]string) (map[string]string, error) {
	scores := make(map[string]string)
	if t.MsaToConservation == "" || !common.Exists(t.MsaToConservation) {
		t.lg().Println("no conservation script, skipping")
		return scores, nil
	}
	for _, key := range sortedKeys(msas) {
		msa := msas[key]
		t.lg().Println("Calculating conservation for chain:", key)
		abs, err := filepath.Abs(msa)
		if err != nil {
			return nil, err
		}
		out := strings.TrimSuffix(abs, fastaSuffix) + homSuffix
		fp, err := os.Create(out)
		if err != nil {
			return nil, err
		}
		err = t.runScript(fp, t.MsaToConservation, abs)
		if cerr := fp.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, err
		}
		scores[key] = out
	}
	return scores, nil
}

// QuerySeq is the first sequence of an alignment with gaps removed,
// in upper case.
func QuerySeq(fname string) ([]byte, error) {
	zr, err := zwrap.OpenMaybe(fname)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	e, err := fasta.NewReader(zr).Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("no sequences in %s", fname)
		}
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	q := make([]byte, 0, len(e.Seq))
	for _, c := range e.Seq {
		if c == common.GapChar || c == '.' {
			continue
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		q = append(q, c)
	}
	return q, nil
}

// tables reads the score files. A file without symbols gets them from
// the query of its alignment. Empty score files are left out.
func (t *Tools) tables(msas, scores map[string]string) (map[string][]byte, error) {
	keyed := make(map[string][]byte)
	for _, key := range sortedKeys(scores) {
		tbl, err := scoretable.ReadFile(scores[key], key)
		if err != nil {
			return nil, err
		}
		if tbl.Len() == 0 {
			t.lg().Println("no scores in", scores[key])
			continue
		}
		if !tbl.HasSyms() {
			q, err := QuerySeq(msas[key])
			if err != nil {
				return nil, err
			}
			if err := tbl.SetRef(q, scores[key]); err != nil {
				return nil, err
			}
		}
		keyed[key] = tbl.Seq()
	}
	return keyed, nil
}

// ConservationAndMSAs does everything for one structure. The caller
// should Close the result, even when there is an error.
func (t *Tools) ConservationAndMSAs(pdbID string, s *cmmn.Structure) (*Result, error) {
	res := &Result{
		MSAs:   map[string]string{},
		Scores: map[string]string{},
		Match:  chainmatch.Match{},
		Pairs:  map[string]Pair{},
	}
	dir, err := os.MkdirTemp("", strings.ToLower(pdbID)+"_run")
	if err != nil {
		return res, err
	}
	res.dir = dir
	if res.MSAs, err = t.MSAsFromHSSP(pdbID, dir); err != nil {
		return res, err
	}
	if res.Scores, err = t.ConservationFromMSAs(res.MSAs); err != nil {
		return res, err
	}
	keyed, err := t.tables(res.MSAs, res.Scores)
	if err != nil {
		return res, err
	}
	chains := make([]chainmatch.Chain, 0, len(s.Chains))
	for _, c := range s.Chains {
		chains = append(chains, chainmatch.Chain{ID: c.ChainID, Seq: c.Seq})
	}
	res.Match = chainmatch.Pick(chains, keyed)
	for _, chainID := range res.Match.Chains() {
		key := res.Match[chainID]
		t.lg().Printf("Chains matched. %s->%s", chainID, key)
		res.Pairs[chainID] = Pair{MSA: res.MSAs[key], Score: res.Scores[key]}
	}
	return res, nil
}

// CopyOut copies each pair to {destDir}/{base}{chain}.fasta and .hom,
// then gzips them. It returns the names of the compressed files in
// chain order.
func CopyOut(res *Result, base, destDir string) ([]string, error) {
	var written []string
	for _, chainID := range sortedKeys(res.Pairs) {
		p := res.Pairs[chainID]
		for _, cp := range [][2]string{{p.MSA, fastaSuffix}, {p.Score, homSuffix}} {
			dst := filepath.Join(destDir, base+chainID+cp[1])
			if err := copyFile(cp[0], dst); err != nil {
				return written, err
			}
			gz, err := zwrap.GzipFile(dst)
			if err != nil {
				return written, err
			}
			written = append(written, gz)
		}
	}
	return written, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// copyFile overwrites dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// moveFile renames, falling back to copy and remove when the two
// names are on different file systems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
