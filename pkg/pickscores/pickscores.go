// 17 Oct 2026

// Package pickscores looks at a directory of PDB files which already
// have score files next to them, and says which score file goes with
// which chain. For 1abc.pdb, the score files are 1abcA.hom, 1abcB.hom.gz
// and so on. The letters between the base name and the suffix are the
// key. If a score file only has numbers, the query sequence is taken
// from the alignment 1abcA.fasta or 1abcA.fasta.gz.
package pickscores

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andrew-torda/consprep/pdb"
	"github.com/andrew-torda/consprep/pkg/chainmatch"
	"github.com/andrew-torda/consprep/pkg/common"
	"github.com/andrew-torda/consprep/pkg/hssp"
	"github.com/andrew-torda/consprep/pkg/scoretable"
)

const pdbSuffix = ".pdb"

var homSuffixes = []string{".hom", ".hom.gz"}

// Entry is the answer for one PDB file.
type Entry struct {
	Name  string // file name without directory
	Match chainmatch.Match
}

// String gives "name A:A B:A C:B", or "name -" if nothing matched.
func (e Entry) String() string {
	if len(e.Match) == 0 {
		return e.Name + " -"
	}
	var b strings.Builder
	b.WriteString(e.Name)
	for _, c := range e.Match.Chains() {
		fmt.Fprintf(&b, " %s:%s", c, e.Match[c])
	}
	return b.String()
}

// siblings are the base names of the other PDB files in the directory
// of fname which start with base, like 1abcd for 1abc.
func siblings(fname, base string) ([]string, error) {
	dents, err := os.ReadDir(filepath.Dir(fname))
	if err != nil {
		return nil, err
	}
	var sib []string
	for _, d := range dents {
		if d.IsDir() || !pdb.IsPDBName(d.Name()) {
			continue
		}
		b, _ := pdb.BaseName(filepath.Join(filepath.Dir(fname), d.Name()))
		if b != base && strings.HasPrefix(b, base) {
			sib = append(sib, b)
		}
	}
	return sib, nil
}

// scoreFiles finds the score files for base, keyed by the chain key.
// If both plain and compressed versions are there, the plain one wins.
// Files belonging to a sibling are left alone.
func scoreFiles(base string, sib []string) (map[string]string, error) {
	found := make(map[string]string)
	for i := len(homSuffixes) - 1; i >= 0; i-- {
		suffix := homSuffixes[i]
		matches, err := filepath.Glob(base + "*" + suffix)
		if err != nil {
			return nil, err
		}
	nextMatch:
		for _, m := range matches {
			for _, sb := range sib {
				if strings.HasPrefix(m, sb) {
					continue nextMatch
				}
			}
			key := strings.TrimSuffix(strings.TrimPrefix(m, base), suffix)
			if key == "" || strings.ContainsAny(key, "./") {
				continue
			}
			found[key] = m
		}
	}
	return found, nil
}

// msaFor finds the alignment that goes with a score file.
func msaFor(base, key string) (string, bool) {
	for _, suffix := range []string{".fasta", ".fasta.gz"} {
		if f := base + key + suffix; common.Exists(f) {
			return f, true
		}
	}
	return "", false
}

// ForFile reads a structure and the score files next to it and
// matches them up.
func ForFile(fname string, lg *log.Logger) (Entry, error) {
	lg = common.Quiet(lg)
	e := Entry{Name: filepath.Base(fname), Match: chainmatch.Match{}}
	s, err := pdb.ReadStructure(fname, lg)
	if err != nil {
		return e, err
	}
	base, _ := pdb.BaseName(fname)
	sib, err := siblings(fname, base)
	if err != nil {
		return e, err
	}
	files, err := scoreFiles(base, sib)
	if err != nil {
		return e, err
	}
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	keyed := make(map[string][]byte)
	for _, key := range keys {
		tbl, err := scoretable.ReadFile(files[key], key)
		if err != nil {
			return e, err
		}
		if tbl.Len() == 0 {
			continue
		}
		if !tbl.HasSyms() {
			msa, ok := msaFor(base, key)
			if !ok {
				lg.Println("no symbols in", files[key], "and no alignment to get them from")
				continue
			}
			q, err := hssp.QuerySeq(msa)
			if err != nil {
				return e, err
			}
			if err := tbl.SetRef(q, files[key]); err != nil {
				return e, err
			}
		}
		keyed[key] = tbl.Seq()
	}
	chains := make([]chainmatch.Chain, 0, len(s.Chains))
	for _, c := range s.Chains {
		chains = append(chains, chainmatch.Chain{ID: c.ChainID, Seq: c.Seq})
	}
	e.Match = chainmatch.Pick(chains, keyed)
	return e, nil
}

// ForDir calls ForFile on every .pdb file in dir, in name order. A file
// which cannot be read is logged and gets an empty match.
func ForDir(dir string, lg *log.Logger) ([]Entry, error) {
	lg = common.Quiet(lg)
	dents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, d := range dents { // ReadDir sorts by name
		if d.IsDir() || !strings.HasSuffix(d.Name(), pdbSuffix) {
			continue
		}
		e, err := ForFile(filepath.Join(dir, d.Name()), lg)
		if err != nil {
			lg.Println(err)
			e.Match = chainmatch.Match{}
		}
		entries = append(entries, e)
	}
	return entries, nil
}
