// 16 Oct 2026

// Package pdbtest makes small PDB files for tests.
package pdbtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Chain is a chain id and a one letter sequence.
type Chain struct {
	ID  string
	Seq string
}

const perSeqres = 13 // residues on one SEQRES line

var three = map[byte]string{
	'A': "ALA", 'C': "CYS", 'D': "ASP", 'E': "GLU", 'F': "PHE",
	'G': "GLY", 'H': "HIS", 'I': "ILE", 'K': "LYS", 'L': "LEU",
	'M': "MET", 'N': "ASN", 'P': "PRO", 'Q': "GLN", 'R': "ARG",
	'S': "SER", 'T': "THR", 'V': "VAL", 'W': "TRP", 'Y': "TYR",
}

// Make returns PDB text for the chains. Each residue gets an N and
// a CA atom, so a chain has twice as many atoms as residues.
func Make(id string, chains ...Chain) string {
	var b strings.Builder
	fmt.Fprintf(&b, "HEADER    %-40s%9s   %4s\n", "TEST STRUCTURE", "01-JAN-00", id)
	for _, c := range chains {
		res := make([]string, 0, len(c.Seq))
		for i := 0; i < len(c.Seq); i++ {
			res = append(res, three[c.Seq[i]])
		}
		for i, n := 0, 1; i < len(res); i, n = i+perSeqres, n+1 {
			end := min(i+perSeqres, len(res))
			fmt.Fprintf(&b, "SEQRES %3d %c %4d  %s\n", n, c.ID[0], len(res), strings.Join(res[i:end], " "))
		}
	}
	serial := 1
	for _, c := range chains {
		for i := 0; i < len(c.Seq); i++ {
			for _, at := range []string{"N", "CA"} {
				b.WriteString(Atom("ATOM", serial, at, three[c.Seq[i]], c.ID[0], i+1))
				serial++
			}
		}
		fmt.Fprintf(&b, "TER   %5d      %3s %c%4d\n", serial, three[c.Seq[len(c.Seq)-1]], c.ID[0], len(c.Seq))
		serial++
	}
	b.WriteString("END\n")
	return b.String()
}

// Atom is one ATOM or HETATM line. res is written right justified in
// three columns, so nucleotides like "DA" come out as " DA".
func Atom(rec string, serial int, atom, res string, chain byte, num int) string {
	return fmt.Sprintf("%-6s%5d  %-3s %3s %c%4d    %8.3f%8.3f%8.3f  1.00  0.00          %2s\n",
		rec, serial, atom, res, chain, num,
		float64(num), float64(serial), 1.5, atom[:1])
}

// Write puts the PDB text for the chains in dir/name and returns the path.
func Write(dir, name, id string, chains ...Chain) (string, error) {
	fname := filepath.Join(dir, name)
	if err := os.WriteFile(fname, []byte(Make(id, chains...)), 0o644); err != nil {
		return "", err
	}
	return fname, nil
}
