// 15 Oct 2026

// Package chainmatch decides which conservation score file belongs to
// which chain of a structure.
//
// The score files come from HSSP and are named by HSSP, so the name
// on a score file says nothing reliable about the chain in the PDB
// file. What we can trust is the sequence. A chain and a score file
// belong together if their sequences are the same wherever they
// overlap, that is, the shorter sits inside the longer without a
// mismatch. Chains with the same sequence get the same score file,
// since conservation depends only on sequence.
package chainmatch

import (
	"sort"

	"github.com/andrew-torda/matrix"
)

// Wild matches anything. It is what both PDB and HSSP use for
// residues they could not name.
const Wild byte = 'X'

const noMatch = -1

// Chain is what we need to know about a structure chain.
type Chain struct {
	ID  string
	Seq []byte
}

// Match maps structure chain names to the key of their score file.
// A chain without a score file is not in the map.
type Match map[string]string

// Key returns the score file key for a chain and whether there is one.
func (m Match) Key(chainID string) (string, bool) {
	k, ok := m[chainID]
	return k, ok
}

// Chains returns the matched chain names, sorted.
func (m Match) Chains() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// upper is enough for sequences, which are ascii.
func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// same compares residues, ignoring case. Wild matches anything.
// The second result says if the match says anything, which it does
// not if either side is wild.
func same(a, b byte) (ok, counts bool) {
	a, b = upper(a), upper(b)
	if a == Wild || b == Wild {
		return true, false
	}
	return a == b, true
}

// Overlap slides the shorter sequence along the longer one and returns
// the number of identical residues at the best placement where there is
// no mismatch at all. Wildcards are allowed, but are not counted. If no
// placement works, or only wildcards line up, it returns false.
func Overlap(s, t []byte) (int, bool) {
	if len(s) > len(t) {
		s, t = t, s
	}
	if len(s) == 0 {
		return 0, false
	}
	best := noMatch
	for off := 0; off+len(s) <= len(t); off++ {
		n := 0
		for i := range s {
			ok, counts := same(s[i], t[off+i])
			if !ok {
				n = noMatch
				break
			}
			if counts {
				n++
			}
		}
		if n > best {
			best = n
		}
	}
	if best <= 0 {
		return 0, false
	}
	return best, true
}

// lenDiff is how far apart two lengths are.
func lenDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// Pick returns the score file key for each chain that has one.
// keyed maps a score file key to the sequence it was calculated for.
// Of several keys that fit a chain, we take the one with the most
// identical residues, then the one closest in length, then the
// smallest key, so the answer does not depend on map order.
// Either argument being empty gives an empty Match.
func Pick(chains []Chain, keyed map[string][]byte) Match {
	m := make(Match)
	if len(chains) == 0 || len(keyed) == 0 {
		return m
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	smat := matrix.NewFMatrix2d(len(chains), len(keys))
	seen := make(map[string]int) // sequence to the first chain with it
	for i, c := range chains {
		if first, ok := seen[string(c.Seq)]; ok {
			copy(smat.Mat[i], smat.Mat[first])
			continue
		}
		seen[string(c.Seq)] = i
		for j, k := range keys {
			smat.Mat[i][j] = noMatch
			if n, ok := Overlap(c.Seq, keyed[k]); ok {
				smat.Mat[i][j] = float32(n)
			}
		}
	}

	for i, c := range chains {
		best := noMatch
		for j, k := range keys {
			scr := smat.Mat[i][j]
			if scr == noMatch {
				continue
			}
			if best == noMatch || scr > smat.Mat[i][best] {
				best = j
				continue
			}
			if scr == smat.Mat[i][best] { // keys are sorted, so only length can win
				if lenDiff(len(c.Seq), len(keyed[k])) < lenDiff(len(c.Seq), len(keyed[keys[best]])) {
					best = j
				}
			}
		}
		if best != noMatch {
			m[c.ID] = keys[best]
		}
	}
	return m
}
