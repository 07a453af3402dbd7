// Package pdb/cmmn has the common definitions for a structure once
// it has been read. Nothing here knows about file formats.
package cmmn

import (
	"strconv"
	"strings"
)

// Chain is one protein chain. Seq is built from residues which have
// coordinates (the ATOM records), not from SEQRES.
type Chain struct {
	ChainID string // Name, like "A" or "B"
	Seq     []byte // one letter amino acid codes
	NAtom   int    // atoms belonging to the residues in Seq
}

// Len is the number of residues.
func (c Chain) Len() int { return len(c.Seq) }

// Empty is true if there were no amino acids with coordinates.
func (c Chain) Empty() bool { return len(c.Seq) == 0 }

// Structure is one parsed file. It should not be changed after it
// has been built.
type Structure struct {
	ID     string // PDB code, like "1abc", may be empty
	Chains []Chain
}

// ChainNames returns a slice with the names of the chains.
func (s *Structure) ChainNames() []string {
	ret := make([]string, len(s.Chains))
	for i, c := range s.Chains {
		ret[i] = c.ChainID
	}
	return ret
}

// Size returns the number of residues and atoms over all chains.
func (s *Structure) Size() (nres, natom int) {
	for _, c := range s.Chains {
		nres += c.Len()
		natom += c.NAtom
	}
	return
}

// idChars are tried in order when a chain needs a new name.
const idChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewStructure builds a structure from chains. A chain with a blank
// name gets dflt, unless some other chain is already called that. Then,
// like a chain whose name was seen before, it gets the first free name
// from idChars. Sequences are copied and never joined.
func NewStructure(id string, chains []Chain, dflt string) *Structure {
	s := &Structure{ID: id, Chains: make([]Chain, 0, len(chains))}
	used := make(map[string]bool)
	for _, c := range chains {
		if name := strings.TrimSpace(c.ChainID); name != "" {
			used[name] = true
		}
	}
	taken := make(map[string]bool)
	free := func() string {
		for _, r := range idChars {
			if n := string(r); !used[n] && !taken[n] {
				return n
			}
		}
		for n := len(idChars); ; n++ {
			if name := strconv.Itoa(n); !used[name] && !taken[name] {
				return name
			}
		}
	}
	for _, c := range chains {
		name := strings.TrimSpace(c.ChainID)
		switch {
		case name == "" && !used[dflt] && !taken[dflt]:
			name = dflt
		case name == "" || taken[name]:
			name = free()
		}
		taken[name] = true
		c.ChainID = name
		c.Seq = append([]byte(nil), c.Seq...)
		s.Chains = append(s.Chains, c)
	}
	return s
}
