// This is the upper level for reading PDB files.
// Decide if a file is compressed or not, and what format
// we are going to read. Then hand the text to the PDB reader and
// turn what comes back into a cmmn.Structure.

package pdb

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	tpdb "github.com/TuftsBCB/io/pdb"

	"github.com/andrew-torda/consprep/pdb/cmmn"
	"github.com/andrew-torda/consprep/pdb/zwrap"
	"github.com/andrew-torda/consprep/pkg/common"
)

const (
	old_fmt byte = iota
	mmcif_fmt
	unk_fmt
)

// comparefirst says if a line starts with a word.
func comparefirst(s, w string) bool {
	if len(s) < len(w) {
		return false
	}
	return s[:len(w)] == w
}

// lookInFile opens a file and guesses if it is in old PDB format or
// in mmcif.
func lookInFile(fname string) (byte, error) {
	pdbWords := []string{"HEADER", "COMPND", "SOURCE", "REMARK", "SEQRES", "HETATM", "ATOM"}
	mmcifWords := []string{"data_", "_entry.id", "loop_"}
	rdr, err := zwrap.OpenMaybe(fname)
	if err != nil {
		return unk_fmt, err
	}
	defer rdr.Close()

	const maxTestLines = 5000
	scnnr := bufio.NewScanner(rdr)
	for i := 0; scnnr.Scan() && i < maxTestLines; i++ {
		s := scnnr.Text()
		for _, w := range mmcifWords {
			if comparefirst(s, w) {
				return mmcif_fmt, nil
			}
		}
		for _, w := range pdbWords {
			if comparefirst(s, w) {
				return old_fmt, nil
			}
		}
	}
	return unk_fmt, errors.New(fname + ": cannot recognise format")
}

// oldOrMmcif decides what format we will use.
// Maybe it uses the file name or maybe it peeks inside.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz.
func oldOrMmcif(fname string) (byte, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:]) // change .ent to ent
		if strings.Contains(s, "pdb") || strings.Contains(s, "ent") {
			return old_fmt, nil
		} else if strings.Contains(s, "mmcif") || strings.Contains(s, "cif") {
			return mmcif_fmt, nil
		}
	}
	return lookInFile(fname)
}

// IsPDBName says if a file name looks like something we can read.
func IsPDBName(fname string) bool {
	s := strings.ToLower(filepath.Base(fname))
	for _, ext := range []string{".pdb", ".pdb.gz", ".ent", ".ent.gz"} {
		if strings.HasSuffix(s, ext) {
			return true
		}
	}
	return false
}

// BaseName splits a PDB file name into the part we use to build new
// names and the extension. "x/1abc.pdb.gz" gives "x/1abc" and ".pdb.gz".
// A name without a dot has an empty extension.
func BaseName(fname string) (base, ext string) {
	if strings.HasSuffix(fname, ".pdb.gz") || strings.HasSuffix(fname, "ent.gz") {
		n := len(fname) - len(".pdb.gz")
		return fname[:n], fname[n:]
	}
	i := strings.LastIndexByte(fname, '.')
	if i == -1 || strings.ContainsRune(fname[i:], filepath.Separator) {
		return fname, ""
	}
	return fname[:i], fname[i:]
}

// ReadStructure reads a PDB file, possibly gzipped, and returns the
// amino acid chains. Chains are in file order. Residues which are not
// amino acids are dropped, and so are chains left with nothing.
// lg may be nil.
func ReadStructure(fname string, lg *log.Logger) (*cmmn.Structure, error) {
	lg = common.Quiet(lg)
	lg.Println("Loading pdb file", fname)
	typ, err := oldOrMmcif(fname)
	if err != nil {
		return nil, err
	}
	if typ == mmcif_fmt {
		return nil, fmt.Errorf("%s: mmcif format is not supported, only PDB", fname)
	}
	rdr, err := zwrap.OpenMaybe(fname)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	s, err := readStructure(rdr, fname)
	if err != nil {
		return nil, err
	}
	lg.Println(s.ID, "has amino acid chains", s.ChainNames())
	return s, nil
}

// readStructure does the work for ReadStructure, once we have something
// to read from.
func readStructure(rdr io.Reader, fname string) (s *cmmn.Structure, err error) {
	defer func() { // The reader is not shy about panicking on junk.
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("%s: broken pdb file: %v", fname, r)
		}
	}()
	padded, amino, err := pad80(rdr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	entry, err := tpdb.Read(padded, fname)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if len(entry.Chains) == 0 {
		return nil, fmt.Errorf("%s: no chains found", fname)
	}
	chains := make([]cmmn.Chain, 0, len(entry.Chains))
	for _, c := range entry.Chains {
		if len(c.Models) == 0 {
			continue
		}
		chain := cmmn.Chain{ChainID: chainName(c.Ident)}
		for _, r := range c.Models[0].Residues {
			if !amino[mkResKey(chain.ChainID, r.SequenceNum, r.InsertionCode)] {
				continue // nucleotides, ligands, water
			}
			chain.Seq = append(chain.Seq, byte(r.Name))
			chain.NAtom += len(r.Atoms)
		}
		if chain.Empty() {
			continue
		}
		chains = append(chains, chain)
	}
	id := strings.TrimSpace(entry.IdCode)
	if id == "" {
		base, _ := BaseName(filepath.Base(fname))
		id = base
	}
	return cmmn.NewStructure(id, chains, common.DefaultChainID), nil
}

// aminoNames are the residue names we call amino acids.
var aminoNames = map[string]bool{
	"ALA": true, "ARG": true, "ASN": true, "ASP": true, "CYS": true,
	"GLN": true, "GLU": true, "GLY": true, "HIS": true, "ILE": true,
	"LEU": true, "LYS": true, "MET": true, "PHE": true, "PRO": true,
	"SER": true, "THR": true, "TRP": true, "TYR": true, "VAL": true,
	"MSE": true, "SEC": true, "PYL": true, "ASX": true, "GLX": true,
	"UNK": true,
}

// resKey says where a residue is: chain, number and insertion code.
type resKey struct {
	chain string
	num   int
	icode byte
}

func mkResKey(chain string, num int, icode byte) resKey {
	if icode == ' ' {
		icode = 0
	}
	return resKey{chain: chain, num: num, icode: icode}
}

// aminoKey looks at an ATOM or HETATM record. If it belongs to an
// amino acid, it returns the residue's key.
func aminoKey(line []byte) (resKey, bool) {
	rec := string(line[0:6])
	if rec != "ATOM  " && rec != "HETATM" {
		return resKey{}, false
	}
	if !aminoNames[strings.TrimSpace(string(line[17:20]))] {
		return resKey{}, false
	}
	num, err := strconv.Atoi(strings.TrimSpace(string(line[22:26])))
	if err != nil {
		return resKey{}, false
	}
	return mkResKey(chainName(line[21]), num, line[26]), true
}

// pad80 copies the input, padding each line out to 80 columns. The reader
// slices fixed columns and files in the wild often have trimmed lines.
// Blank lines are dropped. On the way, it notes which residues are
// amino acids, by name, since the reader calls anything with no SEQRES
// a protein.
func pad80(rdr io.Reader) (io.Reader, map[resKey]bool, error) {
	const width = 80
	var b bytes.Buffer
	amino := make(map[resKey]bool)
	scnnr := bufio.NewScanner(rdr)
	pad := make([]byte, 0, width)
	for scnnr.Scan() {
		line := scnnr.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		pad = append(pad[:0], line...)
		for len(pad) < width {
			pad = append(pad, ' ')
		}
		if k, ok := aminoKey(pad); ok {
			amino[k] = true
		}
		b.Write(pad)
		b.WriteByte('\n')
	}
	return &b, amino, scnnr.Err()
}

// chainName turns the byte from the file into a name. Blank stays blank
// here and is fixed up when the structure is built. Some readers call
// a blank chain "_".
func chainName(ident byte) string {
	if ident == '_' {
		return ""
	}
	return strings.TrimSpace(string(ident))
}

// ProteinSize reads a file and returns the number of residues and atoms
// in its protein chains.
func ProteinSize(fname string, lg *log.Logger) (nres, natom int, err error) {
	s, err := ReadStructure(fname, lg)
	if err != nil {
		return 0, 0, err
	}
	nres, natom = s.Size()
	return nres, natom, nil
}
