// 18 Oct 2026

// Package consprep does the work of the consprep command, after the
// flags have been parsed.
package consprep

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andrew-torda/consprep/pdb"
	"github.com/andrew-torda/consprep/pkg/common"
	"github.com/andrew-torda/consprep/pkg/fasta"
	"github.com/andrew-torda/consprep/pkg/hssp"
	"github.com/andrew-torda/consprep/pkg/pickscores"
)

// CmdFlag holds the command line options.
type CmdFlag struct {
	LogWhere string        // "", "stdout", "stderr" or a file name
	Timeout  time.Duration // for each external script, 0 is forever
}

// Usage is the one line summary of the subcommands.
const Usage = `pdbtofasta file_or_dir
  pickscoresfromhssp pdbfile pdbid hssp2fasta_script msa2conservation_script hssp_dir
  pickscores dir
  getproteinsize pdbfile`

// nargs is how many arguments each subcommand wants after its name.
var nargs = map[string]int{
	"pdbtofasta":         1,
	"pickscoresfromhssp": 5,
	"pickscores":         1,
	"getproteinsize":     1,
}

func pdbToFasta(fname string, lg *log.Logger, out io.Writer) error {
	fi, err := os.Stat(fname)
	if err != nil {
		return fmt.Errorf("file specified does not exist: %w", err)
	}
	var written []string
	if fi.IsDir() {
		written, err = fasta.DirToFasta(fname, lg)
	} else {
		written, err = fasta.FileToFasta(fname, lg)
	}
	for _, w := range written {
		fmt.Fprintln(out, w)
	}
	return err
}

// errNoMatch says no chain got scores, which the caller treats as failure.
var errNoMatch = errors.New("no chain matched any alignment")

func pickFromHSSP(args []string, flags *CmdFlag, lg *log.Logger) error {
	pdbFile, pdbID := args[0], args[1]
	s, err := pdb.ReadStructure(pdbFile, lg)
	if err != nil {
		return err
	}
	tools := &hssp.Tools{
		HsspToFasta:       args[2],
		MsaToConservation: args[3],
		HsspDir:           args[4],
		Timeout:           flags.Timeout,
		Log:               lg,
	}
	res, err := tools.ConservationAndMSAs(pdbID, s)
	defer res.Close()
	if err != nil {
		return err
	}
	if len(res.Pairs) == 0 {
		return errNoMatch
	}
	base, _ := pdb.BaseName(pdbFile)
	written, err := hssp.CopyOut(res, filepath.Base(base), filepath.Dir(pdbFile))
	for _, w := range written {
		lg.Println("wrote", w)
	}
	return err
}

func pickScores(dir string, lg *log.Logger, out io.Writer) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	entries, err := pickscores.ForDir(dir, lg)
	for _, e := range entries {
		fmt.Fprintln(out, e)
	}
	return err
}

func proteinSize(fname string, lg *log.Logger, out io.Writer) error {
	nres, natom, err := pdb.ProteinSize(fname, lg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, nres, natom)
	return err
}

// MyMain runs one subcommand. args starts with the subcommand name.
// Results go to out, complaints to standard error.
func MyMain(flags *CmdFlag, args []string, out io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "missing subcommand, one of\n ", Usage)
		return common.ExitUsageError
	}
	cmd := strings.ToLower(args[0])
	n, ok := nargs[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown subcommand \"%s\", wanted one of\n  %s\n", args[0], Usage)
		return common.ExitUsageError
	}
	if len(args)-1 != n {
		fmt.Fprintf(os.Stderr, "%s wants %d arguments, got %d\n", cmd, n, len(args)-1)
		return common.ExitUsageError
	}
	lg, err := common.LogWhere(flags.LogWhere)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return common.ExitFailure
	}
	args = args[1:]
	switch cmd {
	case "pdbtofasta":
		err = pdbToFasta(args[0], lg, out)
	case "pickscoresfromhssp":
		err = pickFromHSSP(args, flags, lg)
	case "pickscores":
		err = pickScores(args[0], lg, out)
	case "getproteinsize":
		err = proteinSize(args[0], lg, out)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, cmd+":", err)
		return common.ExitFailure
	}
	return common.ExitSuccess
}
