// 3 Aug 2020

// Open a file and count the number of ">" characters. This is the
// number of sequences in an alignment. Compressed files are fine.

package main

import (
	"fmt"
	"os"
	"path"

	"github.com/andrew-torda/consprep/pkg/common"
	"github.com/andrew-torda/consprep/pkg/numseq"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "filename...")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(common.ExitUsageError)
	}
	ret := common.ExitSuccess
	for _, fname := range os.Args[1:] {
		n, err := numseq.Count(fname)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			ret = common.ExitFailure
			continue
		}
		fmt.Println(fname, n)
	}
	os.Exit(ret)
}
