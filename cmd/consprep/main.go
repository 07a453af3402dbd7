// 18 Oct 2026

package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/andrew-torda/consprep/pkg/common"
	"github.com/andrew-torda/consprep/pkg/consprep"
)

// usage
func usage() {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[opts]", consprep.Usage)
	flag.PrintDefaults()
}

// main
func main() {
	var flags consprep.CmdFlag
	flag.StringVar(&flags.LogWhere, "l", "stderr", "log to stdout, stderr, a file or \"\" for nowhere")
	flag.DurationVar(&flags.Timeout, "t", 0, "time limit for each external script, 0 means none")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(common.ExitUsageError)
	}
	os.Exit(consprep.MyMain(&flags, flag.Args(), os.Stdout))
}
