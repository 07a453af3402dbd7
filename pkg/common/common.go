// 29 Apr 2020
// Things used by every command and most of the tests.

package common

import (
	"fmt"
	"io"
	"os"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

const GapChar byte = '-' // a minus sign is always used for gaps

// DefaultChainID is given to a chain which comes without a name.
const DefaultChainID = "A"

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
// An optional suffix becomes the end of the file name, so a test
// can make something that looks like "xxx.pdb".
func WrtTemp(s string, suffix ...string) (string, error) {
	pattern := "_del_me_testing"
	if suffix != nil {
		pattern += "*" + suffix[0]
	}
	f_tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("tempfile fail: %w", err)
	}
	defer f_tmp.Close()
	if _, err := io.WriteString(f_tmp, s); err != nil {
		return "", fmt.Errorf("writing string to temp file %v: %w", f_tmp.Name(), err)
	}
	return f_tmp.Name(), nil
}

// Exists says if a file or directory is there. Permission problems
// count as "not there", since we could not use it anyway.
func Exists(fname string) bool {
	if fname == "" {
		return false
	}
	_, err := os.Stat(fname)
	return err == nil
}
