// brokenio is a wrapper around an io.ReadCloser so we can make reads
// fail on purpose. Tests use it to check that a half read score file
// or MSA gives an error and not a short, plausible result.
// Typical use:
//	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(s)))
//	rdr.SetFailAfter(20)
// Everything then works as before, until the 20th byte.

package brokenio

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
)

// ErrBroken is returned by every read that was made to fail.
var ErrBroken = errors.New("brokenio: artificial read failure")

// BrknRdrClsr counts what goes through and fails with a probability,
// after a fixed number of bytes, or both.
type BrknRdrClsr struct {
	rdr_orig  io.ReadCloser // Wrapped reader
	probFail  float32       // fraction of reads that fail
	failAfter int           // fail once this many bytes are through, if >= 0
	nCalled   int
	nByte     int
	verbose   bool
}

// SetVerbose sets the verbosity flag to true or false
func (r *BrknRdrClsr) SetVerbose(newV bool) { r.verbose = newV }

// SetProbFail sets the probability of a read failing.
// It must be between zero and 1. We do not check.
func (r *BrknRdrClsr) SetProbFail(prob float32) { r.probFail = prob }

// SetFailAfter makes every read fail once n bytes have been delivered.
func (r *BrknRdrClsr) SetFailAfter(n int) { r.failAfter = n }

// NBytes is how much has been read so far.
func (r *BrknRdrClsr) NBytes() int { return r.nByte }

// NewReader returns a new Reader - a wrapper around the old one.
// It does not fail until told to.
func NewReader(rIn io.ReadCloser) *BrknRdrClsr {
	return &BrknRdrClsr{rdr_orig: rIn, failAfter: -1}
}

// Read passes the read through and then decides whether to spoil it.
func (r *BrknRdrClsr) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.nCalled++
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, ErrBroken
		}
		if left < len(p) {
			p = p[:left]
		}
	}
	if r.probFail > 0 && rand.Float32() < r.probFail {
		return 0, ErrBroken
	}
	n, err = r.rdr_orig.Read(p)
	r.nByte += n
	return n, err
}

// Close wraps the original Close method.
func (r *BrknRdrClsr) Close() error {
	if r.verbose {
		fmt.Println("Closing", r.nCalled, "calls and", r.nByte, "bytes")
	}
	return r.rdr_orig.Close()
}
