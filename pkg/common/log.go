package common

import (
	"io"
	"log"
	"os"
)

// LogWhere decides where to send logged output.
// "" throws it away, "stdout" and "stderr" are the streams and
// anything else is a file name which is appended to.
func LogWhere(outinfo string) (*log.Logger, error) {
	var iowriter io.Writer
	switch outinfo {
	case "":
		iowriter = io.Discard
	case "stdout":
		iowriter = os.Stdout
	case "stderr":
		iowriter = os.Stderr
	default:
		var err error
		iowriter, err = os.OpenFile(outinfo, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
	}
	return log.New(iowriter, "", log.Lshortfile), nil
}

// Quiet is what a package uses when the caller did not give it a logger.
func Quiet(lg *log.Logger) *log.Logger {
	if lg == nil {
		return log.New(io.Discard, "", 0)
	}
	return lg
}
