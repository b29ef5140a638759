package mbstring

import (
	"io"
	"log"
	"os"
)

// WARN: DEV ONLY
const debug = false

var logger = log.New(io.Discard, "mbstring: ", log.Lshortfile)

func init() {
	if debug {
		logger.SetOutput(os.Stderr)
	}
}
