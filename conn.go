package httpx

import (
	"io"
)

// Reader is what messages are parsed from: header lines, then body bytes
// taken from the same buffer so nothing past the body is read ahead.
type Reader interface {
	LineReader
	Source
}

// ReadWriter is a connection messages are read from and written to.
type ReadWriter interface {
	Reader
	io.Writer
}

var _ ReadWriter = (*BufConn)(nil)
