package httpx

import (
	"net"
)

// BufConn is a net.Conn whose reads go through a BufferedReader, so that
// message heads and bodies can be parsed from the same buffer.
type BufConn struct {
	C net.Conn
	*BufferedReader
}

func NewBufConn(c net.Conn) *BufConn {
	return &BufConn{
		C:              c,
		BufferedReader: NewBufferedReader(c),
	}
}

func (bc *BufConn) Write(p []byte) (int, error) {
	n, err := writeAll(bc.C, p)
	return int(n), err
}

func (bc *BufConn) Close() error {
	return bc.C.Close()
}
