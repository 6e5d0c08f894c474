package httpx

import (
	"bytes"
	"io"
)

var crlf = []byte("\r\n")

func parseStartLine(line []byte) ([]byte, []byte, []byte, bool) {
	parts := bytes.SplitN(line, []byte(" "), 3)
	if len(parts) != 3 {
		return nil, nil, nil, false
	}

	return parts[0], parts[1], parts[2], true
}

// trimOWS trims optional whitespace (SP / HTAB) around a field value.
func trimOWS(s []byte) []byte {
	return bytes.Trim(s, " \t")
}

func isToken(s []byte) bool {
	if len(s) == 0 {
		return false
	}

	for _, b := range s {
		switch b {
		case '!', '#', '$', '%', '&', '\'', '*',
			'+', '-', '.', '^', '_', '`', '|', '~':
			continue
		}
		if ('0' <= b && b <= '9') || ('A' <= b && b <= 'Z') || ('a' <= b && b <= 'z') {
			continue
		}
		return false
	}

	return true
}

func writeAll(w io.Writer, bs ...[]byte) (int64, error) {
	var t int64

	for _, b := range bs {
		for len(b) > 0 {
			n, err := w.Write(b)
			if n > 0 {
				b = b[n:]
				t += int64(n)
			}
			if err != nil {
				return t, err
			}
			if n == 0 {
				return t, io.ErrShortWrite
			}
		}
	}

	return t, nil
}
