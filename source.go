package httpx

import (
	"errors"
	"io"
)

// Source is the buffered-read contract every body backing store satisfies.
//
// FillBuffer exposes the next available chunk without consuming it and
// returns an empty chunk with io.EOF once the source is exhausted. Consume
// advances past n bytes of the last exposed chunk. Read copies into p and
// returns (0, io.EOF) at the end, however many times it is called.
type Source interface {
	io.Reader
	FillBuffer() ([]byte, error)
	Consume(n int)
}

// readBuffered implements Read on top of FillBuffer and Consume.
func readBuffered(s Source, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	buf, err := s.FillBuffer()
	if len(buf) == 0 {
		return 0, err
	}

	n := copy(p, buf)
	s.Consume(n)

	return n, nil
}

// writeBuffered drains s into w chunk by chunk. io.EOF ends the copy
// cleanly, any other error from s is returned.
func writeBuffered(s Source, w io.Writer) (int64, error) {
	var t int64

	for {
		buf, err := s.FillBuffer()
		if len(buf) > 0 {
			n, werr := writeAll(w, buf)
			s.Consume(int(n))
			t += n
			if werr != nil {
				return t, werr
			}
		}
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return t, err
		}
	}
}

var (
	_ Source = emptySource{}
	_ Source = (*cursorSource)(nil)
	_ Source = (*BufferedReader)(nil)
)

type emptySource struct{}

func (emptySource) FillBuffer() ([]byte, error) { return nil, io.EOF }

func (emptySource) Consume(int) {}

func (emptySource) Read([]byte) (int, error) { return 0, io.EOF }

var errNegativeOffset = errors.New("negative position")

// cursorSource serves an owned byte slice in place.
type cursorSource struct {
	data []byte
	off  int
}

func newCursorSource(b []byte) *cursorSource {
	return &cursorSource{data: b}
}

func (c *cursorSource) FillBuffer() ([]byte, error) {
	if c.off >= len(c.data) {
		return nil, io.EOF
	}

	return c.data[c.off:], nil
}

func (c *cursorSource) Consume(n int) {
	if n <= 0 {
		return
	}
	c.off = min(c.off+n, len(c.data))
}

func (c *cursorSource) Read(p []byte) (int, error) {
	if c.off >= len(c.data) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}

	n := copy(p, c.data[c.off:])
	c.off += n

	return n, nil
}

func (c *cursorSource) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(c.off) + offset
	case io.SeekEnd:
		pos = int64(len(c.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if pos < 0 {
		return 0, errNegativeOffset
	}

	// clamped to the end, reads then report EOF
	c.off = int(min(pos, int64(len(c.data))))
	return int64(c.off), nil
}

func (c *cursorSource) WriteTo(w io.Writer) (int64, error) {
	n, err := writeAll(w, c.data[c.off:])
	c.off += int(n)

	return n, err
}
