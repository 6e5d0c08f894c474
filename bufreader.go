package httpx

import (
	"bufio"
	"io"
)

// BufferedReader adapts an external io.Reader to Source.
//
// io.EOF is sticky: once the underlying reader reports end of stream every
// later call reports it again without touching the reader. Other read errors
// are returned as-is and are sticky as well.
type BufferedReader struct {
	br  *bufio.Reader
	err error
}

func NewBufferedReader(r io.Reader) *BufferedReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, DefaultBodyBlockSize)
	}

	return &BufferedReader{br: br}
}

// FillBuffer returns whatever is buffered, reading from the underlying
// reader only if the buffer is empty. The slice is valid until the next
// call on r.
func (r *BufferedReader) FillBuffer() ([]byte, error) {
	if n := r.br.Buffered(); n > 0 {
		return r.br.Peek(n)
	}
	if r.err != nil {
		return nil, r.err
	}

	if _, err := r.br.Peek(1); err != nil {
		r.err = err
		// bufio may hold bytes that arrived together with the error
		if n := r.br.Buffered(); n > 0 {
			return r.br.Peek(n)
		}
		return nil, err
	}

	return r.br.Peek(r.br.Buffered())
}

func (r *BufferedReader) Consume(n int) {
	if n <= 0 {
		return
	}
	if b := r.br.Buffered(); n > b {
		n = b
	}
	r.br.Discard(n)
}

func (r *BufferedReader) Read(p []byte) (int, error) {
	return readBuffered(r, p)
}

// WriteTo goes through FillBuffer so a recorded error stays sticky.
func (r *BufferedReader) WriteTo(w io.Writer) (int64, error) {
	return writeBuffered(r, w)
}

func (r *BufferedReader) ReadLine() ([]byte, error) {
	if r.br.Buffered() == 0 && r.err != nil {
		return nil, r.err
	}

	line, err := ReadLine(r.br)
	if err != nil && err != ErrLineTooLong {
		r.err = err
	}

	return line, err
}
