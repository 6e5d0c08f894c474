package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	MaxChunkHeaderSize = 512
)

var (
	ErrTooLargeChunkHeader = errors.New("too large chunk header")
	ErrMalformedChunk      = errors.New("malformed chunk")
)

// ChunkedReader decodes a chunked transfer coding. Chunk data is exposed
// straight from the underlying buffer. Trailers is set once the last chunk
// has been read.
type ChunkedReader struct {
	r        Reader
	Trailers *Headers
	remain   uint64 // left in the current chunk
	needCRLF bool   // a chunk's data ended and its CRLF was not read yet
	err      error
}

func NewChunkedReader(r Reader) *ChunkedReader {
	return &ChunkedReader{
		r: r,
	}
}

func (r *ChunkedReader) nextChunk() error {
	if r.needCRLF {
		line, err := r.r.ReadLine()
		if err != nil {
			return NewErrorFrom("reading chunk data terminator failed", unexpectedEOF(err))
		}
		if len(line) != 0 {
			return ErrMalformedChunk
		}
		r.needCRLF = false
	}

	size, err := readChunkHeader(r.r)
	if err != nil {
		return NewErrorFrom("reading chunk header failed", unexpectedEOF(err))
	}

	// chunk-size == 0 means end of chunks(last-chunk)
	if size == 0 {
		t, err := ReadHeaders(r.r)
		if err != nil {
			return NewErrorFrom("reading trailers failed", unexpectedEOF(err))
		}
		r.Trailers = t
		return io.EOF
	}

	r.remain = size
	r.needCRLF = true
	return nil
}

func (r *ChunkedReader) FillBuffer() ([]byte, error) {
	for r.remain == 0 {
		if r.err != nil {
			return nil, r.err
		}
		if err := r.nextChunk(); err != nil {
			r.err = err
			return nil, err
		}
	}

	buf, err := r.r.FillBuffer()
	if uint64(len(buf)) > r.remain {
		buf = buf[:r.remain]
	}
	if len(buf) > 0 {
		return buf, nil
	}

	if err == io.EOF || err == nil {
		err = io.ErrUnexpectedEOF
	}
	r.err = err

	return nil, err
}

func (r *ChunkedReader) Consume(n int) {
	if n <= 0 {
		return
	}
	if uint64(n) > r.remain {
		n = int(r.remain)
	}

	r.r.Consume(n)
	r.remain -= uint64(n)
}

func (r *ChunkedReader) Read(p []byte) (int, error) {
	return readBuffered(r, p)
}

// unexpectedEOF reports a stream ending inside chunk framing.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func readChunkHeader(lr LineReader) (uint64, error) {
	line, err := lr.ReadLine()
	if err != nil {
		return 0, err
	}
	if len(line)+2 > MaxChunkHeaderSize {
		return 0, ErrTooLargeChunkHeader
	}

	s := line
	// chunk-ext is ignored
	if i := bytes.IndexByte(s, ';'); i != -1 {
		s = s[:i]
	}

	size, err := strconv.ParseUint(string(trimOWS(s)), 16, 64)
	if err != nil {
		return 0, NewErrorFrom("parsing chunk size failed", err)
	}

	return size, nil
}

// ChunkedWriter encodes writes as chunks. Close writes the last chunk and
// Trailers, it does not close w.
type ChunkedWriter struct {
	w        io.Writer
	Trailers *Headers
}

func NewChunkedWriter(w io.Writer) *ChunkedWriter {
	return &ChunkedWriter{w: w}
}

func (cw *ChunkedWriter) Write(p []byte) (int, error) {
	// a zero size chunk would end the body
	if len(p) == 0 {
		return 0, nil
	}

	head := []byte(fmt.Sprintf("%x\r\n", len(p)))
	if _, err := writeAll(cw.w, head, p, crlf); err != nil {
		return 0, err
	}

	return len(p), nil
}

func (cw *ChunkedWriter) Close() error {
	bs := [][]byte{[]byte("0\r\n")}
	for _, l := range cw.Trailers.List() {
		bs = append(bs, l, crlf)
	}
	bs = append(bs, crlf)

	_, err := writeAll(cw.w, bs...)
	return err
}
