package httpx

import (
	"io"
)

// ContentLengthReader exposes exactly length bytes of r. If r ends early
// the reader fails with io.ErrUnexpectedEOF.
type ContentLengthReader struct {
	r      Source
	remain int64
	err    error
}

func NewContentLengthReader(r Source, length int64) *ContentLengthReader {
	clr := &ContentLengthReader{
		r:      r,
		remain: length,
	}

	if length <= 0 {
		// "Content-Length: 0" is possible case.
		clr.err = io.EOF
	}

	return clr
}

func (r *ContentLengthReader) FillBuffer() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}

	buf, err := r.r.FillBuffer()
	if int64(len(buf)) > r.remain {
		buf = buf[:r.remain]
	}
	if len(buf) > 0 {
		return buf, nil
	}

	if err == io.EOF || err == nil {
		// an empty chunk without error counts as a truncated body too
		err = io.ErrUnexpectedEOF
	}
	r.err = err

	return nil, err
}

func (r *ContentLengthReader) Consume(n int) {
	if n <= 0 || r.err != nil {
		return
	}
	if int64(n) > r.remain {
		n = int(r.remain)
	}

	r.r.Consume(n)
	if r.remain -= int64(n); r.remain == 0 {
		r.err = io.EOF // for next call
	}
}

func (r *ContentLengthReader) Read(p []byte) (int, error) {
	return readBuffered(r, p)
}

// Remaining returns how many bytes are still expected.
func (r *ContentLengthReader) Remaining() int64 {
	return r.remain
}
