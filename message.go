package httpx

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrBodyLengthMismatch = errors.New("body ended before its declared length")
)

// Message is implemented by Request and Response.
type Message interface {
	Header() *Headers
	Body() *Body
	SetBody(b *Body)
	TakeBody() *Body
	ContentType() MIME
	SetContentType(m MIME)
}

var (
	_ Message = (*Request)(nil)
	_ Message = (*Response)(nil)
)

// entity is the header set and body shared by requests and responses.
type entity struct {
	Headers *Headers
	body    *Body
}

func (e *entity) Header() *Headers {
	if e.Headers == nil {
		e.Headers = NewHeaders()
	}
	return e.Headers
}

// Body returns the message body, never nil.
func (e *entity) Body() *Body {
	if e.body == nil {
		e.body = EmptyBody()
	}
	return e.body
}

// SetBody replaces the body. If no Content-Type is set yet, the body's
// fallback type becomes the message's Content-Type.
func (e *entity) SetBody(b *Body) {
	if b == nil {
		b = EmptyBody()
	}
	e.body = b

	if !e.Header().Has("Content-Type") {
		e.Headers.Set("Content-Type", b.contentType().String())
	}
}

// TakeBody removes the body from the message, leaving an empty one.
func (e *entity) TakeBody() *Body {
	b := e.Body()
	e.body = EmptyBody()
	return b
}

// ContentType returns the Content-Type header, or the body's fallback type
// when the header is absent.
func (e *entity) ContentType() MIME {
	if v := e.Headers.Get("Content-Type"); v != "" {
		return MIME(v)
	}
	return e.Body().contentType()
}

func (e *entity) SetContentType(m MIME) {
	e.Header().Set("Content-Type", m.String())
}

func (e *entity) BodyBytes() ([]byte, error) {
	return e.TakeBody().ReadAll()
}

func (e *entity) BodyString() (string, error) {
	return e.TakeBody().Text()
}

func (e *entity) BodyJSON(v any) error {
	return e.TakeBody().DecodeJSON(v)
}

// BodyDecode decodes the body with the codec registered for the message's
// content type, falling back to JSON.
func (e *entity) BodyDecode(v any) error {
	c, ok := CodecFor(e.ContentType())
	if !ok {
		c = JSONCodec{}
	}
	return e.TakeBody().Decode(v, c)
}

func isChunked(values []string) bool {
	if i := len(values); i > 0 {
		return strings.EqualFold(values[i-1], "chunked")
	}

	return false
}

func parseContentLength(values []string) (int64, error) {
	if len(values) == 0 {
		return 0, errors.New("empty Content-Length")
	}

	// 1*DIGIT only, ParseInt would also take a sign
	if !isDigits(values[0]) {
		return 0, NewError("invalid Content-Length")
	}
	cl, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return 0, NewErrorFrom("invalid Content-Length", err)
	}
	// identical repeated values are tolerated
	for _, v := range values[1:] {
		if v != values[0] {
			return 0, errors.New("multiple Content-Length value found")
		}
	}

	return cl, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// framedBody picks the body framing from h. ok is false when h names
// neither chunked coding nor a length.
func framedBody(h *Headers, r Reader) (*Body, bool, error) {
	if vs := h.Values("Transfer-Encoding"); vs != nil {
		if !isChunked(vs) {
			return nil, false, nil
		}
		return BodyFromReader(NewChunkedReader(r), UnknownLength), true, nil
	}

	if vs := h.Values("Content-Length"); vs != nil {
		cl, err := parseContentLength(vs)
		if err != nil {
			return nil, false, err
		}
		if cl == 0 {
			return EmptyBody(), true, nil
		}
		return BodyFromReader(NewContentLengthReader(r, cl), cl), true, nil
	}

	return nil, false, nil
}

// unknownLengthMode is how a body without a declared length is sent.
type unknownLengthMode int

const (
	sendChunked unknownLengthMode = iota
	sendBuffered
	sendUntilClose
)

// writeMessage writes the start line, the headers with framing fields
// derived from body, and the body. The declared length is trusted for
// Content-Length; a body ending early fails with ErrBodyLengthMismatch and
// extra bytes are not sent.
func writeMessage(w io.Writer, startLine string, h *Headers, body *Body, mode unknownLengthMode) error {
	if body == nil {
		body = EmptyBody()
	}

	length, known := body.Len()
	if !known && mode == sendBuffered {
		buf, err := body.ReadAll()
		if err != nil {
			return err
		}
		body = BodyFromBytes(buf)
		length, known = int64(len(buf)), true
	}

	lines := [][]byte{[]byte(startLine), crlf}
	for _, l := range h.List() {
		name, _, _ := strings.Cut(string(l), ":")
		if strings.EqualFold(name, "Content-Length") || strings.EqualFold(name, "Transfer-Encoding") {
			continue
		}
		lines = append(lines, l, crlf)
	}
	switch {
	case known:
		lines = append(lines, []byte("Content-Length: "+strconv.FormatInt(length, 10)), crlf)
	case mode == sendChunked:
		lines = append(lines, []byte("Transfer-Encoding: chunked"), crlf)
	}
	lines = append(lines, crlf)

	if _, err := writeAll(w, lines...); err != nil {
		return err
	}

	if !known {
		if mode == sendUntilClose {
			_, err := body.WriteTo(w)
			return err
		}

		cw := NewChunkedWriter(w)
		if _, err := body.WriteTo(cw); err != nil {
			return err
		}
		return cw.Close()
	}

	n, err := io.CopyN(w, body, length)
	if err == io.EOF {
		return NewErrorFrom(fmt.Sprintf("wrote %d of %d bytes", n, length), ErrBodyLengthMismatch)
	}

	return err
}
