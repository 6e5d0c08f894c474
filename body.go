package httpx

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"unicode/utf8"
)

const (
	DefaultBodyBlockSize = 8192

	// UnknownLength marks a body whose size is not known up front.
	UnknownLength int64 = -1

	initialBodyCap = 1024
	// declared lengths are hints, never preallocate more than this from one
	maxPrealloc = 1 << 20
)

// Body is the streaming body of a Request or Response.
//
// A Body reads from exactly one backing store and is meant to be consumed
// once, by one goroutine at a time. The declared length is recorded when the
// Body is built: exact for in-memory contents, taken on trust for readers.
// It is never checked against the bytes actually produced.
//
// Each Body also carries a fallback content type that the owning message
// uses when no Content-Type header has been set.
type Body struct {
	src    Source
	mime   MIME
	length int64
}

// EmptyBody returns a body of length 0.
func EmptyBody() *Body {
	return &Body{
		src:    emptySource{},
		mime:   MIMEByteStream,
		length: 0,
	}
}

// BodyFromReader wraps r. A negative length means the size is unknown,
// which usually makes the message use chunked framing. A reader that
// already implements Source is used directly.
func BodyFromReader(r io.Reader, length int64) *Body {
	if length < 0 {
		length = UnknownLength
	}

	src, ok := r.(Source)
	if !ok {
		src = NewBufferedReader(r)
	}

	return &Body{
		src:    src,
		mime:   MIMEByteStream,
		length: length,
	}
}

// BodyFromBytes serves b in place; the body takes ownership of b.
func BodyFromBytes(b []byte) *Body {
	return &Body{
		src:    newCursorSource(b),
		mime:   MIMEByteStream,
		length: int64(len(b)),
	}
}

func BodyFromString(s string) *Body {
	return &Body{
		src:    newCursorSource([]byte(s)),
		mime:   MIMEPlain,
		length: int64(len(s)),
	}
}

// BodyFromJSON serializes v as JSON.
func BodyFromJSON(v any) (*Body, error) {
	return BodyFromValue(v, JSONCodec{})
}

// BodyFromValue serializes v with c. The body's fallback content type is
// c.ContentType(). On failure no body is returned.
func BodyFromValue(v any, c Codec) (*Body, error) {
	b, err := c.Marshal(v)
	if err != nil {
		return nil, newKindError(KindEncoding,
			fmt.Sprintf("encoding %s body failed", c.ContentType().Essence()), err)
	}

	return &Body{
		src:    newCursorSource(b),
		mime:   c.ContentType(),
		length: int64(len(b)),
	}, nil
}

// AsBody converts raw bytes or text into a body with an exact length.
func AsBody[T []byte | string](v T) *Body {
	switch v := any(v).(type) {
	case string:
		return BodyFromString(v)
	case []byte:
		return BodyFromBytes(v)
	}
	panic("unreachable")
}

// Len returns the declared length and whether it is known.
// It does not shrink as the body is read.
func (b *Body) Len() (int64, bool) {
	if b.length < 0 {
		return 0, false
	}
	return b.length, true
}

// IsEmpty reports whether the declared length is zero. known is false when
// the length is unknown.
func (b *Body) IsEmpty() (empty, known bool) {
	if b.length < 0 {
		return false, false
	}
	return b.length == 0, true
}

func (b *Body) contentType() MIME {
	return b.mime
}

func (b *Body) FillBuffer() ([]byte, error) {
	return b.src.FillBuffer()
}

func (b *Body) Consume(n int) {
	b.src.Consume(n)
}

func (b *Body) Read(p []byte) (int, error) {
	return b.src.Read(p)
}

// WriteTo drains the body into w chunk by chunk, without an intermediate
// buffer.
func (b *Body) WriteTo(w io.Writer) (int64, error) {
	return writeBuffered(b.src, w)
}

// ReadAll drains the body.
func (b *Body) ReadAll() ([]byte, error) {
	return b.drain(initialBodyCap)
}

// Text drains the body and returns it as a string. Bytes that are not valid
// UTF-8 are a decoding failure.
func (b *Body) Text() (string, error) {
	capacity := 0
	if n, ok := b.Len(); ok {
		capacity = int(min(n, maxPrealloc))
	}

	buf, err := b.drain(capacity)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", newKindError(KindDecoding, "body is not valid UTF-8", nil)
	}

	return string(buf), nil
}

// DecodeJSON drains the body and decodes it as JSON into v.
func (b *Body) DecodeJSON(v any) error {
	return b.Decode(v, JSONCodec{})
}

// Decode drains the body and decodes it into v with c.
func (b *Body) Decode(v any, c Codec) error {
	buf, err := b.drain(initialBodyCap)
	if err != nil {
		return err
	}

	if err := c.Unmarshal(buf, v); err != nil {
		return newKindError(KindDecoding,
			fmt.Sprintf("decoding %s body failed", c.ContentType().Essence()), err)
	}

	return nil
}

// DecodeJSON drains b and decodes it as a T.
func DecodeJSON[T any](b *Body) (T, error) {
	var v T
	err := b.DecodeJSON(&v)
	return v, err
}

// Reader hands the backing store to the caller. The body reads as empty
// afterwards.
func (b *Body) Reader() Source {
	src := b.src
	b.src = emptySource{}
	return src
}

func (b *Body) drain(capacity int) ([]byte, error) {
	buf := make([]byte, 0, capacity)

	for {
		chunk, err := b.src.FillBuffer()
		if len(chunk) > 0 {
			buf = append(buf, chunk...)
			b.src.Consume(len(chunk))
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return nil, newKindError(KindIO, "reading body failed", err)
		}
	}
}

func (b *Body) lengthString() string {
	if b.length < 0 {
		return "unknown"
	}
	return strconv.FormatInt(b.length, 10)
}

// String renders the declared length only; contents are never read.
func (b *Body) String() string {
	return "Body{length: " + b.lengthString() + "}"
}

func (b *Body) GoString() string {
	return b.String()
}

// LogValue implements slog.LogValuer with the same redaction as String.
func (b *Body) LogValue() slog.Value {
	if b.length < 0 {
		return slog.GroupValue(slog.String("length", "unknown"))
	}
	return slog.GroupValue(slog.Int64("length", b.length))
}
