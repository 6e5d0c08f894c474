package httpx

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReader(s string) *BufferedReader {
	return NewBufferedReader(strings.NewReader(s))
}

func headerLines(h *Headers) []string {
	var ret []string
	for _, l := range h.List() {
		ret = append(ret, string(l))
	}
	return ret
}

func TestReadRequestContentLength(t *testing.T) {
	payload := `{"name":"Chashu"}`
	raw := fmt.Sprintf("POST /cats HTTP/1.1\r\nHost: example.com\r\nContent-Type: application/json\r\nContent-Length: %d\r\n\r\n%sGET /next HTTP/1.1\r\nHost: example.com\r\n\r\n",
		len(payload), payload)
	r := newTestReader(raw)

	req, err := ReadRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/cats", req.RequestTarget)
	assert.Equal(t, HTTP11, req.HTTPVersion)
	assert.Equal(t, MIMEJSON, req.ContentType())

	n, ok := req.Body().Len()
	assert.True(t, ok)
	assert.Equal(t, int64(len(payload)), n)

	var c cat
	require.NoError(t, req.BodyJSON(&c))
	assert.Equal(t, "Chashu", c.Name)

	// the body stopped at its length, the next request is intact
	next, err := ReadRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "/next", next.RequestTarget)
	empty, known := next.Body().IsEmpty()
	assert.True(t, empty)
	assert.True(t, known)

	_, err = ReadRequest(r)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadRequestChunked(t *testing.T) {
	raw := "POST /upload HTTP/1.1\r\nTransfer-Encoding: gzip, chunked\r\n\r\n5\r\nHello\r\n5\r\n Nori\r\n0\r\n\r\n"

	req, err := ReadRequest(newTestReader(raw))
	require.NoError(t, err)

	_, ok := req.Body().Len()
	assert.False(t, ok)

	s, err := req.BodyString()
	require.NoError(t, err)
	assert.Equal(t, "Hello Nori", s)
}

func TestReadRequestErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"malformed request line", "GET /\r\n\r\n", ErrMalformedRequestLine},
		{"bad version", "GET / HTTQ/1.1\r\n\r\n", ErrMalformedHTTPVersion},
		{"not chunked", "POST / HTTP/1.1\r\nTransfer-Encoding: gzip\r\n\r\n", ErrUnsupportedEncoding},
		{"conflicting lengths", "POST / HTTP/1.1\r\nContent-Length: 3\r\nContent-Length: 4\r\n\r\nabcd", nil},
		{"negative length", "POST / HTTP/1.1\r\nContent-Length: -1\r\n\r\n", nil},
		{"signed length", "POST / HTTP/1.1\r\nContent-Length: +3\r\n\r\nabc", nil},
		{"length with spaces inside", "POST / HTTP/1.1\r\nContent-Length: 1 2\r\n\r\nabc", nil},
		{"hex length", "POST / HTTP/1.1\r\nContent-Length: 0x3\r\n\r\nabc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ReadRequest(newTestReader(tt.raw))
			assert.Nil(t, req)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestReadResponseBodies(t *testing.T) {
	t.Run("response to HEAD", func(t *testing.T) {
		res, err := ReadResponse(newTestReader("HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\n"), NewRequest("HEAD", "/"))
		require.NoError(t, err)
		empty, known := res.Body().IsEmpty()
		assert.True(t, empty && known)
	})

	t.Run("no content", func(t *testing.T) {
		res, err := ReadResponse(newTestReader("HTTP/1.1 204 No Content\r\n\r\n"), NewRequest("GET", "/"))
		require.NoError(t, err)
		assert.Equal(t, uint(204), res.StatusCode)
		assert.Equal(t, "No Content", res.ReasonPhrase)
		empty, known := res.Body().IsEmpty()
		assert.True(t, empty && known)
	})

	t.Run("read until close", func(t *testing.T) {
		res, err := ReadResponse(newTestReader("HTTP/1.0 200 OK\r\nServer: test\r\n\r\nHello Nori"), NewRequest("GET", "/"))
		require.NoError(t, err)
		assert.Equal(t, HTTP10, res.HTTPVersion)
		_, ok := res.Body().Len()
		assert.False(t, ok)

		s, err := res.BodyString()
		require.NoError(t, err)
		assert.Equal(t, "Hello Nori", s)
	})

	t.Run("missing reason phrase", func(t *testing.T) {
		res, err := ReadResponse(newTestReader("HTTP/1.1 404\r\nContent-Length: 0\r\n\r\n"), nil)
		require.NoError(t, err)
		assert.Equal(t, uint(404), res.StatusCode)
		assert.Empty(t, res.ReasonPhrase)
	})

	t.Run("tunnel after CONNECT", func(t *testing.T) {
		res, err := ReadResponse(newTestReader("HTTP/1.1 200 Connection Established\r\n\r\nTUNNELBYTES"), NewRequest("CONNECT", "example.com:443"))
		require.NoError(t, err)
		assert.Equal(t, "Connection Established", res.ReasonPhrase)
		_, ok := res.Body().Len()
		assert.False(t, ok)

		got, err := res.BodyBytes()
		require.NoError(t, err)
		assert.Equal(t, "TUNNELBYTES", string(got))
	})

	t.Run("malformed status", func(t *testing.T) {
		_, err := ReadResponse(newTestReader("HTTP/1.1 2000 OK\r\n\r\n"), nil)
		assert.ErrorIs(t, err, ErrMalformedResponseLine)
	})
}

func TestSetBodyContentType(t *testing.T) {
	req := NewRequest("POST", "/")
	assert.Equal(t, MIMEByteStream, req.ContentType())

	req.SetBody(BodyFromString("Hello Nori"))
	assert.Equal(t, MIMEPlain, req.ContentType())
	assert.Equal(t, string(MIMEPlain), req.Headers.Get("Content-Type"))

	// an explicit type wins over the body's fallback
	res := NewResponse(200)
	res.SetContentType("text/html")
	body, err := BodyFromJSON(cat{Name: "Chashu"})
	require.NoError(t, err)
	res.SetBody(body)
	assert.Equal(t, MIME("text/html"), res.ContentType())

	taken := res.TakeBody()
	assert.Same(t, body, taken)
	empty, _ := res.Body().IsEmpty()
	assert.True(t, empty)
}

func TestBodyDecodeByContentType(t *testing.T) {
	res := NewResponse(200)
	body, err := BodyFromValue(cat{Name: "Nori"}, MsgPackCodec{})
	require.NoError(t, err)
	res.SetBody(body)

	var c cat
	require.NoError(t, res.BodyDecode(&c))
	assert.Equal(t, "Nori", c.Name)
}

func TestWriteResponse(t *testing.T) {
	res := NewResponse(200)
	res.Headers.Set("Content-Length", "999")
	res.SetBody(BodyFromString("Hello Nori"))

	var buf bytes.Buffer
	require.NoError(t, WriteResponse(&buf, res))
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain;charset=utf-8\r\nContent-Length: 10\r\n\r\nHello Nori", buf.String())

	back, err := ReadResponse(NewBufferedReader(&buf), NewRequest("GET", "/"))
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Content-Type: text/plain;charset=utf-8", "Content-Length: 10"}, headerLines(back.Headers)); diff != "" {
		t.Errorf("diff : %v", diff)
	}
	s, err := back.BodyString()
	require.NoError(t, err)
	assert.Equal(t, "Hello Nori", s)
}

func TestWriteUnknownLength(t *testing.T) {
	t.Run("chunked on HTTP/1.1", func(t *testing.T) {
		req := NewRequest("PUT", "/blob")
		req.SetBody(BodyFromReader(strings.NewReader("Hello Chashu"), UnknownLength))

		var buf bytes.Buffer
		require.NoError(t, WriteRequest(&buf, req))
		assert.Contains(t, buf.String(), "Transfer-Encoding: chunked\r\n")

		back, err := ReadRequest(NewBufferedReader(&buf))
		require.NoError(t, err)
		s, err := back.BodyString()
		require.NoError(t, err)
		assert.Equal(t, "Hello Chashu", s)
	})

	t.Run("buffered request on HTTP/1.0", func(t *testing.T) {
		req := NewRequest("PUT", "/blob")
		req.HTTPVersion = HTTP10
		req.SetBody(BodyFromReader(strings.NewReader("Hello Chashu"), UnknownLength))

		var buf bytes.Buffer
		require.NoError(t, WriteRequest(&buf, req))
		assert.Contains(t, buf.String(), "Content-Length: 12\r\n")
		assert.NotContains(t, buf.String(), "Transfer-Encoding")
	})

	t.Run("unframed response on HTTP/1.0", func(t *testing.T) {
		res := NewResponse(200)
		res.HTTPVersion = HTTP10
		res.SetBody(BodyFromReader(strings.NewReader("Hello Chashu"), UnknownLength))

		var buf bytes.Buffer
		require.NoError(t, WriteResponse(&buf, res))
		assert.Equal(t, "HTTP/1.0 200 OK\r\nContent-Type: application/octet-stream\r\n\r\nHello Chashu", buf.String())
	})
}

func TestWriteDeclaredLengthMismatch(t *testing.T) {
	t.Run("short body", func(t *testing.T) {
		req := NewRequest("POST", "/")
		req.SetBody(BodyFromReader(strings.NewReader("abc"), 10))

		err := WriteRequest(io.Discard, req)
		assert.ErrorIs(t, err, ErrBodyLengthMismatch)
	})

	t.Run("long body is cut at the declared length", func(t *testing.T) {
		req := NewRequest("POST", "/")
		req.SetBody(BodyFromReader(strings.NewReader("abcdef"), 3))

		var buf bytes.Buffer
		require.NoError(t, WriteRequest(&buf, req))
		assert.True(t, strings.HasSuffix(buf.String(), "\r\n\r\nabc"))
	})
}

func TestDumpHidesBody(t *testing.T) {
	req := NewRequest("POST", "/login")
	req.SetBody(BodyFromString("password=hunter2"))

	var buf bytes.Buffer
	DumpRequest(&buf, req)
	assert.Contains(t, buf.String(), "POST /login HTTP/1.1\r\n")
	assert.Contains(t, buf.String(), "Body{length: 16}")
	assert.NotContains(t, buf.String(), "hunter2")

	res := NewResponse(200)
	res.SetBody(BodyFromString("token=abc"))
	buf.Reset()
	DumpResponse(&buf, res)
	assert.Contains(t, buf.String(), "HTTP/1.1 200 OK\r\n")
	assert.NotContains(t, buf.String(), "token=abc")
}
