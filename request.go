package httpx

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrUnsupportedEncoding  = errors.New("transfer coding is not chunked")
)

type Request struct {
	Method        string
	RequestTarget string
	HTTPVersion   HTTPVersion

	entity
}

// NewRequest returns an HTTP/1.1 request with an empty body.
func NewRequest(method, target string) *Request {
	return &Request{
		Method:        method,
		RequestTarget: target,
		HTTPVersion:   HTTP11,
		entity: entity{
			Headers: NewHeaders(),
			body:    EmptyBody(),
		},
	}
}

func (req *Request) startLine() string {
	return strings.Join([]string{req.Method, req.RequestTarget, req.HTTPVersion.String()}, " ")
}

func parseRequestLine(line []byte) (string, string, HTTPVersion, error) {
	m, rt, v, ok := parseStartLine(line)
	if !ok || !isToken(m) || len(rt) == 0 {
		return "", "", HTTPVersion{}, ErrMalformedRequestLine
	}

	hv, err := ParseHTTPVersion(v)
	if err != nil {
		return "", "", HTTPVersion{}, err
	}

	return string(m), string(rt), hv, nil
}

// ReadRequest reads a request head from r and attaches a body that reads
// the rest of the request from r.
func ReadRequest(r Reader) (*Request, error) {
	line, err := r.ReadLine()
	// LineReader.ReadLine returns
	// * valid line data and nil error
	// OR
	// * invalid line data and non-nil error
	if err != nil {
		return nil, err
	}

	req := &Request{}
	req.Method, req.RequestTarget, req.HTTPVersion, err = parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	req.Headers, err = ReadHeaders(r)
	if err != nil {
		return nil, NewErrorFrom("ReadHeaders() failed", err)
	}

	if err := setRequestBody(req, r); err != nil {
		return nil, NewErrorFrom("setRequestBody() failed", err)
	}

	return req, nil
}

func setRequestBody(req *Request, r Reader) error {
	body, ok, err := framedBody(req.Headers, r)
	if err != nil {
		return err
	}
	if !ok {
		if req.Headers.Has("Transfer-Encoding") {
			// NOTE: identity encoding has been removed in RFC7230
			return ErrUnsupportedEncoding
		}
		// requests without framing have no body
		body = EmptyBody()
	}

	req.body = body
	return nil
}

// WriteRequest writes req to w and drains its body.
// An HTTP/1.0 request with unknown length is buffered to learn its length.
func WriteRequest(w io.Writer, req *Request) error {
	mode := sendChunked
	if !req.HTTPVersion.AtLeast(1, 1) {
		mode = sendBuffered
	}

	return writeMessage(w, req.startLine(), req.Headers, req.TakeBody(), mode)
}

func DumpRequest(w io.Writer, req *Request) {
	fmt.Fprintf(w, "%s\r\n", req.startLine())
	for _, line := range req.Headers.List() {
		fmt.Fprintf(w, "%s\r\n", line)
	}
	fmt.Fprintf(w, "\r\n%v\r\n", req.Body())
}
