package httpx

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	ErrMalformedResponseLine = errors.New("malformed response line")
)

type Response struct {
	HTTPVersion  HTTPVersion
	StatusCode   uint
	ReasonPhrase string

	entity
}

// NewResponse returns an HTTP/1.1 response with the standard reason phrase
// for sc and an empty body.
func NewResponse(sc uint) *Response {
	return &Response{
		HTTPVersion:  HTTP11,
		StatusCode:   sc,
		ReasonPhrase: ReasonPhrase(sc),
		entity: entity{
			Headers: NewHeaders(),
			body:    EmptyBody(),
		},
	}
}

func (res *Response) statusLine() string {
	return fmt.Sprintf("%s %03d %s", res.HTTPVersion, res.StatusCode, res.ReasonPhrase)
}

func parseStatusLine(line []byte) (HTTPVersion, uint, string, error) {
	v, sc, rp, ok := parseStartLine(line)
	if !ok {
		// reason-phrase may be omitted entirely
		if v2, sc2, found := cutSpace(line); found {
			v, sc, rp, ok = v2, sc2, nil, true
		}
	}
	if !ok {
		return HTTPVersion{}, 0, "", ErrMalformedResponseLine
	}

	hv, err := ParseHTTPVersion(v)
	if err != nil {
		return HTTPVersion{}, 0, "", err
	}

	t, err := strconv.ParseUint(string(sc), 10, 16)
	if err != nil || len(sc) != 3 {
		return HTTPVersion{}, 0, "", ErrMalformedResponseLine
	}

	return hv, uint(t), string(rp), nil
}

func cutSpace(line []byte) ([]byte, []byte, bool) {
	for i, b := range line {
		if b == ' ' {
			return line[:i], line[i+1:], true
		}
	}
	return nil, nil, false
}

// ReadResponse reads a response to req from r. The body reads the rest of
// the response from r; without framing it reads until r ends.
func ReadResponse(r Reader, req *Request) (*Response, error) {
	line, err := r.ReadLine()
	if err != nil {
		return nil, err
	}

	res := &Response{}
	res.HTTPVersion, res.StatusCode, res.ReasonPhrase, err = parseStatusLine(line)
	if err != nil {
		return nil, err
	}

	res.Headers, err = ReadHeaders(r)
	if err != nil {
		return nil, NewErrorFrom("ReadHeaders() failed", err)
	}

	if err := setResponseBody(res, r, req); err != nil {
		return nil, NewErrorFrom("setResponseBody() failed", err)
	}

	return res, nil
}

func setResponseBody(res *Response, r Reader, req *Request) error {
	if (req != nil && req.Method == "HEAD") || bodyless(res.StatusCode) {
		res.body = EmptyBody()
		return nil
	}

	if req != nil && req.Method == "CONNECT" && 200 <= res.StatusCode && res.StatusCode <= 299 {
		// tunnel, the connection belongs to the caller from here on
		res.body = BodyFromReader(r, UnknownLength)
		return nil
	}

	body, ok, err := framedBody(res.Headers, r)
	if err != nil {
		return err
	}
	if !ok {
		body = BodyFromReader(r, UnknownLength)
	}

	res.body = body
	return nil
}

// WriteResponse writes res to w and drains its body. A response to an
// HTTP/1.0 peer with unknown length is written without framing and the
// caller must close the connection afterwards.
func WriteResponse(w io.Writer, res *Response) error {
	mode := sendChunked
	if !res.HTTPVersion.AtLeast(1, 1) {
		mode = sendUntilClose
	}

	return writeMessage(w, res.statusLine(), res.Headers, res.TakeBody(), mode)
}

func DumpResponse(w io.Writer, res *Response) {
	fmt.Fprintf(w, "%s\r\n", res.statusLine())
	for _, line := range res.Headers.List() {
		fmt.Fprintf(w, "%s\r\n", line)
	}
	fmt.Fprintf(w, "\r\n%v\r\n", res.Body())
}
