package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrMalformedHTTPVersion = errors.New("malformed HTTP version")
)

var (
	HTTP10 = HTTPVersion{Major: 1, Minor: 0}
	HTTP11 = HTTPVersion{Major: 1, Minor: 1}
)

type HTTPVersion struct {
	Major uint
	Minor uint
}

func (v HTTPVersion) String() string {
	return fmt.Sprintf("HTTP/%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is major.minor or newer.
func (v HTTPVersion) AtLeast(major, minor uint) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// v = []byte("HTTP/1.X")
func ParseHTTPVersion(v []byte) (HTTPVersion, error) {
	rest, ok := bytes.CutPrefix(v, []byte("HTTP/"))
	if !ok {
		return HTTPVersion{}, ErrMalformedHTTPVersion
	}
	major, minor, ok := bytes.Cut(rest, []byte("."))
	if !ok {
		return HTTPVersion{}, ErrMalformedHTTPVersion
	}

	ma, err := strconv.ParseUint(string(major), 10, 8)
	if err != nil {
		return HTTPVersion{}, NewErrorFrom("parsing major version failed", err)
	}
	mi, err := strconv.ParseUint(string(minor), 10, 8)
	if err != nil {
		return HTTPVersion{}, NewErrorFrom("parsing minor version failed", err)
	}

	return HTTPVersion{Major: uint(ma), Minor: uint(mi)}, nil
}
