package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

const (
	maxLineCount = 200
)

var (
	ErrEOHNotFound   = errors.New("end of header(empty line) not found")
	ErrColonNotFound = errors.New("header field delimiter(':') not found")
	ErrInvalidName   = errors.New("invalid header field name")
)

type field struct {
	name  string // as received
	value string
}

// Headers keeps header fields in arrival order. Lookups are case-insensitive.
// Obsolete line folding is unfolded into a single space while reading.
type Headers struct {
	fields []field
}

func NewHeaders() *Headers {
	return &Headers{}
}

// Get returns the first value of name, or "" if there is none.
func (h *Headers) Get(name string) string {
	if h == nil {
		return ""
	}

	for _, f := range h.fields {
		if strings.EqualFold(f.name, name) {
			return f.value
		}
	}

	return ""
}

// Has reports whether at least one field named name exists.
func (h *Headers) Has(name string) bool {
	if h == nil {
		return false
	}

	for _, f := range h.fields {
		if strings.EqualFold(f.name, name) {
			return true
		}
	}

	return false
}

// Values returns every comma separated element of every field named name.
func (h *Headers) Values(name string) []string {
	if h == nil {
		return nil
	}

	var ret []string
	for _, f := range h.fields {
		if !strings.EqualFold(f.name, name) {
			continue
		}
		for _, v := range strings.Split(f.value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				ret = append(ret, v)
			}
		}
	}

	return ret
}

// Set replaces all fields named name with a single one.
func (h *Headers) Set(name, value string) {
	if h == nil {
		return
	}

	h.Del(name)
	h.Add(name, value)
}

func (h *Headers) Add(name, value string) {
	if h == nil {
		return
	}

	h.fields = append(h.fields, field{name: name, value: value})
}

func (h *Headers) Del(name string) {
	if h == nil {
		return
	}

	kept := h.fields[:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.name, name) {
			kept = append(kept, f)
		}
	}
	h.fields = kept
}

// List returns the fields as "Name: value" lines.
func (h *Headers) List() [][]byte {
	if h == nil {
		return nil
	}

	ret := make([][]byte, 0, len(h.fields))
	for _, f := range h.fields {
		ret = append(ret, []byte(f.name+": "+f.value))
	}

	return ret
}

func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.fields)
}

// ReadHeaders reads fields up to and including the empty line ending them.
func ReadHeaders(lr LineReader) (*Headers, error) {
	h := NewHeaders()

	for i := 0; i < maxLineCount; i++ {
		line, err := lr.ReadLine()
		if err != nil {
			// the end of header was not reached, nothing to return
			return nil, err
		}
		if len(line) == 0 {
			return h, nil
		}

		if line[0] == ' ' || line[0] == '\t' {
			// obs-fold
			if len(h.fields) == 0 {
				return nil, NewError(fmt.Sprintf("continuation line without field at %d", i))
			}
			last := &h.fields[len(h.fields)-1]
			last.value = strings.TrimSpace(last.value + " " + string(trimOWS(line)))
			continue
		}

		name, value, err := parseField(line)
		if err != nil {
			return nil, NewErrorFrom(fmt.Sprintf("parsing header field failed at %d", i), err)
		}
		h.fields = append(h.fields, field{name: name, value: value})
	}

	return nil, ErrEOHNotFound
}

func parseField(line []byte) (string, string, error) {
	i := bytes.IndexByte(line, ':')
	if i == -1 {
		return "", "", ErrColonNotFound
	}

	name := line[:i]
	if !isToken(name) {
		return "", "", ErrInvalidName
	}

	return string(name), string(trimOWS(line[i+1:])), nil
}
