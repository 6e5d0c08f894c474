package httpx

import (
	"errors"
	"strings"
)

// ErrorKind classifies failures surfaced by bodies and codecs.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindIO means a read against the backing store failed.
	KindIO
	// KindEncoding means a value could not be serialized into a body.
	KindEncoding
	// KindDecoding means body bytes were not valid text or did not parse.
	KindDecoding
)

var (
	ErrIO       = errors.New("body I/O failure")
	ErrEncoding = errors.New("body encoding failure")
	ErrDecoding = errors.New("body decoding failure")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindEncoding:
		return ErrEncoding
	case KindDecoding:
		return ErrDecoding
	}
	return nil
}

type Error struct {
	Kind ErrorKind
	msg  string
	From error
}

func NewError(msg string) *Error {
	return &Error{
		msg: msg,
	}
}

func NewErrorFrom(msg string, from error) *Error {
	return &Error{
		msg:  msg,
		From: from,
	}
}

func newKindError(kind ErrorKind, msg string, from error) *Error {
	return &Error{
		Kind: kind,
		msg:  msg,
		From: from,
	}
}

func (e *Error) Error() string {
	if e.From == nil {
		return e.msg
	}

	v := []string{e.msg, e.From.Error()}
	return strings.Join(v, " caused by error ")
}

func (e *Error) String() string {
	return e.Error()
}

func (e *Error) Unwrap() error {
	return e.From
}

// Is reports whether target is the sentinel of e's kind, so that
// errors.Is(err, ErrDecoding) holds for any decoding failure.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}
