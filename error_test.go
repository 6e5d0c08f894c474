package httpx

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := io.ErrUnexpectedEOF

	tests := []struct {
		kind     ErrorKind
		sentinel error
	}{
		{KindIO, ErrIO},
		{KindEncoding, ErrEncoding},
		{KindDecoding, ErrDecoding},
	}

	for _, tt := range tests {
		err := newKindError(tt.kind, "failed", cause)
		assert.ErrorIs(t, err, tt.sentinel)
		assert.ErrorIs(t, err, cause)
		for _, other := range []error{ErrIO, ErrEncoding, ErrDecoding} {
			if other != tt.sentinel {
				assert.NotErrorIs(t, err, other)
			}
		}
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "reading failed", NewError("reading failed").Error())

	err := NewErrorFrom("reading failed", errors.New("boom"))
	assert.Equal(t, "reading failed caused by error boom", err.String())
	assert.NotErrorIs(t, err, ErrIO)
}
