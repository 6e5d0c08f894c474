package httpx

import (
	"bufio"
	"errors"
)

const (
	maxLineContinuations = 10
)

var (
	ErrLineTooLong = errors.New("line too long")
)

type LineReader interface {
	ReadLine() ([]byte, error)
}

// ReadLine reads one line without its line terminator.
func ReadLine(br *bufio.Reader) ([]byte, error) {
	tmp, isPrefix, err := br.ReadLine()
	if err != nil {
		return nil, err
	}

	// NOTE: tmp references the inner buffer of bufio.Reader,
	//       it must be copied before the next read.
	line := make([]byte, len(tmp))
	copy(line, tmp)

	for i := 0; isPrefix && i < maxLineContinuations; i++ {
		tmp, isPrefix, err = br.ReadLine()
		if err != nil {
			return nil, err
		}
		line = append(line, tmp...)
	}
	if isPrefix {
		return line, ErrLineTooLong
	}

	return line, nil
}
