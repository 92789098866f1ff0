package stl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// sniffLen is how many leading bytes DetectFormat inspects
const sniffLen = 128

// Format is the encoding of an STL file
type Format int

const (
	FormatASCII Format = iota
	FormatBinary
)

func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinary:
		return "binary"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// DetectFormat peeks at up to 128 leading bytes without consuming them.
// ASCII STL is plain 7-bit text, so any byte with the high bit set marks
// the source as binary. A binary file whose first bytes are all 7-bit is
// misread as ASCII and then fails to parse.
func DetectFormat(r *bufio.Reader) (Format, error) {
	buf, err := r.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return FormatASCII, err
	}
	for _, b := range buf {
		if b >= 0x80 {
			return FormatBinary, nil
		}
	}
	return FormatASCII, nil
}
