package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/philipparndt/kstl/pkg/geometry"
)

const (
	binaryHeaderLen = maxHeaderLen
	binaryCountLen  = 4
	binaryRecordLen = 50

	// maxPrealloc caps how many triangles are reserved up front when the
	// declared count cannot be checked against the source size
	maxPrealloc = 1 << 16
)

// parseBinary parses a binary STL stream: an 80 byte header, a little
// endian uint32 triangle count and one 50 byte record per triangle. When
// size is not negative it is the total length of the stream and the
// declared count is checked against it before anything is allocated.
func parseBinary(r io.Reader, source string, size int64) ([]geometry.Triangle, string, error) {
	var head [binaryHeaderLen + binaryCountLen]byte

	if _, err := io.ReadFull(r, head[:binaryHeaderLen]); err != nil {
		return nil, "", readError(source, StageHeader, 0, err)
	}
	header := string(bytes.TrimRight(head[:binaryHeaderLen], "\x00"))

	if _, err := io.ReadFull(r, head[binaryHeaderLen:]); err != nil {
		return nil, "", readError(source, StageCount, 0, err)
	}
	count := binary.LittleEndian.Uint32(head[binaryHeaderLen:])

	capacity := int(min(count, maxPrealloc))
	if size >= 0 {
		available := (size - int64(len(head))) / binaryRecordLen
		if int64(count) > available {
			return nil, "", &TruncatedError{
				Source: source,
				Stage:  StageRecord,
				Record: int(available),
				Err: fmt.Errorf("%w: %d triangles declared, %d bytes hold %d",
					io.ErrUnexpectedEOF, count, size, available),
			}
		}
		capacity = int(count)
	}

	triangles := make([]geometry.Triangle, 0, capacity)
	var record [binaryRecordLen]byte
	for i := 0; i < int(count); i++ {
		if _, err := io.ReadFull(r, record[:]); err != nil {
			return nil, "", readError(source, StageRecord, i, err)
		}
		triangles = append(triangles, decodeRecord(record[:]))
	}

	return triangles, header, nil
}

// decodeRecord reads normal, three vertices and the attribute bytes
func decodeRecord(b []byte) geometry.Triangle {
	var pts [4]geometry.Point
	for i := range pts {
		for axis := 0; axis < 3; axis++ {
			off := 12*i + 4*axis
			pts[i][axis] = math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
		}
	}
	return geometry.NewTriangle(pts[1], pts[2], pts[3], pts[0], [2]byte{b[48], b[49]})
}

// readError maps a short read to a TruncatedError and anything else to
// ErrSourceUnavailable
func readError(source string, stage Stage, record int, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &TruncatedError{Source: source, Stage: stage, Record: record, Err: io.ErrUnexpectedEOF}
	}
	return fmt.Errorf("%w: reading %s %s: %w", ErrSourceUnavailable, source, stage, err)
}
