package common

import (
	"fmt"
	"io"
)

// ReadBytesAt reads exactly count bytes starting at offset.
// A short read is reported as io.ErrUnexpectedEOF.
func ReadBytesAt(reader io.ReaderAt, offset int64, count int) ([]byte, error) {
	buffer := make([]byte, count)
	n, err := reader.ReadAt(buffer, offset)
	if n == count {
		return buffer, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("read %d of %d bytes at 0x%X: %w", n, count, offset, err)
}

// WriteZeros writes count zero bytes to the writer
func WriteZeros(writer io.Writer, count int64) error {
	if count <= 0 {
		return nil
	}
	_, err := io.CopyN(writer, zeroReader{}, count)
	return err
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// AlignUp rounds value up to the next multiple of alignment
func AlignUp(value, alignment uint64) uint64 {
	if remainder := value % alignment; remainder != 0 {
		return value + alignment - remainder
	}
	return value
}

// AlignDown rounds value down to the previous multiple of alignment
func AlignDown(value, alignment uint64) uint64 {
	return value - value%alignment
}
