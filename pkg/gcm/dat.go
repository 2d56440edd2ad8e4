package gcm

import (
	"bytes"
	"fmt"

	"github.com/lunixbochs/struc"
)

// DATHeaderSize is the size of the archive header at the start of a .dat file.
const DATHeaderSize = 0x20

// DATHeader is the header of an HSD archive (.dat), big-endian.
type DATHeader struct {
	FileSize             int32    `struc:"int32,big"`
	DataBlockSize        int32    `struc:"int32,big"`
	RelocationTableCount int32    `struc:"int32,big"`
	RootCount            int32    `struc:"int32,big"`
	ReferenceCount       int32    `struc:"int32,big"`
	Unknown              [12]byte `struc:"[12]uint8"`
}

// ReadDATHeader unpacks the header from the start of a .dat payload.
func ReadDATHeader(data []byte) (*DATHeader, error) {
	if len(data) < DATHeaderSize {
		return nil, fmt.Errorf("DAT header needs %d bytes, have %d", DATHeaderSize, len(data))
	}

	header := &DATHeader{}
	if err := struc.Unpack(bytes.NewReader(data[:DATHeaderSize]), header); err != nil {
		return nil, fmt.Errorf("failed to unpack DAT header: %w", err)
	}
	return header, nil
}

// MatchesSize reports whether the header's file size agrees with size.
func (h *DATHeader) MatchesSize(size uint32) bool {
	return h.FileSize >= 0 && uint32(h.FileSize) == size
}
