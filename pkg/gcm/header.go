package gcm

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/lunixbochs/struc"
)

const (
	// HeaderSize is the size of the boot.bin disc header.
	HeaderSize = 0x440

	// DiscMagic is the GameCube magic word stored at 0x1C.
	DiscMagic = 0xC2339F3D
)

// Header is the part of boot.bin needed to locate the filesystem table.
//
// YAGCD 13.1: game code at 0x000, magic at 0x01C, title at 0x020,
// DOL/FST offsets and FST sizes at 0x420.
type Header struct {
	GameCode       [4]byte     `struc:"[4]uint8"`
	MakerCode      [2]byte     `struc:"[2]uint8"`
	DiscNumber     uint8       `struc:"uint8"`
	Version        uint8       `struc:"uint8"`
	AudioStreaming uint8       `struc:"uint8"`
	StreamBufSize  uint8       `struc:"uint8"`
	Reserved       [0x12]byte  `struc:"[18]uint8"`
	Magic          uint32      `struc:"uint32,big"`
	GameName       [0x3E0]byte `struc:"[992]uint8"`
	DebugMonitor   uint32      `struc:"uint32,big"`
	DebugLoadAddr  uint32      `struc:"uint32,big"`
	Unused         [0x18]byte  `struc:"[24]uint8"`
	DOLOffset      uint32      `struc:"uint32,big"`
	FSTOffset      uint32      `struc:"uint32,big"`
	FSTSize        uint32      `struc:"uint32,big"`
	MaxFSTSize     uint32      `struc:"uint32,big"`
	UserPosition   uint32      `struc:"uint32,big"`
	UserLength     uint32      `struc:"uint32,big"`
	Unknown        uint32      `struc:"uint32,big"`
	Pad            uint32      `struc:"uint32,big"`
}

// ReadHeader unpacks the disc header from the start of r.
func ReadHeader(r io.ReaderAt) (*Header, error) {
	header := &Header{}
	if err := struc.Unpack(io.NewSectionReader(r, 0, HeaderSize), header); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageOpen, common.ErrFailedToReadHeader, err)
	}
	if header.Magic != DiscMagic {
		return nil, fmt.Errorf("%w: bad disc magic 0x%08X, not a GameCube image", ErrImageOpen, header.Magic)
	}
	return header, nil
}

// GameID returns the six character game and maker code, e.g. GALE01.
func (h *Header) GameID() string {
	return string(h.GameCode[:]) + string(h.MakerCode[:])
}

// Title returns the NUL-terminated internal game name.
func (h *Header) Title() string {
	name := h.GameName[:]
	if end := bytes.IndexByte(name, 0); end >= 0 {
		name = name[:end]
	}
	return strings.TrimSpace(string(name))
}
