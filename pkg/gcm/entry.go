package gcm

import (
	"bytes"
	"fmt"

	"github.com/lunixbochs/struc"
)

// EntrySize is the size of one FST record.
const EntrySize = 0x0C

// Entry is a single 12-byte FST record.
//
//	0x00  1  flags; 0: file, otherwise directory
//	0x01  3  filename, offset into the string table
//	0x04  4  file offset, or parent index for a directory
//	0x08  4  file length, entry count for the root, or next index for a directory
type Entry struct {
	Flag       uint8   `struc:"uint8"`
	NameOffset [3]byte `struc:"[3]uint8"`
	Offset     uint32  `struc:"uint32,big"`
	Length     uint32  `struc:"uint32,big"`
}

// IsDir reports whether the entry describes a directory.
func (e Entry) IsDir() bool {
	return e.Flag != 0
}

// NameTableOffset returns the 24-bit offset of the entry's name in the string table.
func (e Entry) NameTableOffset() uint32 {
	return uint32(e.NameOffset[0])<<16 | uint32(e.NameOffset[1])<<8 | uint32(e.NameOffset[2])
}

// SetNameTableOffset stores a 24-bit string table offset.
func (e *Entry) SetNameTableOffset(offset uint32) {
	e.NameOffset = [3]byte{byte(offset >> 16), byte(offset >> 8), byte(offset)}
}

// DecodeEntry unpacks one record from the start of data.
func DecodeEntry(data []byte) (Entry, error) {
	var entry Entry
	if len(data) < EntrySize {
		return entry, fmt.Errorf("%w: entry needs %d bytes, have %d", ErrTableCorrupt, EntrySize, len(data))
	}
	if err := struc.Unpack(bytes.NewReader(data[:EntrySize]), &entry); err != nil {
		return entry, fmt.Errorf("%w: failed to unpack entry: %v", ErrTableCorrupt, err)
	}
	return entry, nil
}

// PutEntry packs the record into the first EntrySize bytes of dst.
func PutEntry(dst []byte, entry Entry) error {
	if len(dst) < EntrySize {
		return fmt.Errorf("%w: entry needs %d bytes, have %d", ErrTableCorrupt, EntrySize, len(dst))
	}
	buf := bytes.NewBuffer(make([]byte, 0, EntrySize))
	if err := struc.Pack(buf, &entry); err != nil {
		return fmt.Errorf("failed to pack entry: %w", err)
	}
	copy(dst, buf.Bytes())
	return nil
}
