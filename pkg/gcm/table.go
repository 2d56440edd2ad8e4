package gcm

import (
	"bytes"
	"fmt"
)

// Table is a decoded filesystem table. Entries[0] is the root directory.
//
// The layout is a root entry, num_entries-1 further entries and a string table:
//
//	0x00  0x0C  root directory entry
//	0x0C  ...   file and directory entries
//	...   ...   string table, starting at num_entries*0x0C
type Table struct {
	Raw     []byte
	Entries []Entry
}

// ReadTable decodes the table held in raw. raw is not copied.
func ReadTable(raw []byte) (*Table, error) {
	root, err := DecodeEntry(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to read root entry: %w", err)
	}
	if !root.IsDir() {
		return nil, fmt.Errorf("%w: root entry is not a directory (flag 0x%02X)", ErrTableCorrupt, root.Flag)
	}

	numEntries := root.Length
	if numEntries == 0 {
		return nil, fmt.Errorf("%w: root entry count is zero", ErrTableCorrupt)
	}
	if uint64(numEntries)*EntrySize > uint64(len(raw)) {
		return nil, fmt.Errorf("%w: %d entries need 0x%X bytes, table has 0x%X",
			ErrTableCorrupt, numEntries, uint64(numEntries)*EntrySize, len(raw))
	}

	entries := make([]Entry, numEntries)
	entries[0] = root
	for i := uint32(1); i < numEntries; i++ {
		entry, err := DecodeEntry(raw[i*EntrySize:])
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %d: %w", i, err)
		}
		entries[i] = entry
	}

	return &Table{Raw: raw, Entries: entries}, nil
}

// NumEntries returns the entry count stored in the root entry.
func (t *Table) NumEntries() uint32 {
	return uint32(len(t.Entries))
}

// StringTableOffset returns the position of the string table within Raw.
func (t *Table) StringTableOffset() uint32 {
	return t.NumEntries() * EntrySize
}

// Name resolves the NUL-terminated name of entry index from the string table.
func (t *Table) Name(index uint32) (string, error) {
	if index >= t.NumEntries() {
		return "", fmt.Errorf("%w: entry %d out of range (%d entries)", ErrTableCorrupt, index, t.NumEntries())
	}
	if index == 0 {
		return "", nil
	}

	strings := t.Raw[t.StringTableOffset():]
	offset := t.Entries[index].NameTableOffset()
	if uint64(offset) >= uint64(len(strings)) {
		return "", fmt.Errorf("%w: entry %d name offset 0x%X past string table (0x%X bytes)",
			ErrTableCorrupt, index, offset, len(strings))
	}

	name := strings[offset:]
	if end := bytes.IndexByte(name, 0); end >= 0 {
		name = name[:end]
	}
	return string(name), nil
}
