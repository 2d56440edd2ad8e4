package inject

import (
	"fmt"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gcm"
)

// WriteTable returns a copy of the table with every file entry's offset and
// size taken from its index record. Entries folded into another entry's
// record follow its offset and stay empty. Directory entries and the string
// table are copied unchanged.
func WriteTable(table *gcm.Table, index Index) ([]byte, error) {
	out := make([]byte, len(table.Raw))
	copy(out, table.Raw)

	for i := uint32(1); i < table.NumEntries(); i++ {
		entry := table.Entries[i]
		if entry.IsDir() {
			continue
		}

		record, ok := index.Get(entry.Offset)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d at 0x%X", ErrIndexMismatch, i, entry.Offset)
		}

		switch {
		case i == record.Entry:
			entry.Length = record.UpdatedSize
		case entry.Length != 0:
			return nil, fmt.Errorf("%w: entry %d at 0x%X is not owned by %s (entry %d)",
				ErrIndexMismatch, i, entry.Offset, record.Name, record.Entry)
		}

		common.LogDebug(common.DebugEntryRewritten, i, entry.Offset, record.UpdatedOffset, record.Name)
		entry.Offset = record.UpdatedOffset

		if err := gcm.PutEntry(out[i*gcm.EntrySize:], entry); err != nil {
			return nil, common.FormatError(common.ErrFailedToRewriteFST, err)
		}
	}

	return out, nil
}
