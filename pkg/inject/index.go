package inject

import (
	"fmt"
	"io"
	"sort"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gcm"
)

// UpdateRecord tracks one file payload through a rebuild. OriginalOffset is
// the record's key and never changes; the Updated fields and Data follow the
// replacements applied so far. Entry is the table entry that owns the payload;
// Shared names the empty entries folded into the record.
type UpdateRecord struct {
	Name           string
	Entry          uint32
	Shared         []string
	OriginalOffset uint32
	UpdatedOffset  uint32
	OriginalSize   uint32
	UpdatedSize    uint32
	Data           []byte
}

// End returns the first byte after the record's payload at its updated offset.
func (r UpdateRecord) End() uint64 {
	return uint64(r.UpdatedOffset) + uint64(len(r.Data))
}

// Index maps original file offsets to update records. An Index is a value:
// Apply returns a new Index and leaves the receiver untouched.
type Index struct {
	records map[uint32]UpdateRecord
}

// NewIndex builds an index from records whose updated fields equal their
// original ones. A zero-length record sharing an offset is folded into the
// other record there, which keeps its name in Shared; two non-empty records
// at one offset are a corrupt table.
func NewIndex(records []UpdateRecord) (Index, error) {
	index := Index{records: make(map[uint32]UpdateRecord, len(records))}

	for _, record := range records {
		if existing, ok := index.records[record.OriginalOffset]; ok {
			switch {
			case record.OriginalSize == 0:
				common.LogDebug(common.DebugDuplicateOffset, record.Name, record.OriginalOffset, existing.Name)
				existing.Shared = append(append([]string(nil), existing.Shared...), record.Name)
				index.records[record.OriginalOffset] = existing
				continue
			case existing.OriginalSize == 0:
				common.LogDebug(common.DebugDuplicateOffset, existing.Name, record.OriginalOffset, record.Name)
				record.Shared = append(append(append([]string(nil), existing.Shared...), existing.Name), record.Shared...)
			default:
				return Index{}, fmt.Errorf("%w: %s and %s both start at 0x%X",
					ErrTableCorrupt, existing.Name, record.Name, record.OriginalOffset)
			}
		}
		index.records[record.OriginalOffset] = record
	}

	return index, nil
}

// BuildIndex reads every file of table from r and indexes it by offset.
func BuildIndex(r io.ReaderAt, table *gcm.Table) (Index, error) {
	files, err := table.Files()
	if err != nil {
		return Index{}, common.FormatError(common.ErrFailedToBuildIndex, err)
	}

	records := make([]UpdateRecord, 0, len(files))
	for _, file := range files {
		data, err := common.ReadBytesAt(r, int64(file.Offset), int(file.Size))
		if err != nil {
			return Index{}, fmt.Errorf("%w: reading %s (entry %d) at 0x%X: %v",
				ErrImageOpen, file.Path, file.Index, file.Offset, err)
		}

		records = append(records, UpdateRecord{
			Name:           file.Name,
			Entry:          file.Index,
			OriginalOffset: file.Offset,
			UpdatedOffset:  file.Offset,
			OriginalSize:   file.Size,
			UpdatedSize:    file.Size,
			Data:           data,
		})
		common.LogDebug(common.DebugRecordIndexed, file.Path, file.Offset, file.Size)
	}

	index, err := NewIndex(records)
	if err != nil {
		return Index{}, err
	}

	common.LogInfo(common.InfoIndexBuilt, index.Len())
	return index, nil
}

// Len returns the number of records.
func (ix Index) Len() int {
	return len(ix.records)
}

// Get returns the record keyed by originalOffset.
func (ix Index) Get(originalOffset uint32) (UpdateRecord, bool) {
	record, ok := ix.records[originalOffset]
	return record, ok
}

// Resolve returns the single record whose name is name. An empty entry
// folded into another record cannot be replaced on its own.
func (ix Index) Resolve(name string) (UpdateRecord, error) {
	var match, owner UpdateRecord
	count, folded := 0, 0
	for _, record := range ix.records {
		if record.Name == name {
			match = record
			count++
		}
		for _, shared := range record.Shared {
			if shared == name {
				owner = record
				folded++
			}
		}
	}

	switch {
	case count+folded != 1:
		return UpdateRecord{}, fmt.Errorf("%w: %s matched %d entries", ErrTarget, name, count+folded)
	case folded == 1:
		return UpdateRecord{}, fmt.Errorf("%w: %w: %s is empty and shares offset 0x%X with %s",
			ErrTarget, ErrSharedOffset, name, owner.OriginalOffset, owner.Name)
	}
	return match, nil
}

// Records returns every record ordered by updated offset, then original offset.
func (ix Index) Records() []UpdateRecord {
	records := make([]UpdateRecord, 0, len(ix.records))
	for _, record := range ix.records {
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].UpdatedOffset != records[j].UpdatedOffset {
			return records[i].UpdatedOffset < records[j].UpdatedOffset
		}
		return records[i].OriginalOffset < records[j].OriginalOffset
	})
	return records
}

func (ix Index) clone() Index {
	records := make(map[uint32]UpdateRecord, len(ix.records))
	for key, record := range ix.records {
		records[key] = record
	}
	return Index{records: records}
}
