package inject

import (
	"errors"

	"github.com/hansbonini/gcmtools/pkg/gcm"
)

var (
	// ErrImageOpen is returned when the source or output image cannot be read or written.
	ErrImageOpen = gcm.ErrImageOpen

	// ErrTableCorrupt is returned when the table does not fit the 12-byte entry layout.
	ErrTableCorrupt = gcm.ErrTableCorrupt

	// ErrTarget is returned when a replacement target matches zero or several entries.
	ErrTarget = errors.New("replacement target must match exactly one entry")

	// ErrSharedOffset is returned when a target is an empty entry folded into another file's record.
	ErrSharedOffset = errors.New("target shares its offset with another file")

	// ErrPayloadRead is returned when a replacement payload cannot be read.
	ErrPayloadRead = errors.New("failed to read replacement payload")

	// ErrIndexMismatch is returned when a table entry has no index record, or one it does not own.
	ErrIndexMismatch = errors.New("table entry does not match the index")

	// ErrPayloadOverlap is returned when a payload would start before the end of the previous one.
	ErrPayloadOverlap = errors.New("payload overlaps previously written data")
)
