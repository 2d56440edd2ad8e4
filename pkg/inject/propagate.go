package inject

import (
	"fmt"

	"github.com/hansbonini/gcmtools/pkg/common"
)

// PayloadAlignment is the alignment kept between file payloads.
const PayloadAlignment = 4

// PaddedDelta rounds delta up to the payload alignment.
func PaddedDelta(delta uint32) uint32 {
	return uint32(common.AlignUp(uint64(delta), PayloadAlignment))
}

// Shift returns how far the files after a payload move when it changes from
// size to newLen bytes. Growth rounds up and shrinkage rounds down, so the
// shifted files stay aligned and never overlap the resized payload.
func Shift(size, newLen uint32) int64 {
	if newLen >= size {
		return int64(PaddedDelta(newLen - size))
	}
	return -int64(common.AlignDown(uint64(size-newLen), PayloadAlignment))
}

// Apply replaces the payload of the record keyed by pivot and moves every
// record with a larger original offset by the resulting shift. The receiver
// is not modified.
func (ix Index) Apply(pivot uint32, payload []byte) (Index, error) {
	record, ok := ix.records[pivot]
	if !ok {
		return Index{}, fmt.Errorf("%w: no record at 0x%X", ErrIndexMismatch, pivot)
	}
	newLen, err := common.SafeIntToUint32(len(payload))
	if err != nil {
		return Index{}, fmt.Errorf("%w: %s replacement size: %v", ErrTableCorrupt, record.Name, err)
	}

	shift := Shift(record.UpdatedSize, newLen)

	next := ix.clone()
	record.UpdatedSize = newLen
	record.Data = payload
	next.records[pivot] = record

	if shift != 0 {
		for key, other := range next.records {
			if key <= pivot {
				continue
			}

			moved, err := common.SafeInt64ToUint32(int64(other.UpdatedOffset) + shift)
			if err != nil {
				return Index{}, fmt.Errorf("%w: shifting %s from 0x%X by %d: %v",
					ErrTableCorrupt, other.Name, other.UpdatedOffset, shift, err)
			}

			common.LogDebug(common.DebugRecordShifted, other.Name, other.UpdatedOffset, moved)
			other.UpdatedOffset = moved
			next.records[key] = other
		}
	}

	return next, nil
}
