package inject

import (
	"fmt"
	"io"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gcm"
	"github.com/itchio/headway/counter"
)

// ImageAlignment is the block size the assembled image is padded to.
const ImageAlignment = 32

// PaddedLength returns the final image length for content ending at end:
// the next 32-byte boundary plus one more block.
func PaddedLength(end uint64) uint64 {
	return common.AlignUp(end, ImageAlignment) + ImageAlignment
}

// Assemble streams the rebuilt image to w: the source preamble up to the
// table, the rewritten table, every payload at its updated offset with zero
// gaps between them, then trailing padding. It returns the bytes written.
func Assemble(w io.Writer, disc *gcm.Disc, rebuilt *RebuiltTable) (int64, error) {
	cw := counter.NewWriter(w)

	preamble := disc.Preamble()
	if n, err := io.Copy(cw, preamble); err != nil || n != preamble.Size() {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return cw.Count(), fmt.Errorf("%w: copying preamble (%d of %d bytes): %v", ErrImageOpen, n, preamble.Size(), err)
	}

	if _, err := cw.Write(rebuilt.Table); err != nil {
		return cw.Count(), common.FormatError(common.ErrFailedToAssembleImage, err)
	}

	var originalEnd uint64
	for _, record := range rebuilt.Index.Records() {
		if end := uint64(record.OriginalOffset) + uint64(record.OriginalSize); end > originalEnd {
			originalEnd = end
		}
		if len(record.Data) == 0 {
			continue
		}

		position := cw.Count()
		if int64(record.UpdatedOffset) < position {
			return position, fmt.Errorf("%w: %s at 0x%X starts before 0x%X",
				ErrPayloadOverlap, record.Name, record.UpdatedOffset, position)
		}
		if err := common.WriteZeros(cw, int64(record.UpdatedOffset)-position); err != nil {
			return cw.Count(), common.FormatError(common.ErrFailedToAssembleImage, err)
		}
		if _, err := cw.Write(record.Data); err != nil {
			return cw.Count(), common.FormatError(common.ErrFailedToAssembleImage, err)
		}
		common.LogDebug(common.DebugPayloadWritten, record.Name, record.UpdatedOffset, len(record.Data))
	}

	end := cw.Count()
	padding := int64(PaddedLength(uint64(end))) - end
	if err := common.WriteZeros(cw, padding); err != nil {
		return cw.Count(), common.FormatError(common.ErrFailedToWritePadding, err)
	}
	common.LogDebug(common.DebugPaddingWritten, padding)

	if originalEnd < uint64(disc.Header.FSTOffset)+uint64(disc.Header.FSTSize) {
		originalEnd = uint64(disc.Header.FSTOffset) + uint64(disc.Header.FSTSize)
	}
	if extra := disc.Size - int64(PaddedLength(originalEnd)); extra > 0 {
		common.LogWarn(common.WarnImageLargerThanContent, extra)
	}

	return cw.Count(), nil
}
