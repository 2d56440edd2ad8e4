package gcm

import (
	"fmt"
	"io"
	"os"

	"github.com/hansbonini/gcmtools/pkg/common"
)

// Disc is an opened GameCube disc image.
type Disc struct {
	Header *Header
	Size   int64

	reader io.ReaderAt
	closer io.Closer
}

// Open opens the disc image at path and reads its header.
// The caller must Close the returned disc.
func Open(path string) (*Disc, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageOpen, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %v", ErrImageOpen, err)
	}

	disc, err := NewDisc(file, info.Size())
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	disc.closer = file

	common.LogInfo(common.InfoDiscOpened, path, disc.Header.GameID())
	return disc, nil
}

// NewDisc wraps an in-memory or already opened image of the given size.
func NewDisc(r io.ReaderAt, size int64) (*Disc, error) {
	if size < HeaderSize {
		return nil, fmt.Errorf("%w: image is %d bytes, smaller than the disc header", ErrImageOpen, size)
	}

	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	end := int64(header.FSTOffset) + int64(header.FSTSize)
	if header.FSTOffset < HeaderSize || end > size {
		return nil, fmt.Errorf("%w: FST region 0x%X+0x%X lies outside the image (0x%X bytes)",
			ErrTableCorrupt, header.FSTOffset, header.FSTSize, size)
	}

	return &Disc{Header: header, Size: size, reader: r}, nil
}

// Close releases the underlying file, if any.
func (d *Disc) Close() error {
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

// ReadAt implements io.ReaderAt over the whole image.
func (d *Disc) ReadAt(p []byte, off int64) (int, error) {
	return d.reader.ReadAt(p, off)
}

// Preamble returns everything before the filesystem table.
func (d *Disc) Preamble() *io.SectionReader {
	return io.NewSectionReader(d.reader, 0, int64(d.Header.FSTOffset))
}

// ReadFST returns a copy of the raw filesystem table region.
func (d *Disc) ReadFST() ([]byte, error) {
	raw, err := common.ReadBytesAt(d.reader, int64(d.Header.FSTOffset), int(d.Header.FSTSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageOpen, common.ErrFailedToReadFST, err)
	}
	return raw, nil
}

// ReadTable reads and decodes the filesystem table.
func (d *Disc) ReadTable() (*Table, error) {
	raw, err := d.ReadFST()
	if err != nil {
		return nil, err
	}

	table, err := ReadTable(raw)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToParseFST, err)
	}

	common.LogDebug(common.InfoFSTLocated, d.Header.FSTOffset, d.Header.FSTSize, table.NumEntries())
	return table, nil
}

// ReadFile returns the payload of a file node.
func (d *Disc) ReadFile(node Node) ([]byte, error) {
	if node.IsDir {
		return nil, fmt.Errorf("%s is a directory", node.Path)
	}

	data, err := common.ReadBytesAt(d.reader, int64(node.Offset), int(node.Size))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s at 0x%X: %v", ErrImageOpen, node.Path, node.Offset, err)
	}
	return data, nil
}
