// Package testutil builds small synthetic GameCube images for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"path"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gcm"
	"github.com/lunixbochs/struc"
)

// FSTOffset is where Build places the filesystem table.
const FSTOffset = 0x2440

// Node describes a file or directory to place on the image.
type Node struct {
	Name     string
	Data     []byte
	Dir      bool
	Children []Node
}

// File returns a file node.
func File(name string, data []byte) Node {
	return Node{Name: name, Data: data}
}

// Dir returns a directory node.
func Dir(name string, children ...Node) Node {
	return Node{Name: name, Dir: true, Children: children}
}

// Pattern returns n deterministic non-zero bytes derived from seed.
func Pattern(n int, seed byte) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = seed + byte(i%251) + 1
		if data[i] == 0 {
			data[i] = 0xA5
		}
	}
	return data
}

// FileInfo is where Build put a file.
type FileInfo struct {
	Index  uint32
	Offset uint32
	Size   uint32
}

// Image is a built disc image.
type Image struct {
	Bytes      []byte
	FST        []byte
	Files      map[string]FileInfo // keyed by full path
	ContentEnd int
}

type flatEntry struct {
	node   Node
	path   string
	parent uint32
	next   uint32
}

// Build lays out nodes after a 0x2440 byte preamble and table, with 4-byte aligned payloads.
func Build(nodes ...Node) *Image {
	return BuildAligned(4, nodes...)
}

// BuildAligned is Build with a custom payload alignment.
func BuildAligned(align uint32, nodes ...Node) *Image {
	var flat []flatEntry
	var walk func(children []Node, parent uint32, dir string)
	walk = func(children []Node, parent uint32, dir string) {
		for _, child := range children {
			index := uint32(len(flat)) + 1
			flat = append(flat, flatEntry{node: child, path: path.Join(dir, child.Name), parent: parent})
			if child.Dir {
				walk(child.Children, index, path.Join(dir, child.Name))
				flat[index-1].next = uint32(len(flat)) + 1
			}
		}
	}
	walk(nodes, 0, "")

	numEntries := uint32(len(flat)) + 1

	var names bytes.Buffer
	nameOffsets := make([]uint32, len(flat))
	for i, entry := range flat {
		nameOffsets[i] = uint32(names.Len())
		names.WriteString(entry.node.Name)
		names.WriteByte(0)
	}

	fstSize := numEntries*gcm.EntrySize + uint32(names.Len())
	fst := make([]byte, fstSize)
	copy(fst[numEntries*gcm.EntrySize:], names.Bytes())

	image := &Image{Files: make(map[string]FileInfo)}
	cursor := uint32(common.AlignUp(uint64(FSTOffset+fstSize), uint64(align)))

	mustPut(fst, gcm.Entry{Flag: 1, Length: numEntries})
	for i, entry := range flat {
		record := gcm.Entry{}
		record.SetNameTableOffset(nameOffsets[i])
		if entry.node.Dir {
			record.Flag = 1
			record.Offset = entry.parent
			record.Length = entry.next
		} else {
			record.Offset = cursor
			record.Length = uint32(len(entry.node.Data))
			image.Files[entry.path] = FileInfo{Index: uint32(i) + 1, Offset: cursor, Size: record.Length}
			cursor = uint32(common.AlignUp(uint64(cursor+record.Length), uint64(align)))
		}
		mustPut(fst[(i+1)*gcm.EntrySize:], record)
	}

	contentEnd := FSTOffset + int(fstSize)
	for _, info := range image.Files {
		if end := int(info.Offset + info.Size); info.Size > 0 && end > contentEnd {
			contentEnd = end
		}
	}

	out := make([]byte, common.AlignUp(uint64(contentEnd), 32)+32)
	writeHeader(out, fstSize)
	for i := gcm.HeaderSize; i < FSTOffset; i++ {
		out[i] = byte(i*7 + 3)
	}
	copy(out[FSTOffset:], fst)
	for _, entry := range flat {
		if info, ok := image.Files[entry.path]; ok {
			copy(out[info.Offset:], entry.node.Data)
		}
	}

	image.Bytes = out
	image.FST = fst
	image.ContentEnd = contentEnd
	return image
}

func writeHeader(out []byte, fstSize uint32) {
	header := gcm.Header{
		GameCode:   [4]byte{'G', 'A', 'L', 'E'},
		MakerCode:  [2]byte{'0', '1'},
		Version:    2,
		Magic:      gcm.DiscMagic,
		DOLOffset:  gcm.HeaderSize,
		FSTOffset:  FSTOffset,
		FSTSize:    fstSize,
		MaxFSTSize: fstSize,
	}
	copy(header.GameName[:len(header.GameName)-1], "Synthetic Test Disc")

	copy(out, PackHeader(&header))
}

// PackHeader encodes a disc header as the HeaderSize bytes of boot.bin.
func PackHeader(header *gcm.Header) []byte {
	var buf bytes.Buffer
	if err := struc.Pack(&buf, header); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func mustPut(dst []byte, entry gcm.Entry) {
	if err := gcm.PutEntry(dst, entry); err != nil {
		panic(err)
	}
}

// Table builds a raw table with the given entries after the root, without names.
// Entry 0 is the root and carries len(entries)+1 as its count.
func Table(entries ...gcm.Entry) []byte {
	numEntries := uint32(len(entries)) + 1
	raw := make([]byte, numEntries*gcm.EntrySize+1)
	binary.BigEndian.PutUint32(raw[8:], numEntries)
	raw[0] = 1
	for i, entry := range entries {
		mustPut(raw[(i+1)*gcm.EntrySize:], entry)
	}
	return raw
}
