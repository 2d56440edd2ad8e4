package inject_test

import (
	"fmt"
	"testing"

	"github.com/hansbonini/gcmtools/internal/testutil"
	"github.com/hansbonini/gcmtools/pkg/gcm"
	"github.com/hansbonini/gcmtools/pkg/inject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaddedDelta(t *testing.T) {
	tests := []struct {
		delta uint32
		want  uint32
	}{
		{0, 0},
		{1, 4},
		{3, 4},
		{4, 4},
		{24, 24},
		{25, 28},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("delta %d", tt.delta), func(t *testing.T) {
			assert.Equal(t, tt.want, inject.PaddedDelta(tt.delta))
		})
	}
}

func TestShift(t *testing.T) {
	tests := []struct {
		name   string
		size   uint32
		newLen uint32
		want   int64
	}{
		{name: "same size", size: 100, newLen: 100, want: 0},
		{name: "shrink aligned", size: 100, newLen: 76, want: -24},
		{name: "shrink rounds down", size: 100, newLen: 75, want: -24},
		{name: "shrink below alignment", size: 100, newLen: 98, want: 0},
		{name: "grow aligned", size: 100, newLen: 124, want: 24},
		{name: "grow rounds up", size: 100, newLen: 101, want: 4},
		{name: "grow from empty", size: 0, newLen: 1, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inject.Shift(tt.size, tt.newLen))
		})
	}
}

// largeTable builds the 1212-entry table: 1211 files spaced 0x80 apart,
// one of them at 0x1000 with 100 bytes.
func largeTable(t *testing.T) (*gcm.Table, inject.Index) {
	t.Helper()

	entries := make([]gcm.Entry, 1211)
	records := make([]inject.UpdateRecord, 0, len(entries))
	for i := range entries {
		offset := uint32(i) * 0x80
		size := uint32(0x40)
		if offset == 0x1000 {
			size = 100
		}
		entries[i] = gcm.Entry{Offset: offset, Length: size}
		records = append(records, inject.UpdateRecord{
			Name:           fmt.Sprintf("file%04d.dat", i),
			Entry:          uint32(i) + 1,
			OriginalOffset: offset,
			UpdatedOffset:  offset,
			OriginalSize:   size,
			UpdatedSize:    size,
		})
	}

	table, err := gcm.ReadTable(testutil.Table(entries...))
	require.NoError(t, err)
	require.Equal(t, uint32(0x04BC), table.NumEntries())

	index, err := inject.NewIndex(records)
	require.NoError(t, err)
	return table, index
}

func TestApply_LargeTableShrink(t *testing.T) {
	table, index := largeTable(t)

	updated, err := index.Apply(0x1000, make([]byte, 76))
	require.NoError(t, err)

	raw, err := inject.WriteTable(table, updated)
	require.NoError(t, err)

	rewritten, err := gcm.ReadTable(raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04BC), rewritten.NumEntries(), "entry count must not change")

	for i := uint32(1); i < table.NumEntries(); i++ {
		before, after := table.Entries[i], rewritten.Entries[i]
		switch {
		case before.Offset == 0x1000:
			assert.Equal(t, uint32(0x1000), after.Offset)
			assert.Equal(t, uint32(76), after.Length)
		case before.Offset > 0x1000:
			assert.Equal(t, before.Offset-24, after.Offset, "entry %d", i)
			assert.Equal(t, before.Length, after.Length, "entry %d", i)
		default:
			assert.Equal(t, before, after, "entry %d", i)
		}
	}
}

func TestApply_DoesNotModifyReceiver(t *testing.T) {
	_, index := largeTable(t)

	updated, err := index.Apply(0x1000, make([]byte, 76))
	require.NoError(t, err)

	original, _ := index.Get(0x1080)
	shifted, _ := updated.Get(0x1080)
	assert.Equal(t, uint32(0x1080), original.UpdatedOffset)
	assert.Equal(t, uint32(0x1080-24), shifted.UpdatedOffset)

	pivot, _ := index.Get(0x1000)
	assert.Equal(t, uint32(100), pivot.UpdatedSize)
	assert.Nil(t, pivot.Data)
}

func TestApply_Growth(t *testing.T) {
	_, index := largeTable(t)

	updated, err := index.Apply(0x1000, make([]byte, 130))
	require.NoError(t, err)

	for _, record := range updated.Records() {
		switch {
		case record.OriginalOffset == 0x1000:
			assert.Equal(t, uint32(130), record.UpdatedSize)
			assert.Equal(t, uint32(0x1000), record.UpdatedOffset)
		case record.OriginalOffset > 0x1000:
			assert.Equal(t, record.OriginalOffset+32, record.UpdatedOffset, record.Name)
		default:
			assert.Equal(t, record.OriginalOffset, record.UpdatedOffset, record.Name)
		}
	}
}

func TestApply_SequentialReplacements(t *testing.T) {
	index, err := inject.NewIndex([]inject.UpdateRecord{
		{Name: "a.dat", OriginalOffset: 0x1000, UpdatedOffset: 0x1000, OriginalSize: 100, UpdatedSize: 100},
		{Name: "mid.dat", OriginalOffset: 0x3000, UpdatedOffset: 0x3000, OriginalSize: 0x100, UpdatedSize: 0x100},
		{Name: "b.dat", OriginalOffset: 0x5000, UpdatedOffset: 0x5000, OriginalSize: 0x200, UpdatedSize: 0x200},
		{Name: "tail.dat", OriginalOffset: 0x8000, UpdatedOffset: 0x8000, OriginalSize: 0x10, UpdatedSize: 0x10},
	})
	require.NoError(t, err)

	first, err := index.Apply(0x1000, make([]byte, 76))
	require.NoError(t, err)

	pivot, err := first.Resolve("b.dat")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x5000), pivot.OriginalOffset)
	assert.Equal(t, uint32(0x5000-24), pivot.UpdatedOffset, "second pivot should already be shifted")

	second, err := first.Apply(pivot.OriginalOffset, make([]byte, 0x210))
	require.NoError(t, err)

	want := map[string][2]uint32{
		"a.dat":    {0x1000, 76},
		"mid.dat":  {0x3000 - 24, 0x100},
		"b.dat":    {0x5000 - 24, 0x210},
		"tail.dat": {0x8000 - 24 + 0x10, 0x10},
	}
	for _, record := range second.Records() {
		assert.Equal(t, want[record.Name], [2]uint32{record.UpdatedOffset, record.UpdatedSize}, record.Name)
	}
}

func TestApply_ReplaceTwice(t *testing.T) {
	index, err := inject.NewIndex([]inject.UpdateRecord{
		{Name: "a.dat", OriginalOffset: 0x100, UpdatedOffset: 0x100, OriginalSize: 100, UpdatedSize: 100},
		{Name: "b.dat", OriginalOffset: 0x200, UpdatedOffset: 0x200, OriginalSize: 8, UpdatedSize: 8},
	})
	require.NoError(t, err)

	index, err = index.Apply(0x100, make([]byte, 140))
	require.NoError(t, err)
	index, err = index.Apply(0x100, make([]byte, 60))
	require.NoError(t, err)

	b, _ := index.Get(0x200)
	assert.Equal(t, uint32(0x200+40-80), b.UpdatedOffset, "second shift is relative to the first replacement")
}

func TestApply_Errors(t *testing.T) {
	index, err := inject.NewIndex([]inject.UpdateRecord{
		{Name: "a.dat", OriginalOffset: 0x10, UpdatedOffset: 0x10, OriginalSize: 4, UpdatedSize: 4},
		{Name: "end.dat", OriginalOffset: 0xFFFFFFF0, UpdatedOffset: 0xFFFFFFF0},
	})
	require.NoError(t, err)

	_, err = index.Apply(0x20, nil)
	assert.ErrorIs(t, err, inject.ErrIndexMismatch)

	_, err = index.Apply(0x10, make([]byte, 64))
	assert.ErrorIs(t, err, inject.ErrTableCorrupt)
}
