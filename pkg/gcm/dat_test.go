package gcm_test

import (
	"testing"

	"github.com/hansbonini/gcmtools/pkg/gcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDATHeader(t *testing.T) {
	data := []byte{
		0x00, 0x01, 0xF2, 0xE4, // file size
		0x00, 0x01, 0x80, 0x00, // data block size
		0x00, 0x00, 0x0C, 0x35, // relocation table count
		0x00, 0x00, 0x00, 0x01, // root count
		0x00, 0x00, 0x00, 0x00, // reference count
		0x30, 0x30, 0x31, 0x42, 0, 0, 0, 0, 0, 0, 0, 0,
		0xFF, 0xFF,
	}

	header, err := gcm.ReadDATHeader(data)
	require.NoError(t, err)

	assert.Equal(t, int32(0x1F2E4), header.FileSize)
	assert.Equal(t, int32(0x18000), header.DataBlockSize)
	assert.Equal(t, int32(0xC35), header.RelocationTableCount)
	assert.Equal(t, int32(1), header.RootCount)
	assert.Equal(t, int32(0), header.ReferenceCount)
	assert.True(t, header.MatchesSize(0x1F2E4))
	assert.False(t, header.MatchesSize(0x1F2E0))
}

func TestReadDATHeader_Short(t *testing.T) {
	_, err := gcm.ReadDATHeader(make([]byte, gcm.DATHeaderSize-1))
	assert.Error(t, err)
}
