package gcm_test

import (
	"encoding/binary"
	"testing"

	"github.com/hansbonini/gcmtools/internal/testutil"
	"github.com/hansbonini/gcmtools/pkg/gcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	image := testutil.Build(
		testutil.File("opening.bnr", testutil.Pattern(40, 1)),
		testutil.Dir("audio",
			testutil.File("1padv_all.ssm", testutil.Pattern(9, 2)),
			testutil.Dir("us", testutil.File("ending.hps", testutil.Pattern(17, 3))),
		),
		testutil.File("PlCaGr.dat", testutil.Pattern(100, 4)),
	)

	table, err := gcm.ReadTable(image.FST)
	require.NoError(t, err, "ReadTable should decode a well formed table")

	assert.Equal(t, uint32(7), table.NumEntries())
	assert.Equal(t, uint32(7*gcm.EntrySize), table.StringTableOffset())
	assert.True(t, table.Entries[0].IsDir())
	assert.True(t, table.Entries[2].IsDir(), "audio should decode as a directory")
	assert.False(t, table.Entries[6].IsDir())
	assert.Equal(t, image.Files["PlCaGr.dat"].Offset, table.Entries[6].Offset)
	assert.Equal(t, uint32(100), table.Entries[6].Length)

	name, err := table.Name(6)
	require.NoError(t, err)
	assert.Equal(t, "PlCaGr.dat", name)

	_, err = table.Name(7)
	assert.ErrorIs(t, err, gcm.ErrTableCorrupt)
}

func TestReadTable_IsRestartable(t *testing.T) {
	image := testutil.Build(testutil.File("a.dat", []byte{1, 2, 3}))

	first, err := gcm.ReadTable(image.FST)
	require.NoError(t, err)
	second, err := gcm.ReadTable(image.FST)
	require.NoError(t, err)

	assert.Equal(t, first.Entries, second.Entries)
}

func TestReadTable_Corrupt(t *testing.T) {
	tooManyEntries := testutil.Table(gcm.Entry{Offset: 0x1000, Length: 4})
	binary.BigEndian.PutUint32(tooManyEntries[8:], 100)

	notADirectory := testutil.Table()
	notADirectory[0] = 0

	zeroEntries := testutil.Table()
	binary.BigEndian.PutUint32(zeroEntries[8:], 0)

	cases := map[string][]byte{
		"empty":           nil,
		"short root":      make([]byte, 8),
		"too many":        tooManyEntries,
		"root not a dir":  notADirectory,
		"zero entry root": zeroEntries,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := gcm.ReadTable(raw)
			assert.ErrorIs(t, err, gcm.ErrTableCorrupt)
		})
	}
}

func TestTable_Nodes(t *testing.T) {
	image := testutil.Build(
		testutil.Dir("audio",
			testutil.Dir("us", testutil.File("ending.hps", []byte{1})),
			testutil.File("1padv_all.ssm", []byte{2}),
		),
		testutil.File("PlCa.dat", []byte{3}),
	)

	table, err := gcm.ReadTable(image.FST)
	require.NoError(t, err)

	nodes, err := table.Nodes()
	require.NoError(t, err)

	paths := make([]string, len(nodes))
	for i, node := range nodes {
		paths[i] = node.Path
	}
	assert.Equal(t, []string{"audio", "audio/us", "audio/us/ending.hps", "audio/1padv_all.ssm", "PlCa.dat"}, paths,
		"Nodes should walk the table in order and resolve paths through directory next indexes")

	files, err := table.Files()
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "ending.hps", files[0].Name)
	assert.Equal(t, image.Files["audio/1padv_all.ssm"].Offset, files[1].Offset)
}

func TestTable_Nodes_BadDirectory(t *testing.T) {
	raw := testutil.Table(gcm.Entry{Flag: 1, Offset: 0, Length: 9})

	table, err := gcm.ReadTable(raw)
	require.NoError(t, err)

	_, err = table.Nodes()
	assert.ErrorIs(t, err, gcm.ErrTableCorrupt, "a directory whose next index is past the table is corrupt")
}

func TestTable_Find(t *testing.T) {
	image := testutil.Build(
		testutil.Dir("a", testutil.File("PlCa.dat", []byte{1})),
		testutil.Dir("b", testutil.File("PlCa.dat", []byte{2})),
		testutil.File("PlFx.dat", []byte{3}),
	)

	table, err := gcm.ReadTable(image.FST)
	require.NoError(t, err)

	node, err := table.Find("PlFx.dat")
	require.NoError(t, err)
	assert.Equal(t, image.Files["PlFx.dat"].Offset, node.Offset)

	node, err = table.Find("b/PlCa.dat")
	require.NoError(t, err, "Find should accept a full path")
	assert.Equal(t, image.Files["b/PlCa.dat"].Offset, node.Offset)

	_, err = table.Find("PlCa.dat")
	assert.ErrorIs(t, err, gcm.ErrAmbiguous)

	_, err = table.Find("PlMr.dat")
	assert.ErrorIs(t, err, gcm.ErrNotFound)
}
