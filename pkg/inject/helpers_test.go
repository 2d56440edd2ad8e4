package inject_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hansbonini/gcmtools/internal/testutil"
	"github.com/hansbonini/gcmtools/pkg/gcm"
	"github.com/hansbonini/gcmtools/pkg/inject"
	"github.com/stretchr/testify/require"
)

func openDisc(t *testing.T, image *testutil.Image) *gcm.Disc {
	t.Helper()
	disc, err := gcm.NewDisc(bytes.NewReader(image.Bytes), int64(len(image.Bytes)))
	require.NoError(t, err)
	return disc
}

func writePayload(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// fighterImage is a small disc with a directory, four files and an empty one.
func fighterImage() *testutil.Image {
	return testutil.Build(
		testutil.Dir("fighter",
			testutil.File("PlCa.dat", testutil.Pattern(100, 1)),
			testutil.File("PlCaGr.dat", testutil.Pattern(77, 2)),
		),
		testutil.File("MnSlChr.usd", testutil.Pattern(50, 3)),
		testutil.File("empty.bin", nil),
		testutil.File("opening.bnr", testutil.Pattern(64, 4)),
	)
}

func assemble(t *testing.T, disc *gcm.Disc, rebuilt *inject.RebuiltTable) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := inject.Assemble(&buf, disc, rebuilt)
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), n)
	return buf.Bytes()
}

func reopen(t *testing.T, data []byte) (*gcm.Disc, *gcm.Table) {
	t.Helper()
	disc, err := gcm.NewDisc(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	table, err := disc.ReadTable()
	require.NoError(t, err)
	return disc, table
}
