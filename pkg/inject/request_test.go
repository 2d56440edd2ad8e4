package inject_test

import (
	"path/filepath"
	"testing"

	"github.com/hansbonini/gcmtools/pkg/inject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	path := writePayload(t, "manifest.yaml", []byte(`
replacements:
  - target: CaptainFalcon.PlCaGr
    file: falcon-green.dat
  - target: PlKbNr.dat
    file: /tmp/kirby.dat
`))

	requests, err := inject.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []inject.Request{
		{Target: "CaptainFalcon.PlCaGr", Path: "falcon-green.dat"},
		{Target: "PlKbNr.dat", Path: "/tmp/kirby.dat"},
	}, requests)
}

func TestLoadManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown key", data: "replacements:\n  - target: PlCa.dat\n    path: x.dat\n"},
		{name: "missing file", data: "replacements:\n  - target: PlCa.dat\n"},
		{name: "missing target", data: "replacements:\n  - file: x.dat\n"},
		{name: "not yaml", data: "replacements: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inject.LoadManifest(writePayload(t, "manifest.yaml", []byte(tt.data)))
			assert.Error(t, err)
		})
	}

	_, err := inject.LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadManifest_Empty(t *testing.T) {
	requests, err := inject.LoadManifest(writePayload(t, "manifest.yaml", nil))
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestLoadPayload(t *testing.T) {
	path := writePayload(t, "payload.dat", []byte{0xDE, 0xAD})

	data, err := inject.LoadPayload(inject.Request{Target: "PlCa.dat", Path: path})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, data)

	missing := filepath.Join(t.TempDir(), "missing.dat")
	_, err = inject.LoadPayload(inject.Request{Target: "PlCa.dat", Path: missing})
	assert.ErrorIs(t, err, inject.ErrPayloadRead)
	assert.Contains(t, err.Error(), "PlCa.dat")
	assert.Contains(t, err.Error(), missing)
}

func TestRequest_String(t *testing.T) {
	assert.Equal(t, "PlCa.dat=falcon.dat", inject.Request{Target: "PlCa.dat", Path: "falcon.dat"}.String())
}
