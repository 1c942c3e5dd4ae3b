package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverEmbedded(t *testing.T) {
	got, err := Discover()
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "001", got[0].Version)
	assert.Equal(t, "001_init.sql", got[0].Filename)
	assert.Len(t, got[0].Checksum, 64)
	assert.Contains(t, got[0].SQL, "ON DELETE CASCADE")
}

func TestDiscoverOrdersAndValidates(t *testing.T) {
	fsys := fstest.MapFS{
		"002_add_index.sql": {Data: []byte("SELECT 2;")},
		"001_init.sql":      {Data: []byte("SELECT 1;")},
		"README.md":         {Data: []byte("ignored")},
	}
	got, err := discover(fsys)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "001_init.sql", got[0].Filename)
	assert.Equal(t, "002", got[1].Version)

	_, err = discover(fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"001_b.sql": {Data: []byte("SELECT 1;")},
	})
	assert.Error(t, err, "duplicate versions must be rejected")

	_, err = discover(fstest.MapFS{"init.sql": {Data: []byte("SELECT 1;")}})
	assert.Error(t, err, "filenames without a version prefix must be rejected")
}
