package stores

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocations(t *testing.T) {
	file := filepath.Join(t.TempDir(), "obproject.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"store: localfs\npath: /var/lib/obproject\nmetadata: my-meta\n",
	), 0600))
	t.Setenv(envConfigLocation, file)

	locations := LoadLocations()
	assert.Equal(t, KindLocalFS, locations.Kind)
	assert.Equal(t, "/var/lib/obproject", locations.Path)
	assert.Equal(t, "my-meta", locations.Metadata)
}

func TestLoadLocationsNoConfig(t *testing.T) {
	t.Setenv(envConfigLocation, filepath.Join(t.TempDir(), "missing.yaml"))

	// a missing config file yields zero locations, defaulted by Build
	locations := LoadLocations()
	assert.Empty(t, locations.Kind)
	assert.Empty(t, locations.Path)
}
