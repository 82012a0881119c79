package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/episodemerge/pkg/episode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() *Manifest {
	return &Manifest{Resources: []Resource{
		{Directory: "/src/main/resources", Excludes: []string{"META-INF/sun-jaxb.episode"}},
		{Directory: "/gen", Includes: []string{"**/*.xsd", "catalog.xml"}, TargetPath: "schemas/", Filtering: true},
	}}
}

func TestManifestRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".yml", ".toml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "resources"+ext)
			require.NoError(t, SaveManifest(path, sampleManifest()))

			got, err := LoadManifest(path)
			require.NoError(t, err)
			assert.Equal(t, sampleManifest(), got)
		})
	}
}

func TestParseManifestYAML(t *testing.T) {
	data := []byte(`resources:
  - directory: src/main/resources
  - directory: target/generated
    includes:
      - META-INF/sun-jaxb.episode
    targetPath: META-INF/
`)
	m, err := ParseManifest("m.yaml", FormatYAML, data)
	require.NoError(t, err)
	require.Len(t, m.Resources, 2)
	assert.Nil(t, m.Resources[0].Includes)
	assert.Equal(t, []string{"META-INF/sun-jaxb.episode"}, m.Resources[1].Includes)
	assert.Equal(t, "META-INF/", m.Resources[1].TargetPath)
}

func TestParseManifestTOML(t *testing.T) {
	data := []byte(`[[resources]]
directory = "src/main/resources"
filtering = true

[[resources]]
directory = "gen"
excludes = ["**/*.bak"]
`)
	m, err := ParseManifest("m.toml", FormatTOML, data)
	require.NoError(t, err)
	require.Len(t, m.Resources, 2)
	assert.True(t, m.Resources[0].Filtering)
	assert.Equal(t, []string{"**/*.bak"}, m.Resources[1].Excludes)
}

func TestParseManifestRejectsInvalid(t *testing.T) {
	tests := []struct {
		name       string
		format     Format
		data       string
		validation bool
	}{
		{"missing directory", FormatYAML, "resources:\n  - includes: [a]\n", true},
		{"unknown key", FormatJSON, `{"resources": [{"directory": "d", "dir": "x"}]}`, true},
		{"empty pattern", FormatJSON, `{"resources": [{"directory": "d", "includes": [""]}]}`, true},
		{"no resources", FormatYAML, "", true},
		{"bad yaml", FormatYAML, "resources: [\n", false},
		{"bad toml", FormatTOML, "[[resources]\n", false},
		{"bad json", FormatJSON, "{", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest("bad."+string(tt.format), tt.format, []byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, tt.validation, episode.IsValidationError(err), err.Error())
			assert.Equal(t, !tt.validation, episode.IsParseError(err), err.Error())
		})
	}
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("a/b.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatOf("resources.ini")
	require.Error(t, err)
	assert.True(t, episode.IsConfigurationError(err))
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.True(t, episode.IsIOError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
