package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/episodemerge/pkg/episode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePOM = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <build>
    <resources>
      <resource>
        <directory>src/main/resources</directory>
        <filtering>true</filtering>
      </resource>
      <resource>
        <directory>${project.basedir}/target/generated</directory>
        <targetPath>META-INF/</targetPath>
        <includes>
          <include>META-INF/sun-jaxb.episode</include>
        </includes>
        <excludes>
          <exclude>**/*.bak</exclude>
        </excludes>
      </resource>
    </resources>
  </build>
</project>
`

func TestLoadPOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	require.NoError(t, os.WriteFile(path, []byte(samplePOM), 0o644))

	got, err := LoadPOM(path)
	require.NoError(t, err)
	want := []Resource{
		{Directory: filepath.Join(dir, "src", "main", "resources"), Filtering: true},
		{
			Directory:  filepath.Join(dir, "target", "generated"),
			Includes:   []string{"META-INF/sun-jaxb.episode"},
			Excludes:   []string{"**/*.bak"},
			TargetPath: "META-INF/",
		},
	}
	assert.Equal(t, want, got)
}

func TestParsePOMDefaultsToMavenResources(t *testing.T) {
	got, err := ParsePOM("/p/pom.xml", []byte(`<project><modelVersion>4.0.0</modelVersion></project>`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join("/p", "src", "main", "resources"), got[0].Directory)
}

func TestParsePOMEmptyResources(t *testing.T) {
	got, err := ParsePOM("/p/pom.xml", []byte(`<project><build><resources/></build></project>`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParsePOMErrors(t *testing.T) {
	_, err := ParsePOM("/p/pom.xml", []byte(`<project><<build/></project>`))
	require.Error(t, err)
	assert.True(t, episode.IsParseError(err), err.Error())

	_, err = ParsePOM("/p/pom.xml", []byte(`<settings/>`))
	require.Error(t, err)
	assert.True(t, episode.IsValidationError(err))

	_, err = LoadPOM(filepath.Join(t.TempDir(), "pom.xml"))
	require.Error(t, err)
	assert.True(t, episode.IsIOError(err))
}
