package episode

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	legacyEpisode = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<bindings xmlns="http://java.sun.com/xml/ns/jaxb" if-exists="true" version="2.1">
  <bindings xmlns:tns="urn:example:%s" if-exists="true" scd="x-schema::tns">
    <schemaBindings map="false">
      <package name="com.example.%s"/>
    </schemaBindings>
  </bindings>
</bindings>
`
	jakartaEpisode = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<bindings xmlns="https://jakarta.ee/xml/ns/jaxb" if-exists="true" version="3.0">
  <bindings xmlns:tns="urn:example:%s" if-exists="true" scd="x-schema::tns">
    <schemaBindings map="false"/>
  </bindings>
</bindings>
`
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// writeFile creates rel below root and returns its absolute path
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}
