package assets

import (
	"embed"
	"io/fs"
)

//go:embed embedded_templates
var Templates embed.FS

//go:embed embedded_schemas
var Schemas embed.FS

func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(Templates, "embedded_templates"); err == nil {
		return sub
	}
	return Templates
}

func GetSchemasFS() fs.FS {
	if sub, err := fs.Sub(Schemas, "embedded_schemas"); err == nil {
		return sub
	}
	return Schemas
}

// GetTemplate returns an embedded template by its path below embedded_templates.
func GetTemplate(name string) ([]byte, bool) {
	data, err := fs.ReadFile(GetTemplatesFS(), name)
	if err != nil {
		return nil, false
	}
	return data, true
}

// GetSchema returns an embedded schema by its path below embedded_schemas.
func GetSchema(name string) ([]byte, bool) {
	data, err := fs.ReadFile(GetSchemasFS(), name)
	if err != nil {
		return nil, false
	}
	return data, true
}
