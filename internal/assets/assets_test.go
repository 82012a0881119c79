package assets

import (
	"bytes"
	"io/fs"
	"testing"
)

func TestGetTemplatesFS(t *testing.T) {
	fsys := GetTemplatesFS()
	if fsys == nil {
		t.Fatal("GetTemplatesFS returned nil")
	}

	data, err := fs.ReadFile(fsys, "episode-header.hbs")
	if err != nil {
		t.Fatalf("Failed to read header template: %v", err)
	}
	if !bytes.Contains(data, []byte("do NOT edit")) {
		t.Error("header template should carry the do-not-edit banner")
	}
	if !bytes.Contains(data, []byte("{{#each sources}}")) {
		t.Error("header template should enumerate sources")
	}
}

func TestGetSchema(t *testing.T) {
	data, ok := GetSchema("resource-manifest-v1.0.0.yaml")
	if !ok || len(data) == 0 {
		t.Fatal("resource manifest schema should be embedded")
	}
	if _, ok := GetSchema("missing.yaml"); ok {
		t.Error("GetSchema should report missing schemas")
	}
}

func TestGetTemplateMissing(t *testing.T) {
	if _, ok := GetTemplate("nope.hbs"); ok {
		t.Error("GetTemplate should report missing templates")
	}
}
