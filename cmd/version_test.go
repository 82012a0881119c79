package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVersion_Text(t *testing.T) {
	out, err := execRoot(t, []string{"version", "--extended"})
	if err != nil {
		t.Fatalf("version failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "episodemerge ") {
		t.Errorf("unexpected version output %q", out)
	}
	if !strings.Contains(out, "Go version:") {
		t.Errorf("extended output missing Go version: %q", out)
	}
}

func TestVersion_JSON(t *testing.T) {
	out, err := execRoot(t, []string{"version", "--format", "json"})
	if err != nil {
		t.Fatalf("version --format json failed: %v\n%s", err, out)
	}
	var v map[string]any
	if json.Unmarshal([]byte(out), &v) != nil {
		t.Fatalf("version output is not valid JSON: %s", out)
	}
	for _, key := range []string{"version", "goVersion", "platform"} {
		if _, ok := v[key].(string); !ok {
			t.Errorf("expected %s field in JSON", key)
		}
	}
}
