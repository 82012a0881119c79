// Package resources models the packaging resources of a build and rewires them
// so that only the merged episode file is packaged.
package resources

import (
	"fmt"
	"strings"
)

// Resource maps a source directory plus include and exclude patterns to a
// location in the packaged output. Empty Includes means everything below
// Directory.
type Resource struct {
	Directory  string   `yaml:"directory" json:"directory" toml:"directory"`
	Includes   []string `yaml:"includes,omitempty" json:"includes,omitempty" toml:"includes,omitempty"`
	Excludes   []string `yaml:"excludes,omitempty" json:"excludes,omitempty" toml:"excludes,omitempty"`
	TargetPath string   `yaml:"targetPath,omitempty" json:"targetPath,omitempty" toml:"targetPath,omitempty"`
	Filtering  bool     `yaml:"filtering" json:"filtering" toml:"filtering"`
}

// Manifest is the on-disk form of a resource list.
type Manifest struct {
	Resources []Resource `yaml:"resources" json:"resources" toml:"resources"`
}

func (r Resource) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Resource{directory=%s", r.Directory)
	if len(r.Includes) > 0 {
		fmt.Fprintf(&sb, ", includes=[%s]", strings.Join(r.Includes, ", "))
	}
	if len(r.Excludes) > 0 {
		fmt.Fprintf(&sb, ", excludes=[%s]", strings.Join(r.Excludes, ", "))
	}
	if r.TargetPath != "" {
		fmt.Fprintf(&sb, ", targetPath=%s", r.TargetPath)
	}
	fmt.Fprintf(&sb, ", filtering=%t}", r.Filtering)
	return sb.String()
}

// clone returns a copy of r that shares no slices with it
func (r Resource) clone() Resource {
	out := r
	if r.Includes != nil {
		out.Includes = append([]string(nil), r.Includes...)
	}
	if r.Excludes != nil {
		out.Excludes = append([]string(nil), r.Excludes...)
	}
	return out
}
