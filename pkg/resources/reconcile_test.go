package resources

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outputPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "target", "merged-jaxb-episode", "sun-jaxb.episode")
}

func TestReconcileRemovesSoleEpisodeInclude(t *testing.T) {
	out := outputPath(t)
	list := []Resource{
		{Directory: "/gen/a", Includes: []string{"META-INF/sun-jaxb.episode"}},
		{Directory: "/gen/b", Includes: []string{`META-INF\sun-jaxb.episode`}},
	}

	report, err := Reconcile(&list, out, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, report.Removed, 2)

	merged := list[0]
	assert.Equal(t, filepath.Dir(out), merged.Directory)
	assert.Equal(t, []string{"sun-jaxb.episode"}, merged.Includes)
	assert.Empty(t, merged.Excludes)
	assert.False(t, merged.Filtering)
	assert.Equal(t, "META-INF/", merged.TargetPath)
	assert.Equal(t, merged, report.Added)
}

func TestReconcileNarrowsUnrestrictedEntry(t *testing.T) {
	list := []Resource{{Directory: "/src/main/resources"}}

	report, err := Reconcile(&list, outputPath(t), false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"META-INF/sun-jaxb.episode"}, list[0].Excludes)
	assert.Len(t, report.Narrowed, 1)
	assert.True(t, report.Changed())
}

func TestReconcileRules(t *testing.T) {
	tests := []struct {
		name string
		in   Resource
		want []Resource
	}{
		{
			name: "episode among other includes",
			in:   Resource{Directory: "/d", Includes: []string{"**/*.xsd", "META-INF/sun-jaxb.episode"}},
			want: []Resource{{Directory: "/d", Includes: []string{"**/*.xsd"}}},
		},
		{
			name: "includes without episode and no excludes",
			in:   Resource{Directory: "/d", Includes: []string{"**/*.xsd"}},
			want: []Resource{{Directory: "/d", Includes: []string{"**/*.xsd"}, Excludes: []string{"META-INF/sun-jaxb.episode"}}},
		},
		{
			name: "existing excludes untouched",
			in:   Resource{Directory: "/d", Excludes: []string{"**/*.bak"}, TargetPath: "x", Filtering: true},
			want: []Resource{{Directory: "/d", Excludes: []string{"**/*.bak"}, TargetPath: "x", Filtering: true}},
		},
		{
			name: "similar names are not episode includes",
			in:   Resource{Directory: "/d", Includes: []string{"meta-inf/sun-jaxb.episode"}, Excludes: []string{"x"}},
			want: []Resource{{Directory: "/d", Includes: []string{"meta-inf/sun-jaxb.episode"}, Excludes: []string{"x"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := []Resource{tt.in}
			_, err := Reconcile(&list, outputPath(t), true)
			require.NoError(t, err)
			require.Len(t, list, len(tt.want)+1)
			assert.Equal(t, tt.want, list[:len(tt.want)])
			assert.Equal(t, "META-INF/", list[len(list)-1].TargetPath)
		})
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	out := outputPath(t)
	list := []Resource{
		{Directory: "/a", Includes: []string{"META-INF/sun-jaxb.episode"}},
		{Directory: "/b"},
		{Directory: "/c", Includes: []string{"x", "META-INF/sun-jaxb.episode"}, Excludes: []string{"y"}},
	}

	_, err := Reconcile(&list, out, false)
	require.NoError(t, err)
	once := append([]Resource(nil), list...)

	report, err := Reconcile(&list, out, false)
	require.NoError(t, err)
	assert.Equal(t, once, list)
	assert.True(t, report.Replaced)
	assert.False(t, report.Changed())
}

func TestReconcileEmptyList(t *testing.T) {
	var list []Resource
	_, err := Reconcile(&list, outputPath(t), false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPureRulesDoNotAliasInput(t *testing.T) {
	in := Resource{Directory: "/d", Includes: []string{"a", "META-INF/sun-jaxb.episode"}}
	out, found, keep := StripEpisodeInclude(in)
	assert.True(t, found)
	assert.True(t, keep)
	assert.Equal(t, []string{"a"}, out.Includes)
	assert.Equal(t, []string{"a", "META-INF/sun-jaxb.episode"}, in.Includes)

	_, found, keep = StripEpisodeInclude(Resource{Directory: "/d"})
	assert.False(t, found)
	assert.True(t, keep)

	bare := Resource{Directory: "/d"}
	narrowed, changed := ExcludeEpisode(bare)
	assert.True(t, changed)
	assert.Nil(t, bare.Excludes)
	assert.Equal(t, []string{EpisodeInclude}, narrowed.Excludes)

	_, changed = ExcludeEpisode(narrowed)
	assert.False(t, changed)
}

func TestMergedResourceIsAbsolute(t *testing.T) {
	r, err := MergedResource(filepath.Join("target", "merged-jaxb-episode", "sun-jaxb.episode"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(r.Directory))
	assert.Equal(t, "merged-jaxb-episode", filepath.Base(r.Directory))
	assert.Contains(t, r.String(), "targetPath=META-INF/")
}
