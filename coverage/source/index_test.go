package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyg123/go_clover/def"
)

func project(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
	return dir
}

func TestBuild_Languages(t *testing.T) {
	dir := project(t,
		"src/a/B.java",
		"src/a/C.groovy",
		"src/a/README.md",
		".git/objects/D.java",
	)
	idx, err := Build(def.Config{Path: dir})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	idx, err = Build(def.Config{Path: dir, Languages: []string{"java"}})
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())

	_, err = Build(def.Config{Path: dir, Languages: []string{"cobol"}})
	assert.Error(t, err)

	_, err = Build(def.Config{Path: dir, UnitExclude: []string{"("}})
	assert.Error(t, err)
}

func TestIndex_FromPath(t *testing.T) {
	dir := project(t, "src/a/B.java", "test/a/BTest.java")
	idx, err := Build(def.Config{
		Path:           dir,
		CoveragePrefix: "/build/agent/",
		UnitExclude:    []string{"^test/"},
	})
	require.NoError(t, err)

	abs := filepath.Join(dir, "src", "a", "B.java")
	tests := []struct {
		name  string
		path  string
		found bool
	}{
		{"absolute", abs, true},
		{"relative", "src/a/B.java", true},
		{"prefixed", "/build/agent/src/a/B.java", true},
		{"windows separators", `src\a\B.java`, true},
		{"unclean", "src/./a/../a/B.java", true},
		{"excluded", "test/a/BTest.java", false},
		{"unknown", "src/a/Missing.java", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, ok := idx.FromPath(tt.path)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, "src/a/B.java", file.Key)
				assert.Equal(t, abs, file.AbsPath)
			}
		})
	}
}
