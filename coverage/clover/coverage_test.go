package clover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyg123/go_clover/def"
)

func TestGetCoverage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src", "org", "sonar")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "ASTSensor.java"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clover.xml"), []byte(classLayout), 0o644))

	log := &recordLogger{}
	config := def.Config{Path: dir, CoveragePath: "clover.xml", CoveragePrefix: "/"}
	results, err := GetCoverage(config, nil, WithLogger(log))
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, filepath.Join(dir, "clover.xml"), r.Report)
	assert.Equal(t, 2, r.Stats.Total)
	assert.Equal(t, []string{"/src/org/sonar/Other.java"}, r.Stats.UnmatchedPaths)
	m := r.Coverage["src/org/sonar/ASTSensor.java"]
	require.NotNil(t, m)
	assert.Equal(t, "10=2;20=0;21=0", m.HitsData())
	assert.Equal(t, filepath.Join(src, "ASTSensor.java"), m.AbsPath)
}

func TestGetCoverage_SeveralReports(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src", "org", "sonar")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Other.java"), nil, 0o644))
	first := filepath.Join(dir, "first.xml")
	second := filepath.Join(dir, "second.xml")
	require.NoError(t, os.WriteFile(first, []byte(classLayout), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(classLayout), 0o644))

	log := &recordLogger{}
	missing := filepath.Join(dir, "missing.xml")
	results, err := GetCoverage(def.Config{Path: dir, CoveragePrefix: "/"}, []string{first, missing, second}, WithLogger(log))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, first, results[0].Report)
	assert.Equal(t, second, results[1].Report)
	for _, r := range results {
		assert.Equal(t, 1, r.Stats.Unmatched)
		assert.Equal(t, "3=7", r.Coverage["src/org/sonar/Other.java"].HitsData())
	}
	assert.Contains(t, log.warns, MissingReportMessage+": "+missing)
}

func TestGetCoverage_Malformed(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "clover.xml")
	require.NoError(t, os.WriteFile(report, []byte(`<coverage><project>`), 0o644))

	_, err := GetCoverage(def.Config{Path: dir}, []string{report})
	assert.ErrorIs(t, err, ErrMalformedReport)
}

func TestGetCoverage_MissingReport(t *testing.T) {
	log := &recordLogger{}
	results, err := GetCoverage(def.Config{Path: t.TempDir(), CoveragePath: "clover.xml"}, nil, WithLogger(log))
	require.NoError(t, err)
	assert.Empty(t, results)
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], MissingReportMessage)
}

func TestReportPath(t *testing.T) {
	assert.Equal(t, filepath.Join("proj", "target", "clover.xml"), ReportPath(def.Config{Path: "proj", CoveragePath: "target/clover.xml"}))
	assert.Equal(t, "/tmp/clover.xml", ReportPath(def.Config{Path: "proj", CoveragePath: "/tmp/clover.xml"}))
	assert.Equal(t, "", ReportPath(def.Config{Path: "proj"}))
}
