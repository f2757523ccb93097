package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/sift/internal/rule"
	"github.com/gnolang/sift/internal/store"
	tt "github.com/gnolang/sift/internal/types"
	"github.com/gnolang/sift/lint"
)

const sampleSource = `#define LIMIT 10
int count = 0;
int m_total = 0;
`

func testConfig() lint.Config {
	return lint.Config{
		Name:       "test",
		Extensions: []string{"cpp"},
		Rules: []rule.Definition{
			{AppliedTo: "GlobalVariable", Type: "StartWithX", Parameter: "m_"},
			{AppliedTo: "GlobalDefine", Type: "NoDefine", Severity: tt.SeverityWarning},
		},
	}
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunLint_Text(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeSource(t, dir, "main.cpp", sampleSource)
	writeSource(t, dir, "clean.cpp", "int m_value = 1;\n")

	var out bytes.Buffer
	n, err := runLint(context.Background(), zap.NewNop(), &out, testConfig(), []string{dir}, lintOptions{noProgress: true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	expected := "+ " + path + " ----------\n" +
		"  StartWithX -- GlobalVariable names should start with \"m_\"\n" +
		"    2:1: GlobalVariable 'count' should start with \"m_\"\n" +
		"  NoDefine -- macros should not be defined\n" +
		"    1:1: macro LIMIT is defined\n"
	assert.Equal(t, expected, out.String())
}

func TestRunLint_IgnoreRule(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSource(t, dir, "main.cpp", sampleSource)

	var out bytes.Buffer
	n, err := runLint(context.Background(), zap.NewNop(), &out, testConfig(), []string{dir},
		lintOptions{noProgress: true, ignoreRules: "NoDefine, startwithx"})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, out.String())
}

func TestRunLint_IgnorePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSource(t, dir, "vendor/lib.cpp", sampleSource)
	writeSource(t, dir, "main.cpp", "int m_value = 1;\n")

	var out bytes.Buffer
	n, err := runLint(context.Background(), zap.NewNop(), &out, testConfig(), []string{dir},
		lintOptions{noProgress: true, ignorePaths: "vendor"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunLint_JSONOutputFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeSource(t, dir, "main.cpp", sampleSource)
	outPath := filepath.Join(dir, "report.json")

	var out bytes.Buffer
	n, err := runLint(context.Background(), zap.NewNop(), &out, testConfig(), []string{path},
		lintOptions{noProgress: true, format: "json", outPath: outPath})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, out.String())

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var byFile map[string][]tt.Issue
	require.NoError(t, json.Unmarshal(content, &byFile))
	require.Len(t, byFile[path], 2)
	assert.Equal(t, "StartWithX", byFile[path][0].Rule)
	assert.Equal(t, "NoDefine", byFile[path][1].Rule)
}

func TestRunLint_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := runLint(context.Background(), zap.NewNop(), &bytes.Buffer{}, testConfig(), []string{"."},
		lintOptions{noProgress: true, format: "xml"})
	assert.Error(t, err)
}

func TestRunLint_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := runLint(context.Background(), zap.NewNop(), &bytes.Buffer{}, testConfig(),
		[]string{filepath.Join(t.TempDir(), "missing")}, lintOptions{noProgress: true})
	assert.Error(t, err)
}

func TestRunLint_Cache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeSource(t, src, "main.cpp", sampleSource)
	cacheDir := filepath.Join(dir, "cache")

	opts := lintOptions{noProgress: true, cacheDir: cacheDir}
	n, err := runLint(context.Background(), zap.NewNop(), &bytes.Buffer{}, testConfig(), []string{src}, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	n, err = runLint(context.Background(), zap.NewNop(), &bytes.Buffer{}, testConfig(), []string{src}, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOpenCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	path := writeSource(t, src, "main.cpp", sampleSource)
	cacheDir := filepath.Join(dir, "cache")

	_, err := runLint(context.Background(), zap.NewNop(), &bytes.Buffer{}, testConfig(), []string{src},
		lintOptions{noProgress: true, cacheDir: cacheDir})
	require.NoError(t, err)

	rules := lint.New(zap.NewNop(), testConfig()).Rules()
	tests := []struct {
		name   string
		opts   lintOptions
		cached bool
	}{
		{"reused", lintOptions{cacheDir: cacheDir}, true},
		{"expired", lintOptions{cacheDir: cacheDir, cacheMaxAge: time.Nanosecond}, false},
		{"cleared", lintOptions{cacheDir: cacheDir, clearCache: true}, false},
	}
	// cleared runs last: it empties the cache on disk
	for _, tc := range tests {
		cache, err := openCache(tc.opts, rules)
		require.NoError(t, err, tc.name)
		time.Sleep(time.Millisecond)
		_, ok := cache.Get(path)
		assert.Equal(t, tc.cached, ok, tc.name)
	}

	cache, err := openCache(lintOptions{cacheDir: cacheDir}, rules)
	require.NoError(t, err)
	assert.Zero(t, cache.Len())
}

func TestRunLint_ClearCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeSource(t, src, "main.cpp", sampleSource)
	opts := lintOptions{noProgress: true, cacheDir: filepath.Join(dir, "cache")}

	_, err := runLint(context.Background(), zap.NewNop(), &bytes.Buffer{}, testConfig(), []string{src}, opts)
	require.NoError(t, err)

	opts.clearCache = true
	n, err := runLint(context.Background(), zap.NewNop(), &bytes.Buffer{}, testConfig(), []string{src}, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cache, err := openCache(lintOptions{cacheDir: opts.cacheDir}, lint.New(zap.NewNop(), testConfig()).Rules())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
}

func TestRunLint_Stdin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   string
		contains string
	}{
		{"text", "text", "+ buffer.cpp ----------"},
		{"snippet", "snippet", "int count = 0;"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			opts := lintOptions{
				format:     tc.format,
				noProgress: true,
				stdinName:  "buffer.cpp",
				stdin:      strings.NewReader(sampleSource),
			}
			n, err := runLint(context.Background(), zap.NewNop(), &out, testConfig(), []string{"-"}, opts)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			assert.Contains(t, out.String(), tc.contains)
		})
	}
}

func TestRunLint_RecordAndHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	path := writeSource(t, src, "main.cpp", sampleSource)
	writeSource(t, src, "clean.cpp", "int m_value = 1;\n")
	db := filepath.Join(dir, "history.db")

	ctx := context.Background()
	_, err := runLint(ctx, zap.NewNop(), &bytes.Buffer{}, testConfig(), []string{src},
		lintOptions{noProgress: true, recordPath: db})
	require.NoError(t, err)

	s, err := store.NewSQLiteStore(db)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Files)
	assert.Equal(t, 2, runs[0].Issues)

	var table bytes.Buffer
	require.NoError(t, printRuns(ctx, &table, s, 10))
	assert.Contains(t, table.String(), "ISSUES")

	var report bytes.Buffer
	require.NoError(t, printRunIssues(ctx, &report, s, runs[0].ID))
	assert.Contains(t, report.String(), "+ "+path+" ----------")
	assert.Contains(t, report.String(), "1:1: macro LIMIT is defined")
}

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sift.yaml")

	created, err := initConfigurationFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, path, created)

	config, err := lint.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, lint.DefaultConfig(), config)

	_, err = initConfigurationFile(path, false)
	assert.Error(t, err)

	_, err = initConfigurationFile(path, true)
	assert.NoError(t, err)
}

func TestPrintTrees(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeSource(t, dir, "main.cpp", "class Widget {\n};\n")

	var out bytes.Buffer
	require.NoError(t, printTrees(&out, zap.NewNop(), testConfig(), []string{dir}))
	assert.Contains(t, out.String(), path+"\n")
	assert.Contains(t, out.String(), `Class "Widget"`)
}

func TestPrintRules(t *testing.T) {
	t.Parallel()

	var kinds bytes.Buffer
	printRuleKinds(&kinds)
	for _, k := range rule.Kinds() {
		assert.Contains(t, kinds.String(), k.String())
	}

	var configured bytes.Buffer
	printConfiguredRules(&configured, rule.NewSet([]rule.Definition{
		{AppliedTo: "Source", Type: "MaxCharactersPerLine", Parameter: "80"},
		{AppliedTo: "Source", Type: "Bogus"},
		{AppliedTo: "Source", Type: "MaxCharactersPerLine", Parameter: "many"},
	}))
	output := configured.String()
	assert.Contains(t, output, "MaxCharactersPerLine")
	assert.Contains(t, output, "ok")
	assert.Contains(t, output, `unknown rule type: "Bogus"`)
	assert.Contains(t, output, "invalid rule parameter")
}

func TestNewWatcher(t *testing.T) {
	t.Parallel()

	w, err := newWatcher(zap.NewNop(), &bytes.Buffer{}, testConfig(), "text", []string{t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	assert.NoError(t, w.Stop())
}

func TestSplitFlag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, splitFlag(" a, ,b "))
	assert.Nil(t, splitFlag(""))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name           string
		verbose, quiet bool
	}{
		{"production", false, false},
		{"verbose", true, false},
		{"quiet", false, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			l, err := newLogger(tc.verbose, tc.quiet)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}
