package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/inodb/igalign/internal/catalog"
	"github.com/inodb/igalign/internal/duckdb"
	"github.com/inodb/igalign/internal/numbering"
	"github.com/inodb/igalign/internal/output"
	"github.com/inodb/igalign/internal/provider"
)

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		in      string
		dims    []string
		invalid []string
	}{
		{"1D", []string{"1D"}, nil},
		{"2D", []string{"2D"}, nil},
		{"1D,2D", []string{"1D", "2D"}, nil},
		{"2d, 1d", []string{"2D", "1D"}, nil},
		{"1D,1D", []string{"1D"}, nil},
		{"3D", nil, []string{"3D"}},
		{"1D,3D", []string{"1D"}, []string{"3D"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			dims, invalid := parseDimensions(tt.in)
			assert.Equal(t, tt.dims, dims)
			assert.Equal(t, tt.invalid, invalid)
		})
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	s, err := loadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, "igstrand", s.Numbering.Scheme)
	assert.Equal(t, "command", s.Provider.Kind)
	assert.Equal(t, provider.DefaultTimeout, s.Provider.Timeout)
	assert.Equal(t, uint64(provider.DefaultRetries), s.Provider.Retries)
	assert.Equal(t, provider.DefaultMinBytes, s.Provider.MinBytes)
	assert.Equal(t, "first", s.Resolve.Duplicates)
	assert.Empty(t, s.Cache.Path)
	assert.Equal(t, output.DefaultSize, s.templateSet().Size(catalog.IgC2))
}

func TestInitConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "igalign.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
numbering:
  scheme: IgStrand
templates:
  sizes:
    IgC1:
      rows: 40
      cols: 17
provider:
  kind: http
  url: http://localhost/refnum/%s
  timeout: 5s
`), 0644))
	t.Setenv("IGALIGN_PATHS_OUTPUT", filepath.Join(dir, "out"))

	v := viper.New()
	require.NoError(t, initConfig(v, cfg))
	s, err := loadSettings(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "out"), s.Paths.Output)
	assert.Equal(t, "IgStrand", s.Numbering.Scheme)
	assert.Equal(t, 5*time.Second, s.Provider.Timeout)

	set := s.templateSet()
	assert.Equal(t, output.Size{Rows: 40, Cols: 17}, set.Size(catalog.IgC1))
	assert.Equal(t, output.DefaultSize, set.Size(catalog.IgI))

	p, err := s.newProvider()
	require.NoError(t, err)
	assert.IsType(t, &provider.HTTPProvider{}, p)
}

func TestInitConfig_MissingFile(t *testing.T) {
	v := viper.New()
	require.NoError(t, initConfig(v, filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Equal(t, "igstrand", v.GetString("numbering.scheme"))
}

func TestNewProvider(t *testing.T) {
	var s Settings
	s.Provider.Command = "node ./refnum.js"
	p, err := s.newProvider()
	require.NoError(t, err)
	cp, ok := p.(*provider.CommandProvider)
	require.True(t, ok)
	assert.Equal(t, []string{"node", "./refnum.js"}, cp.Command)

	s.Provider.Kind = "http"
	_, err = s.newProvider()
	assert.Error(t, err, "http without url")

	s.Provider.Kind = "ftp"
	_, err = s.newProvider()
	assert.Error(t, err)
}

func TestNewResolver_BadPolicy(t *testing.T) {
	var s Settings
	s.Resolve.Duplicates = "newest"
	_, err := s.newResolver(zap.NewNop())
	assert.Error(t, err)
}

func TestConfigSetGet(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "igalign.yaml")
	v := viper.New()
	require.NoError(t, initConfig(v, cfg))

	path, err := setConfig(v, "resolve.workers", "8")
	require.NoError(t, err)
	assert.Equal(t, cfg, path)
	_, err = setConfig(v, "log.json", "yes")
	require.NoError(t, err)

	reread := viper.New()
	require.NoError(t, initConfig(reread, cfg))
	assert.Equal(t, 8, reread.GetInt("resolve.workers"))
	assert.True(t, reread.GetBool("log.json"))

	var buf bytes.Buffer
	require.NoError(t, getConfig(&buf, reread, "resolve.workers"))
	assert.Equal(t, "8\n", buf.String())

	buf.Reset()
	require.NoError(t, showConfig(&buf, reread))
	assert.Contains(t, buf.String(), "workers: 8")

	assert.Error(t, getConfig(&buf, viper.New(), "no.such.key"))
}

const numbering5ESV = `[{"5ESV": {"Ig domain": 1, "igs": [
  {"5ESV_A": {"A,0_1:120": {
    "data": [{"5ESV_A_2_V": "A1250"}, {"5ESV_A_20_S": "B2550"}, {"5ESV_A_110_W": "G7050"}],
    "refpdbname": "FAB-HEAVY_5esv_V-n1", "score": 0.91, "seqid": 1.0, "nresAlign": 118}}},
  {"5ESV_B": {"B,0_1:108": {
    "data": [{"5ESV_B_3_L": "A1250"}, {"5ESV_B_22_C": "B2550"}, {"5ESV_B_98_F": "G7050"}],
    "refpdbname": "FAB-LIGHT_5esv_V-n1", "score": 0.88, "seqid": 0.97, "nresAlign": 104}}}
]}}]`

func TestRunAlign(t *testing.T) {
	dir := t.TempDir()
	numDir := filepath.Join(dir, "numbering")
	require.NoError(t, os.MkdirAll(numDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(numDir, numbering.FileName("5ESV", "igstrand")), []byte(numbering5ESV), 0644))

	in := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(in, []byte("5ESV A 1\n5esv B 1\n1ABC A 1\n"), 0644))

	v := viper.New()
	setDefaults(v)
	v.Set("paths.numbering", numDir)
	v.Set("paths.output", filepath.Join(dir, "out"))
	v.Set("paths.templates", filepath.Join(dir, "templates"))
	v.Set("provider.command", "false")
	v.Set("provider.retries", 0)
	v.Set("resolve.workers", 1)
	v.Set("cache.path", filepath.Join(dir, "cache.duckdb"))
	s, err := loadSettings(v)
	require.NoError(t, err)

	tsv := filepath.Join(dir, "mapping.tsv")
	require.NoError(t, runAlign(context.Background(), s, zap.NewNop(), in, []string{"1D", "2D"}, tsv))

	xlsx := filepath.Join(dir, "out", "1D_mapping_igstrand.xlsx")
	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	for cell, want := range map[string]string{"A1": "structure", "A2": "5ESV_A_1", "A3": "5ESV_B_1", "E2": "IgV"} {
		got, err := f.GetCellValue(outputSheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
	last, err := f.GetCellValue(outputSheet, "A4")
	require.NoError(t, err)
	assert.Empty(t, last, "unobtainable structure gets no row")

	data, err := os.ReadFile(tsv)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "structure\t"))
	assert.Contains(t, lines[0], "A1250")
	assert.True(t, strings.HasPrefix(lines[2], "5ESV_B_1\t"))

	// No templates exist, so no 2D block could be drawn.
	assert.NoFileExists(t, filepath.Join(dir, "out", "2D_mapping_igstrand.xlsx"))

	store, err := duckdb.Open(s.Cache.Path)
	require.NoError(t, err)
	defer store.Close()
	entries, err := store.List()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	var buf bytes.Buffer
	require.NoError(t, printEntries(&buf, entries))
	assert.Contains(t, buf.String(), "5ESV_A_1")
	assert.Contains(t, buf.String(), "2 cached domains")
}

func TestRunAlign_EmptyInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(in, []byte("# nothing\n"), 0644))

	v := viper.New()
	setDefaults(v)
	v.Set("paths.output", dir)
	s, err := loadSettings(v)
	require.NoError(t, err)

	assert.Error(t, runAlign(context.Background(), s, zap.NewNop(), in, []string{"1D"}, ""))
}

func TestRun_InvalidDimension(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("IGALIGN_LOG_FILE", filepath.Join(t.TempDir(), "igstrand.log"))
	assert.Equal(t, ExitUsage, run([]string{"align", "-f", "input.txt", "-d", "3D", "--config", filepath.Join(t.TempDir(), "c.yaml")}))
}
