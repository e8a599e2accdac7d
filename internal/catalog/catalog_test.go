package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/igalign/internal/igerr"
)

func TestDefaultResolve(t *testing.T) {
	c := Default()

	ft, err := c.Resolve("FAB-HEAVY_5esv_V-n1")
	require.NoError(t, err)
	assert.Equal(t, IgV, ft)

	ft, err = c.Resolve("BArrestin1_4jqiA_rat_n1")
	require.NoError(t, err)
	assert.Equal(t, IgFN3Like, ft)

	_, err = c.Resolve("fab-heavy_5esv_v-n1")
	require.Error(t, err)
	assert.True(t, igerr.Is(err, igerr.UnknownReferenceStructure))
}

func TestDefaultIsACopy(t *testing.T) {
	c := Default()
	c["CD8a_1cd8A_human_V"] = IgC2

	ft, err := Default().Resolve("CD8a_1cd8A_human_V")
	require.NoError(t, err)
	assert.Equal(t, IgV, ft)
}

func TestParseTable(t *testing.T) {
	input := "# reference\tfold\n" +
		"MyRef_1abcA_human_V\tIgV\n" +
		"\n" +
		"CD8a_1cd8A_human_V\tIgC2\n"

	tbl, err := parseTable(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, tbl, 2)

	merged := Default().Merge(tbl)
	ft, err := merged.Resolve("MyRef_1abcA_human_V")
	require.NoError(t, err)
	assert.Equal(t, IgV, ft)

	ft, err = merged.Resolve("CD8a_1cd8A_human_V")
	require.NoError(t, err)
	assert.Equal(t, IgC2, ft, "loaded entries override built-in ones")
}

func TestParseTable_BadLine(t *testing.T) {
	_, err := parseTable(strings.NewReader("only-one-field\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.tsv")
	require.NoError(t, os.WriteFile(path, []byte("X_1xxxA\tIgI\n"), 0644))

	tbl, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, IgI, tbl["X_1xxxA"])

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.tsv"))
	require.Error(t, err)
}

func TestTableFingerprint(t *testing.T) {
	a := Table{"X_1abcA_human_V": IgV, "Y_2defA_human_C1": IgC1}
	b := Table{"Y_2defA_human_C1": IgC1, "X_1abcA_human_V": IgV}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	assert.NotEqual(t, a.Fingerprint(), a.Merge(Table{"X_1abcA_human_V": IgC2}).Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), a.Merge(Table{"Z_3ghiA_human_V": IgV}).Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), Table{}.Fingerprint())
}
