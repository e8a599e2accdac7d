package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/igalign/internal/catalog"
	"github.com/inodb/igalign/internal/igdomain"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDescriptor(structure, chain string, pos int) *igdomain.Descriptor {
	t := igdomain.Triple{StructureID: structure, Chain: chain, Domain: "1"}
	d := igdomain.Empty(t)
	d.Position = pos
	d.FoldType = catalog.IgV
	d.RefName = "FAB-HEAVY_5esv_V-n1"
	d.StructRange = "1:120"
	d.IgRange = "2:118"
	d.Score = "0.91"
	d.Labels = []string{"A1250", "B2550"}
	d.Residues = map[string]igdomain.Residue{
		"A1250": {Letter: "Q", Loop: "1"},
		"B2550": {Letter: "S"},
	}
	d.Found = true
	return d
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Equal(t, "", s.Path())
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestPutAndGet(t *testing.T) {
	s := openInMemory(t)
	fp := FileFingerprint{Size: 1000, ModTime: time.Now()}
	d := sampleDescriptor("5ESV", "A", 1)

	require.NoError(t, s.Put(d, fp))

	got, ok, err := s.Get("5ESV_A_1", fp)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d.Key, got.Key)
	assert.Equal(t, catalog.IgV, got.FoldType)
	assert.Equal(t, "2:118", got.IgRange)
	assert.Equal(t, d.Labels, got.Labels)
	assert.Equal(t, d.Residues, got.Residues)
	assert.True(t, got.Found)

	_, ok, err = s.Get("5ESV_B_1", fp)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGet_StaleFingerprint(t *testing.T) {
	s := openInMemory(t)
	now := time.Now()
	fp := FileFingerprint{Size: 1000, ModTime: now}
	require.NoError(t, s.Put(sampleDescriptor("5ESV", "A", 1), fp))

	resized := fp
	resized.Size = 9999
	_, ok, err := s.Get("5ESV_A_1", resized)
	require.NoError(t, err)
	assert.False(t, ok)

	touched := fp
	touched.ModTime = now.Add(time.Second)
	_, ok, err = s.Get("5ESV_A_1", touched)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGet_ResolverFingerprint(t *testing.T) {
	s := openInMemory(t)
	fp := FileFingerprint{Size: 1000, ModTime: time.Now()}.WithResolver("first/abc")
	require.NoError(t, s.Put(sampleDescriptor("5ESV", "A", 1), fp))
	require.NoError(t, s.PutChain([]*igdomain.Descriptor{sampleDescriptor("5ESV", "B", 1)}, fp))

	for _, key := range []string{"5ESV_A_1", "5ESV_B_1"} {
		_, ok, err := s.Get(key, fp)
		require.NoError(t, err)
		assert.True(t, ok, key)

		_, ok, err = s.Get(key, fp.WithResolver("first/def"))
		require.NoError(t, err)
		assert.False(t, ok, "%s under another catalog", key)

		_, ok, err = s.Get(key, fp.WithResolver("error/abc"))
		require.NoError(t, err)
		assert.False(t, ok, "%s under another duplicate policy", key)
	}
}

func TestPut_Replaces(t *testing.T) {
	s := openInMemory(t)
	fp := FileFingerprint{Size: 10, ModTime: time.Now()}
	d := sampleDescriptor("5ESV", "A", 1)
	require.NoError(t, s.Put(d, fp))

	d.RefName = "IgV_2dks"
	require.NoError(t, s.Put(d, fp))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "IgV_2dks", entries[0].RefName)
}

func TestPutChainAndList(t *testing.T) {
	s := openInMemory(t)
	fp := FileFingerprint{Size: 500, ModTime: time.Now()}

	a1 := sampleDescriptor("7CM4", "A", 1)
	a2 := sampleDescriptor("7CM4", "A", 2)
	a2.Key = "7CM4_A_2"
	require.NoError(t, s.Put(a1, fp))
	require.NoError(t, s.PutChain([]*igdomain.Descriptor{a1, a2}, fp))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "7CM4_A_1", entries[0].Key)
	assert.Equal(t, "7CM4_A_2", entries[1].Key)
	assert.Equal(t, int64(2), entries[1].Position)
	assert.Equal(t, int64(500), entries[1].FileSize)
	assert.False(t, entries[0].CachedAt.IsZero())

	got, ok, err := s.Get("7CM4_A_2", fp)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, got.Position)
}

func TestDeleteStructureAndClear(t *testing.T) {
	s := openInMemory(t)
	fp := FileFingerprint{Size: 1, ModTime: time.Now()}
	require.NoError(t, s.Put(sampleDescriptor("5ESV", "A", 1), fp))
	require.NoError(t, s.Put(sampleDescriptor("5ESV", "B", 1), fp))
	require.NoError(t, s.Put(sampleDescriptor("1CD8", "A", 1), fp))

	n, err := s.DeleteStructure("5ESV")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1CD8", entries[0].Structure)

	require.NoError(t, s.Clear())
	entries, err = s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "5ESV_refnum_igstrand.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fp.Size)
	assert.Equal(t, path, fp.Path)

	_, err = StatFile(path + ".missing")
	assert.Error(t, err)
}

func TestOpen_DropsStaleSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(sampleDescriptor("5ESV", "A", 1), FileFingerprint{Size: 1, ModTime: time.Now()}))
	_, err = s.DB().Exec("UPDATE cache_meta SET value='0' WHERE name='schema_version'")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	var version string
	require.NoError(t, s.DB().QueryRow("SELECT value FROM cache_meta WHERE name='schema_version'").Scan(&version))
	assert.Equal(t, schemaVersion, version)
}

func TestOpen_KeepsCurrentSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(sampleDescriptor("5ESV", "A", 1), FileFingerprint{Size: 1, ModTime: time.Now()}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileFingerprint_Same(t *testing.T) {
	now := time.Now()
	a := FileFingerprint{Path: "x.json", Size: 3, ModTime: now}
	assert.True(t, a.Same(FileFingerprint{Path: "x.json", Size: 3, ModTime: now}))
	assert.False(t, a.Same(FileFingerprint{Path: "x.json", Size: 4, ModTime: now}))
	assert.False(t, a.Same(FileFingerprint{Path: "y.json", Size: 3, ModTime: now}))
	assert.Contains(t, a.String(), "x.json (3 bytes")
}

func TestStatFile_Directory(t *testing.T) {
	_, err := StatFile(t.TempDir())
	assert.Error(t, err)
}
