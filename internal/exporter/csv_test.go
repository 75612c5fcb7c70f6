package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV("out.csv", WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "x"}, {"2", "y,z"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x\n2,\"y,z\"\n", string(data))
}

func TestWriteCSV_BOMPrefix(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV("bom.csv", WriteOptions{
		Headers:   []string{"a"},
		Records:   [][]string{{"1"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "bom.csv"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, "a\n1\n", string(data[3:]))
}

func TestWriteCSV_CreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV(filepath.Join("sub", "deep", "out.csv"), WriteOptions{
		Headers: []string{"a"},
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "sub", "deep", "out.csv"))
}

func TestWriteCSV_AbsolutePathBypassesOutputDir(t *testing.T) {
	outside := filepath.Join(t.TempDir(), "abs.csv")
	w := NewCSVWriter(t.TempDir())

	err := w.WriteCSV(outside, WriteOptions{Headers: []string{"a"}})
	require.NoError(t, err)
	assert.FileExists(t, outside)
}

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	records := [][]string{
		{"policy_id", "churned"},
		{"P1", "true"},
		{"P2", "false"},
	}
	require.NoError(t, w.WriteSnapshot("snapshot.csv", records))

	data, err := os.ReadFile(filepath.Join(dir, "snapshot.csv"))
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFpolicy_id,churned\nP1,true\nP2,false\n", string(data))
}

func TestWriteSnapshot_Empty(t *testing.T) {
	w := NewCSVWriter(t.TempDir())
	assert.Error(t, w.WriteSnapshot("snapshot.csv", nil))
}
