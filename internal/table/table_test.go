package table

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecords(t *testing.T) {
	records := [][]string{
		{"policy_id", "customer_id", "churned", "policy_start_date", "policy_end_date", "customer_age", "income_band", "notes"},
		{"P1", "C1", "true", "2020-01-15", "2023-06-01", "42", "High", "ok"},
		{"P2", "C1", "false", "2021-03-01", "", "", "", ""},
		{"P3", "C2", "false", "not-a-date", "", "17.5", "Low", "x"},
	}

	tbl, err := FromRecords(records, PolicySchema())
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, 8, tbl.NumCols())

	t.Run("empty strings become absent", func(t *testing.T) {
		age, ok := tbl.Col("customer_age")
		require.True(t, ok)
		_, present := age.Float(1)
		assert.False(t, present)
		assert.Equal(t, 1, age.MissingCount())

		v, present := age.Float(0)
		require.True(t, present)
		assert.Equal(t, 42.0, v)
	})

	t.Run("declared dates parse and coerce", func(t *testing.T) {
		start, ok := tbl.Col("policy_start_date")
		require.True(t, ok)
		d, present := start.Date(0)
		require.True(t, present)
		assert.Equal(t, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), d)

		// Unparseable dates coerce to absent rather than failing the load.
		_, present = start.Date(2)
		assert.False(t, present)
	})

	t.Run("income band default fills missing", func(t *testing.T) {
		band, ok := tbl.Col("income_band")
		require.True(t, ok)
		v, present := band.Str(1)
		require.True(t, present)
		assert.Equal(t, "Unknown", v)
		assert.Equal(t, 0, band.MissingCount())
	})

	t.Run("undeclared columns load as strings", func(t *testing.T) {
		kind, ok := tbl.InferredKind("notes")
		require.True(t, ok)
		assert.Equal(t, KindString, kind)
	})

	t.Run("bool labels render as True and False", func(t *testing.T) {
		churned, ok := tbl.Col("churned")
		require.True(t, ok)
		label, present := churned.Label(0)
		require.True(t, present)
		assert.Equal(t, "True", label)
		label, _ = churned.Label(1)
		assert.Equal(t, "False", label)
	})

	t.Run("float labels drop trailing zeros", func(t *testing.T) {
		age, _ := tbl.Col("customer_age")
		label, present := age.Label(0)
		require.True(t, present)
		assert.Equal(t, "42", label)
		label, _ = age.Label(2)
		assert.Equal(t, "17.5", label)
	})
}

func TestFromRecords_RequiredColumnMissing(t *testing.T) {
	records := [][]string{
		{"policy_id", "customer_gender"},
		{"P1", "F"},
	}
	_, err := FromRecords(records, PolicySchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer_id")
}

func TestAddStrColumnAndSnapshot(t *testing.T) {
	records := [][]string{
		{"policy_id", "customer_id", "churned"},
		{"P1", "C1", "true"},
		{"P2", "C2", "false"},
	}
	tbl, err := FromRecords(records, PolicySchema())
	require.NoError(t, err)

	require.NoError(t, tbl.AddStrColumn("customer_gender_std", []string{"F", "Unknown"}, nil))
	require.NoError(t, tbl.AddStrColumn("gender_conflict", []string{"1", "0"}, nil))

	// Duplicate and mis-sized columns are rejected.
	assert.Error(t, tbl.AddStrColumn("gender_conflict", []string{"0", "0"}, nil))
	assert.Error(t, tbl.AddStrColumn("other", []string{"x"}, nil))

	snapshot := tbl.SnapshotRecords()
	require.Len(t, snapshot, 3)
	assert.Equal(t, []string{"policy_id", "customer_id", "churned", "customer_gender_std", "gender_conflict"}, snapshot[0])
	assert.Equal(t, []string{"P1", "C1", "true", "F", "1"}, snapshot[1])
	assert.Equal(t, []string{"P2", "C2", "false", "Unknown", "0"}, snapshot[2])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policies.csv")

	content := "\xEF\xBB\xBFpolicy_id,customer_id,churned\nP1,C1,true\nP2,C1,false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tbl, err := Load(path, PolicySchema())
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())

	// BOM must not leak into the first header name.
	col, ok := tbl.Col("policy_id")
	require.True(t, ok)
	v, present := col.Str(0)
	require.True(t, present)
	assert.Equal(t, "P1", v)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"), PolicySchema())
	require.Error(t, err)
}
