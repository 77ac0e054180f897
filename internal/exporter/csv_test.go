package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveypulse/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	dir := t.TempDir()
	return &config.Paths{
		ExecutableDir: dir,
		DataDir:       filepath.Join(dir, "data"),
		LogsDir:       filepath.Join(dir, "logs"),
		WebDir:        filepath.Join(dir, "web"),
	}
}

func TestWriteSimpleCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	headers := []string{"Turma", "Curso"}
	records := [][]string{
		{"Turma A", "Liderança"},
		{"Turma B", "Comunicação"},
	}

	err := writer.WriteSimpleCSV("exports/test.csv", headers, records)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(paths.DataDir, "exports", "test.csv"))
	require.NoError(t, err)

	// BOM prefix for Excel
	assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, records[0], rows[1])
	assert.Equal(t, records[1], rows[2])
}

func TestWriteCSV_AbsolutePath(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	target := filepath.Join(t.TempDir(), "absolute.csv")
	err := writer.WriteCSV(target, WriteOptions{Headers: []string{"x"}, Records: [][]string{{"1"}}})
	require.NoError(t, err)

	_, err = os.Stat(target)
	assert.NoError(t, err)
}
