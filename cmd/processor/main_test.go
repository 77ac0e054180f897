package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveypulse/internal/exporter"
)

const sampleCSV = "Submission ID,Selecione a turma que você está estudando.,Qual curso você deseja avaliar?,1. MINHA PRESENÇA E PARTICIPAÇÃO NO CURSO,NPS Curso\n" +
	"sub-1,Turma A,Liderança 16h,\"9,5\",10\n" +
	"sub-2,Turma A,Liderança 16h,8,9\n" +
	",,,7,\n"

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "respostas.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))
	return path
}

func TestRun_Summary(t *testing.T) {
	input := writeSample(t)

	var out bytes.Buffer
	err := run([]string{"-in", input}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Linhas de dados: 3")
	assert.Contains(t, out.String(), "Registros válidos: 2")
	assert.Contains(t, out.String(), "Linhas inválidas: 1")
	assert.Contains(t, out.String(), "Linha 3: Dados inválidos ou incompletos")
}

func TestRun_WritesOutputs(t *testing.T) {
	input := writeSample(t)
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "dataset.json")
	csvPath := filepath.Join(dir, "records.csv")

	var out bytes.Buffer
	err := run([]string{"-in", input, "-json", jsonPath, "-csv", csvPath}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var dataset exporter.Dataset
	require.NoError(t, json.Unmarshal(data, &dataset))
	assert.Equal(t, 2, dataset.Total)
	assert.Equal(t, "sub-1", dataset.Records[0].ID)

	content, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(content), "Turma A")
}

func TestRun_MissingInput(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{}, &out)
	assert.Error(t, err)
}

func TestRun_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "respostas.pdf")
	require.NoError(t, os.WriteFile(path, []byte("conteudo"), 0644))

	var out bytes.Buffer
	err := run([]string{"-in", path}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestRun_UnreadableFile(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-in", filepath.Join(t.TempDir(), "nope.csv")}, &out)
	assert.Error(t, err)
}
