package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"surveypulse/pkg/contracts/domain"
)

func TestCourseInfo_Empty(t *testing.T) {
	info := CourseInfo(nil)
	assert.Equal(t, "—", info.CourseLabel)
	assert.Equal(t, "—", info.CargaHorariaLabel)
	assert.Equal(t, "—", info.TotalHorasLabel)
	assert.Equal(t, "—", info.NPSZone)
	assert.Zero(t, info.Participantes)
}

func TestCourseInfo(t *testing.T) {
	inicio := day(2025, time.August, 1)
	termino := day(2025, time.August, 2)
	submitted := time.Date(2025, time.August, 2, 18, 0, 0, 0, time.Local)

	records := []domain.SurveyRecord{
		{
			Turma:       "Turma A",
			Curso:       "Formação em Liderança - 16h",
			DataInicio:  &inicio,
			DataTermino: &termino,
			SubmittedAt: submitted,
			Metodologia: domain.Metodologia{ParticipacaoAtiva: floatPtr(9)},
			NPS: domain.NPSFields{
				NPSCurso:            floatPtr(10),
				NPSMarca:            floatPtr(10),
				NivelAproveitamento: strPtr("Aproveitamento máximo"),
			},
		},
		{
			Turma:       "Turma A",
			Curso:       "Formação em Liderança - 16h",
			DataInicio:  &inicio,
			SubmittedAt: submitted,
			Metodologia: domain.Metodologia{ParticipacaoAtiva: floatPtr(8)},
			NPS: domain.NPSFields{
				NPSCurso:            floatPtr(9),
				NPSMarca:            floatPtr(7),
				NivelAproveitamento: strPtr("Aproveitei uns 80%"),
			},
		},
	}

	info := CourseInfo(records)

	assert.Equal(t, "Formação em Liderança - 16h", info.CourseLabel)
	assert.Equal(t, "16 horas por turma", info.CargaHorariaLabel)
	assert.Equal(t, "16 horas (1 turma)", info.TotalHorasLabel)
	assert.Equal(t, "01-02 de Agosto 2025", info.PeriodosLabel)
	assert.Equal(t, 2, info.Participantes)
	assert.Equal(t, 1, info.TurmasCount)

	// Ratings 10, 9, 10, 7: three promoters and one neutral over four
	// ratings, NPS 75.
	assert.Equal(t, 75, info.NPSPercent)
	assert.Equal(t, "Excelente", info.NPSZone)

	// Brand promoters: one of two ratings.
	assert.Equal(t, 50, info.RecomendacaoMarcaPct)
	// One of two respondents reported maximum completion ("80%" does
	// not qualify).
	assert.Equal(t, 50, info.AproveitamentoMaxPct)
}

func TestCourseInfo_MultipleCourses(t *testing.T) {
	records := []domain.SurveyRecord{
		{Turma: "Turma A", Curso: "Curso Um 8h", SubmittedAt: day(2025, time.August, 1)},
		{Turma: "Turma B", Curso: "Curso Dois 8h", SubmittedAt: day(2025, time.August, 20)},
	}

	info := CourseInfo(records)
	assert.Equal(t, "2 cursos", info.CourseLabel)
	assert.Equal(t, 2, info.TurmasCount)
	assert.Equal(t, "8 horas por turma", info.CargaHorariaLabel)
	assert.Equal(t, "16 horas (2 turmas)", info.TotalHorasLabel)
}

func TestModalWorkloadHours(t *testing.T) {
	tests := []struct {
		name   string
		cursos []string
		want   int
	}{
		{name: "no mention", cursos: []string{"Liderança Avançada"}, want: 0},
		{name: "single mention", cursos: []string{"Liderança 16h"}, want: 16},
		{name: "horas spelled out", cursos: []string{"Imersão 24 horas"}, want: 24},
		{name: "most frequent wins", cursos: []string{"A 8h", "B 8h", "C 16h"}, want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]domain.SurveyRecord, len(tt.cursos))
			for i, c := range tt.cursos {
				records[i].Curso = c
			}
			assert.Equal(t, tt.want, modalWorkloadHours(records))
		})
	}
}

func TestNPSZone(t *testing.T) {
	assert.Equal(t, "Nível de excelência em satisfação", npsZone(95))
	assert.Equal(t, "Excelente", npsZone(70))
	assert.Equal(t, "Bom", npsZone(45))
	assert.Equal(t, "Regular", npsZone(10))
	assert.Equal(t, "Crítico", npsZone(-5))
}

func TestAproveitamentoIsMax(t *testing.T) {
	tests := []struct {
		name string
		txt  *string
		want bool
	}{
		{name: "nil", txt: nil, want: false},
		{name: "explicit maximum", txt: strPtr("Aproveitamento máximo"), want: true},
		{name: "hundred percent", txt: strPtr("100%"), want: true},
		{name: "ninety percent counts", txt: strPtr("uns 90%"), want: true},
		{name: "eighty percent does not", txt: strPtr("80%"), want: false},
		{name: "plain text", txt: strPtr("bom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aproveitamentoIsMax(tt.txt))
		})
	}
}
