package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveypulse/pkg/contracts/domain"
)

func floatPtr(f float64) *float64 { return &f }

func dashboardRecords() []domain.SurveyRecord {
	return []domain.SurveyRecord{
		{
			ID:          "sub-1",
			SubmittedAt: time.Date(2025, 8, 4, 10, 0, 0, 0, time.Local),
			Turma:       "Turma A",
			Curso:       "Liderança 16h",
			Professor:   "Maria Silva",
			Autoavaliacao: domain.Autoavaliacao{
				PresencaParticipacao: floatPtr(9),
				PosturaAcademica:     floatPtr(8),
			},
			AvaliacaoProfessor: domain.AvaliacaoProfessor{
				DominioAssunto: floatPtr(10),
			},
			NPS: domain.NPSFields{
				NPSCurso: floatPtr(10),
				NPSMarca: floatPtr(9),
			},
		},
		{
			ID:          "sub-2",
			SubmittedAt: time.Date(2025, 8, 5, 10, 0, 0, 0, time.Local),
			Turma:       "Turma B",
			Curso:       "Liderança 16h",
			Professor:   "Maria Silva",
			Autoavaliacao: domain.Autoavaliacao{
				PresencaParticipacao: floatPtr(6),
			},
			NPS: domain.NPSFields{
				NPSCurso: floatPtr(6),
			},
		},
	}
}

func TestDashboardService_Build(t *testing.T) {
	svc := NewDashboardService(NewMetrics(), testLogger())

	data := svc.Build(context.Background(), dashboardRecords(), domain.DefaultFilter())

	assert.Equal(t, 2, data.Total)
	assert.Equal(t, 2, data.Filtered)
	assert.Equal(t, 2, data.KPIs.TotalRespondentes)

	// One promoter and one detractor on the course question
	assert.Equal(t, 0, data.NPS.Curso.NPS)
	assert.Equal(t, 1, data.NPS.Curso.Promoters)
	assert.Equal(t, 1, data.NPS.Curso.Detractors)

	assert.Equal(t, []string{"Turma A", "Turma B"}, data.Options.Turmas)
	assert.Equal(t, []string{"Liderança 16h"}, data.Options.Cursos)
	assert.Equal(t, []string{"Maria Silva"}, data.Options.Professores)

	assert.Equal(t, "Maria Silva", data.Professor.ProfessorNome)
	assert.NotEmpty(t, data.TimeSeries)
}

func TestDashboardService_Build_Filtered(t *testing.T) {
	svc := NewDashboardService(NewMetrics(), testLogger())

	filter := domain.DefaultFilter()
	filter.Turmas = []string{"Turma A"}
	data := svc.Build(context.Background(), dashboardRecords(), filter)

	assert.Equal(t, 2, data.Total)
	assert.Equal(t, 1, data.Filtered)
	assert.Equal(t, 1, data.KPIs.TotalRespondentes)

	// Options always reflect the unfiltered dataset
	assert.Equal(t, []string{"Turma A", "Turma B"}, data.Options.Turmas)
	assert.Equal(t, []string{"Turma A"}, data.Filter.Turmas)
}

func TestDashboardService_Build_Empty(t *testing.T) {
	svc := NewDashboardService(NewMetrics(), testLogger())

	data := svc.Build(context.Background(), nil, domain.DefaultFilter())

	assert.Equal(t, 0, data.Total)
	assert.Equal(t, "N/A", data.KPIs.BlocoMelhor)
	require.NotNil(t, data.TimeSeries)
	assert.Empty(t, data.TimeSeries)
	require.NotNil(t, data.Sessions)
	require.NotNil(t, data.Feedbacks)
	require.NotNil(t, data.AttentionPoints)
	assert.Empty(t, data.Options.Turmas)
}

func TestHealthService_Status(t *testing.T) {
	svc := newTestService(t)
	health := NewHealthService("1.2.3", svc)

	status := health.Status(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, 0, status.Records)
	assert.False(t, status.SnapshotPresent)
	assert.NotEmpty(t, status.GoVersion)
}
