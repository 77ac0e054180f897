package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"surveypulse/pkg/contracts/domain"
)

func filterRecord() domain.SurveyRecord {
	return domain.SurveyRecord{
		ID:          "sub-1",
		Turma:       "Turma A",
		Curso:       "Liderança 16h",
		Professor:   "Prof. Ana",
		SubmittedAt: time.Date(2025, time.August, 5, 10, 0, 0, 0, time.Local),
		Metodologia: domain.Metodologia{
			ParticipacaoAtiva: floatPtr(5),
			Feedback:          strPtr("A dinâmica em grupo funcionou muito bem."),
		},
		NPS: domain.NPSFields{
			NPSCurso:            floatPtr(9),
			NivelAproveitamento: strPtr("Aproveitamento máximo"),
		},
	}
}

func TestMatchesFilter(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.SurveyRecord)
		filter func(*domain.Filter)
		want   bool
	}{
		{
			name: "default filter passes everything",
			want: true,
		},
		{
			name:   "turma matches",
			filter: func(f *domain.Filter) { f.Turmas = []string{"Turma A", "Turma B"} },
			want:   true,
		},
		{
			name:   "turma rejects",
			filter: func(f *domain.Filter) { f.Turmas = []string{"Turma C"} },
			want:   false,
		},
		{
			name:   "curso rejects",
			filter: func(f *domain.Filter) { f.Cursos = []string{"Outro Curso"} },
			want:   false,
		},
		{
			name:   "professor matches",
			filter: func(f *domain.Filter) { f.Professores = []string{"Prof. Ana"} },
			want:   true,
		},
		{
			name: "submission before window start rejects",
			filter: func(f *domain.Filter) {
				f.DataInicio = timePtr(time.Date(2025, time.August, 6, 0, 0, 0, 0, time.Local))
			},
			want: false,
		},
		{
			name: "submission after window end rejects",
			filter: func(f *domain.Filter) {
				f.DataFim = timePtr(time.Date(2025, time.August, 4, 0, 0, 0, 0, time.Local))
			},
			want: false,
		},
		{
			name: "any score in range passes",
			filter: func(f *domain.Filter) {
				// Only metodologia.participacaoAtiva (5) falls in [4,6];
				// the record still passes.
				f.ScoreMin, f.ScoreMax = 4, 6
			},
			want: true,
		},
		{
			name:   "no score in range rejects",
			filter: func(f *domain.Filter) { f.ScoreMin, f.ScoreMax = 1, 3 },
			want:   false,
		},
		{
			name:   "full range is inactive even for scoreless records",
			mutate: func(r *domain.SurveyRecord) { *r = domain.SurveyRecord{ID: r.ID, Turma: r.Turma} },
			want:   true,
		},
		{
			name:   "selected block answered passes",
			filter: func(f *domain.Filter) { f.Blocos = []domain.Block{domain.BlockMetodologia} },
			want:   true,
		},
		{
			name:   "selected block unanswered rejects",
			filter: func(f *domain.Filter) { f.Blocos = []domain.Block{domain.BlockInfraestrutura} },
			want:   false,
		},
		{
			name:   "any of several blocks answered passes",
			filter: func(f *domain.Filter) { f.Blocos = []domain.Block{domain.BlockInfraestrutura, domain.BlockMetodologia} },
			want:   true,
		},
		{
			name:   "aproveitamento matches",
			filter: func(f *domain.Filter) { f.NivelAproveitamento = []string{"Aproveitamento máximo"} },
			want:   true,
		},
		{
			name:   "aproveitamento rejects",
			filter: func(f *domain.Filter) { f.NivelAproveitamento = []string{"Aproveitamento parcial"} },
			want:   false,
		},
		{
			name:   "nil aproveitamento is not excluded",
			mutate: func(r *domain.SurveyRecord) { r.NPS.NivelAproveitamento = nil },
			filter: func(f *domain.Filter) { f.NivelAproveitamento = []string{"Aproveitamento parcial"} },
			want:   true,
		},
		{
			name:   "text search is case insensitive",
			filter: func(f *domain.Filter) { f.BuscarTexto = "DINÂMICA" },
			want:   true,
		},
		{
			name:   "text search rejects on no hit",
			filter: func(f *domain.Filter) { f.BuscarTexto = "internet" },
			want:   false,
		},
		{
			name:   "whitespace-only search is inactive",
			filter: func(f *domain.Filter) { f.BuscarTexto = "   " },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := filterRecord()
			if tt.mutate != nil {
				tt.mutate(&r)
			}
			f := domain.DefaultFilter()
			if tt.filter != nil {
				tt.filter(&f)
			}
			assert.Equal(t, tt.want, MatchesFilter(&r, f))
		})
	}
}

func TestFilterRecords(t *testing.T) {
	records := []domain.SurveyRecord{filterRecord(), filterRecord()}
	records[1].Turma = "Turma B"

	f := domain.DefaultFilter()
	f.Turmas = []string{"Turma B"}

	got := FilterRecords(records, f)
	assert.Len(t, got, 1)
	assert.Equal(t, "Turma B", got[0].Turma)
	assert.Len(t, records, 2, "input is not mutated")
}
