package domain

import "time"

// Filter enumerates the active dashboard constraints. Empty slices mean
// "no constraint". The UI layer replaces the whole value on every
// interaction; the evaluator only ever reads it.
type Filter struct {
	Turmas              []string   `json:"turmas"`
	Cursos              []string   `json:"cursos"`
	Professores         []string   `json:"professores"`
	Blocos              []Block    `json:"blocos" validate:"dive,oneof=autoavaliacao professor metodologia infraestrutura"`
	ScoreMin            float64    `json:"scoreMin" validate:"min=0,max=10"`
	ScoreMax            float64    `json:"scoreMax" validate:"min=0,max=10,gtefield=ScoreMin"`
	DataInicio          *time.Time `json:"dataInicio"`
	DataFim             *time.Time `json:"dataFim"`
	NivelAproveitamento []string   `json:"nivelAproveitamento"`
	BuscarTexto         string     `json:"buscarTexto"`
}

// DefaultFilter returns the all-permissive filter used before any user
// interaction.
func DefaultFilter() Filter {
	return Filter{ScoreMin: 0, ScoreMax: 10}
}

// HasScoreRange reports whether the score-range constraint is narrower
// than the full [0,10] scale and therefore active.
func (f Filter) HasScoreRange() bool {
	return f.ScoreMin > 0 || f.ScoreMax < 10
}
