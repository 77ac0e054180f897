package dataprocessing

import (
	"strings"

	"surveypulse/pkg/contracts/domain"
)

// MatchesFilter reports whether a record satisfies every active
// constraint of the filter (logical AND across constraint categories).
// Within the score-range constraint a record passes when ANY of its 16
// numeric fields falls inside the range; within the block constraint
// when ANY selected block has at least one answered score.
func MatchesFilter(r *domain.SurveyRecord, f domain.Filter) bool {
	if len(f.Turmas) > 0 && !containsString(f.Turmas, r.Turma) {
		return false
	}
	if len(f.Cursos) > 0 && !containsString(f.Cursos, r.Curso) {
		return false
	}
	if len(f.Professores) > 0 && !containsString(f.Professores, r.Professor) {
		return false
	}

	if f.DataInicio != nil && r.SubmittedAt.Before(*f.DataInicio) {
		return false
	}
	if f.DataFim != nil && r.SubmittedAt.After(*f.DataFim) {
		return false
	}

	// Records without an aproveitamento answer are not excluded by the
	// aproveitamento constraint.
	if len(f.NivelAproveitamento) > 0 && r.NPS.NivelAproveitamento != nil &&
		!containsString(f.NivelAproveitamento, *r.NPS.NivelAproveitamento) {
		return false
	}

	if f.HasScoreRange() && !anyScoreInRange(r, f.ScoreMin, f.ScoreMax) {
		return false
	}

	if len(f.Blocos) > 0 && !anyBlockAnswered(r, f.Blocos) {
		return false
	}

	if term := strings.TrimSpace(f.BuscarTexto); term != "" {
		haystack := strings.ToLower(strings.Join(r.FeedbackTexts(), " "))
		if !strings.Contains(haystack, strings.ToLower(term)) {
			return false
		}
	}

	return true
}

// FilterRecords returns the records passing the filter, in input order.
// The input slice is never mutated.
func FilterRecords(records []domain.SurveyRecord, f domain.Filter) []domain.SurveyRecord {
	filtered := make([]domain.SurveyRecord, 0, len(records))
	for i := range records {
		if MatchesFilter(&records[i], f) {
			filtered = append(filtered, records[i])
		}
	}
	return filtered
}

func anyScoreInRange(r *domain.SurveyRecord, min, max float64) bool {
	for _, s := range r.AllScores() {
		if s != nil && *s >= min && *s <= max {
			return true
		}
	}
	return false
}

func anyBlockAnswered(r *domain.SurveyRecord, blocks []domain.Block) bool {
	for _, b := range blocks {
		for _, s := range r.BlockScores(b) {
			if s != nil {
				return true
			}
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
