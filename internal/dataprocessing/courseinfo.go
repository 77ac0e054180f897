package dataprocessing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"surveypulse/pkg/contracts/domain"
)

var workloadPattern = regexp.MustCompile(`(?i)(\d{1,3})\s*(?:h|horas?)`)

// CourseInfo aggregates the consolidated course summary: workload parsed
// from the course name, per-cohort training periods, combined NPS with
// its qualitative zone, brand recommendation rate and the share of
// respondents reporting maximum course completion.
func CourseInfo(records []domain.SurveyRecord) domain.CourseInfo {
	info := domain.CourseInfo{
		CourseLabel:       "—",
		CargaHorariaLabel: "—",
		TotalHorasLabel:   "—",
		NPSZone:           "—",
	}
	if len(records) == 0 {
		return info
	}

	cursos := uniqueTrimmed(records, func(r *domain.SurveyRecord) string { return r.Curso })
	if len(cursos) == 1 {
		info.CourseLabel = cursos[0]
	} else if len(cursos) > 1 {
		info.CourseLabel = fmt.Sprintf("%d cursos", len(cursos))
	}

	turmas := uniqueTrimmed(records, func(r *domain.SurveyRecord) string { return r.Turma })
	turmasCount := len(turmas)
	if turmasCount == 0 {
		turmasCount = 1
	}
	info.TurmasCount = turmasCount
	info.Participantes = len(records)

	if carga := modalWorkloadHours(records); carga > 0 {
		info.CargaHorariaLabel = fmt.Sprintf("%d horas por turma", carga)
		plural := "turmas"
		if turmasCount == 1 {
			plural = "turma"
		}
		info.TotalHorasLabel = fmt.Sprintf("%d horas (%d %s)", carga*turmasCount, turmasCount, plural)
	}

	info.PeriodosLabel = periodsLabel(records, turmas)

	combined := CalculateNPS(append(CursoScores(records), MarcaScores(records)...))
	percent := combined.NPS
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	info.NPSPercent = percent
	info.NPSZone = npsZone(percent)

	averages := BlockAverages(records)
	info.MediaGeral = math.Round(MeanOfBlocks(averages)*10) / 10

	npsMarca := CalculateNPS(MarcaScores(records))
	if npsMarca.Total > 0 {
		info.RecomendacaoMarcaPct = int(math.Ceil(float64(npsMarca.Promoters) / float64(npsMarca.Total) * 100))
	}

	maxCount := 0
	for i := range records {
		if aproveitamentoIsMax(records[i].NPS.NivelAproveitamento) {
			maxCount++
		}
	}
	info.AproveitamentoMaxPct = int(math.Ceil(float64(maxCount) / float64(len(records)) * 100))

	return info
}

// modalWorkloadHours extracts "NN h/horas" mentions from the course
// names and returns the most frequent value, 0 when none are present.
func modalWorkloadHours(records []domain.SurveyRecord) int {
	freq := make(map[int]int)
	for i := range records {
		m := workloadPattern.FindStringSubmatch(records[i].Curso)
		if m == nil {
			continue
		}
		if v, err := strconv.Atoi(m[1]); err == nil {
			freq[v]++
		}
	}
	best, bestCount := 0, 0
	for v, count := range freq {
		if count > bestCount || (count == bestCount && v > best) {
			best, bestCount = v, count
		}
	}
	return best
}

// periodsLabel derives each cohort's training range and joins them;
// more than two ranges collapse into "<a> e <b> +N".
func periodsLabel(records []domain.SurveyRecord, turmas []string) string {
	var ranges []string
	for _, turma := range turmas {
		var rows []domain.SurveyRecord
		for i := range records {
			if strings.TrimSpace(records[i].Turma) == turma {
				rows = append(rows, records[i])
			}
		}
		start, end := DeriveTrainingRange(rows)
		if label := FormatDateRange(start, end); label != "" {
			ranges = append(ranges, label)
		}
	}
	if len(ranges) > 2 {
		return fmt.Sprintf("%s e %s +%d", ranges[0], ranges[1], len(ranges)-2)
	}
	return strings.Join(ranges, " • ")
}

// npsZone maps a 0-100 NPS percentage to its qualitative label.
func npsZone(percent int) string {
	switch {
	case percent >= 90:
		return "Nível de excelência em satisfação"
	case percent >= 70:
		return "Excelente"
	case percent >= 30:
		return "Bom"
	case percent >= 0:
		return "Regular"
	default:
		return "Crítico"
	}
}

// aproveitamentoIsMax accepts explicit "máximo" mentions or percentages
// >= 100; as a fallback, percentages >= 90 also count.
func aproveitamentoIsMax(txt *string) bool {
	if txt == nil {
		return false
	}
	t := normalizeText(*txt)
	if strings.Contains(t, "aproveitamento max") || strings.Contains(t, "maximo") {
		return true
	}
	m := percentPattern.FindStringSubmatch(*txt)
	if m == nil {
		return false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	return v >= 90
}
