package dataprocessing

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"surveypulse/pkg/contracts/domain"
)

// Display names of the evaluation blocks, in tie-break order.
var blockNames = map[domain.Block]string{
	domain.BlockAutoavaliacao:  "Autoavaliação",
	domain.BlockProfessor:      "Professor",
	domain.BlockMetodologia:    "Metodologia",
	domain.BlockInfraestrutura: "Infraestrutura",
}

var shortMonthsPtBR = []string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

var monthsPtBR = []string{"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho", "Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"}

// CalculateNPS buckets the non-nil ratings into promoters (>=9),
// detractors (<=6) and neutrals (7-8) and derives the score. The NPS is
// always rounded up, a convention the dashboards depend on. All-nil
// input degenerates to the zero result.
func CalculateNPS(scores []*float64) domain.NPSResult {
	var result domain.NPSResult
	for _, s := range scores {
		if s == nil {
			continue
		}
		result.Total++
		switch {
		case *s >= 9:
			result.Promoters++
		case *s <= 6:
			result.Detractors++
		default:
			result.Neutros++
		}
	}
	if result.Total == 0 {
		return result
	}
	result.NPS = int(math.Ceil(float64(result.Promoters-result.Detractors) / float64(result.Total) * 100))
	return result
}

// CombineNPS merges two already-rounded NPS scores into the combined
// total, rounding up again. Rounding twice is deliberate.
func CombineNPS(cursoNPS, marcaNPS int) int {
	return int(math.Ceil(float64(cursoNPS+marcaNPS) / 2))
}

// CursoScores extracts the course-recommendation ratings of the records.
func CursoScores(records []domain.SurveyRecord) []*float64 {
	scores := make([]*float64, len(records))
	for i := range records {
		scores[i] = records[i].NPS.NPSCurso
	}
	return scores
}

// MarcaScores extracts the brand-recommendation ratings of the records.
func MarcaScores(records []domain.SurveyRecord) []*float64 {
	scores := make([]*float64, len(records))
	for i := range records {
		scores[i] = records[i].NPS.NPSMarca
	}
	return scores
}

// NPSBreakdown computes the course, brand and combined NPS results over
// one record set. The combined result pools both rating columns.
func NPSBreakdown(records []domain.SurveyRecord) domain.NPSBreakdown {
	curso := CursoScores(records)
	marca := MarcaScores(records)
	return domain.NPSBreakdown{
		Curso:    CalculateNPS(curso),
		Marca:    CalculateNPS(marca),
		Combined: CalculateNPS(append(append([]*float64{}, curso...), marca...)),
	}
}

// BlockAverages flattens every non-nil score of each block across the
// records and takes the arithmetic mean, rounded up to one decimal.
// Blocks with no valid scores average to zero.
func BlockAverages(records []domain.SurveyRecord) domain.BlockAverages {
	return domain.BlockAverages{
		Autoavaliacao:  blockAverage(records, domain.BlockAutoavaliacao),
		Professor:      blockAverage(records, domain.BlockProfessor),
		Metodologia:    blockAverage(records, domain.BlockMetodologia),
		Infraestrutura: blockAverage(records, domain.BlockInfraestrutura),
	}
}

func blockAverage(records []domain.SurveyRecord, b domain.Block) float64 {
	var sum float64
	var n int
	for i := range records {
		for _, s := range records[i].BlockScores(b) {
			if s != nil {
				sum += *s
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return CeilTo1(sum / float64(n))
}

// CeilTo1 rounds up to one decimal place: ceiling(x*10)/10.
func CeilTo1(x float64) float64 {
	return math.Ceil(x*10) / 10
}

// MeanOfBlocks is the unweighted mean of the four block averages, the
// two-level averaging policy behind "média geral".
func MeanOfBlocks(a domain.BlockAverages) float64 {
	return (a.Autoavaliacao + a.Professor + a.Metodologia + a.Infraestrutura) / 4
}

// BestBlock returns the display name of the block with the highest
// average. Ties keep the first block in iteration order.
func BestBlock(a domain.BlockAverages) string {
	best := domain.Blocks[0]
	for _, b := range domain.Blocks[1:] {
		if a.Value(b) > a.Value(best) {
			best = b
		}
	}
	return blockNames[best]
}

// KPIs derives the headline aggregate for one (already filtered) record
// set. An empty set yields the neutral zero KPI with "N/A" best block.
func KPIs(records []domain.SurveyRecord) domain.KPISet {
	if len(records) == 0 {
		return domain.KPISet{BlocoMelhor: "N/A"}
	}

	averages := BlockAverages(records)
	npsCurso := CalculateNPS(CursoScores(records))
	npsMarca := CalculateNPS(MarcaScores(records))

	return domain.KPISet{
		TotalRespondentes: len(records),
		MediaGeral:        MeanOfBlocks(averages),
		NPSTotal:          CombineNPS(npsCurso.NPS, npsMarca.NPS),
		BlocoMelhor:       BestBlock(averages),
		AvaliacaoMedia:    averages,
	}
}

// TimeSeries buckets the records by ISO week of submission (weeks start
// on Monday) and derives block averages and NPS per bucket, ordered
// chronologically.
func TimeSeries(records []domain.SurveyRecord) []domain.TimeSeriesPoint {
	weekly := make(map[string][]domain.SurveyRecord)
	for i := range records {
		key := WeekStart(records[i].SubmittedAt).Format("2006-01-02")
		weekly[key] = append(weekly[key], records[i])
	}

	keys := make([]string, 0, len(weekly))
	for k := range weekly {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]domain.TimeSeriesPoint, 0, len(keys))
	for _, key := range keys {
		bucket := weekly[key]
		averages := BlockAverages(bucket)
		start, _ := time.ParseInLocation("2006-01-02", key, time.Local)
		points = append(points, domain.TimeSeriesPoint{
			Date:           key,
			Semana:         formatWeekLabel(start),
			Respondentes:   len(bucket),
			Autoavaliacao:  averages.Autoavaliacao,
			Professor:      averages.Professor,
			Metodologia:    averages.Metodologia,
			Infraestrutura: averages.Infraestrutura,
			NPSCurso:       CalculateNPS(CursoScores(bucket)).NPS,
			NPSMarca:       CalculateNPS(MarcaScores(bucket)).NPS,
		})
	}
	return points
}

// WeekStart returns the Monday midnight of the week containing t,
// treating Sunday as day 7.
func WeekStart(t time.Time) time.Time {
	d := Midnight(t)
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	return d.AddDate(0, 0, -(wd - 1))
}

// formatWeekLabel renders the week chart label in pt-BR short form,
// e.g. "4 de ago.".
func formatWeekLabel(t time.Time) string {
	return fmt.Sprintf("%d de %s.", t.Day(), shortMonthsPtBR[int(t.Month())-1])
}

// ProfessorMetrics averages each professor-evaluation dimension across
// the records, rounding to the nearest decimal (nil when a dimension has
// no valid scores). The professor name is resolved when the selection or
// the data makes it unambiguous.
func ProfessorMetrics(records []domain.SurveyRecord, selected []string) domain.ProfessorMetrics {
	dim := func(pick func(*domain.SurveyRecord) *float64) *float64 {
		var sum float64
		var n int
		for i := range records {
			if v := pick(&records[i]); v != nil {
				sum += *v
				n++
			}
		}
		if n == 0 {
			return nil
		}
		v := math.Round(sum/float64(n)*10) / 10
		return &v
	}

	var nome string
	if len(selected) == 1 {
		nome = selected[0]
	} else {
		unique := make(map[string]struct{})
		for i := range records {
			if records[i].Professor != "" {
				unique[records[i].Professor] = struct{}{}
			}
		}
		if len(unique) == 1 {
			for p := range unique {
				nome = p
			}
		}
	}

	return domain.ProfessorMetrics{
		Relacionamento: dim(func(r *domain.SurveyRecord) *float64 { return r.AvaliacaoProfessor.Relacionamento }),
		DominioAssunto: dim(func(r *domain.SurveyRecord) *float64 { return r.AvaliacaoProfessor.DominioAssunto }),
		Aplicabilidade: dim(func(r *domain.SurveyRecord) *float64 { return r.AvaliacaoProfessor.Aplicabilidade }),
		Didatica:       dim(func(r *domain.SurveyRecord) *float64 { return r.AvaliacaoProfessor.DidaticaComunicacao }),
		Pontualidade:   dim(func(r *domain.SurveyRecord) *float64 { return r.AvaliacaoProfessor.Pontualidade }),
		ProfessorNome:  nome,
	}
}

// FeedbackHighlights flattens every non-empty feedback text with its
// cohort metadata, in record order.
func FeedbackHighlights(records []domain.SurveyRecord) []domain.FeedbackItem {
	var items []domain.FeedbackItem
	for i := range records {
		for _, text := range records[i].FeedbackTexts() {
			items = append(items, domain.FeedbackItem{
				Text:  strings.TrimSpace(text),
				Turma: records[i].Turma,
				Curso: records[i].Curso,
			})
		}
	}
	return items
}
