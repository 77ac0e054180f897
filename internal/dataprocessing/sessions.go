package dataprocessing

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"surveypulse/pkg/contracts/domain"
)

// Course cohorts are surveyed across a noisy window: late submissions,
// makeup sessions, manual data entry. Rows rarely carry an explicit
// session identifier, so session boundaries are inferred by clustering
// the date signals each record carries.

// clusterGapDays is the maximum distance, in days, between consecutive
// dates of the same training session.
const clusterGapDays = 3

const dayDuration = 24 * time.Hour

var percentPattern = regexp.MustCompile(`(\d{1,3})\s*%`)

type dateCluster struct {
	start time.Time
	end   time.Time
	count int
}

// candidateDates collects the midnight-normalized date signals of one
// record: course start/end when present, otherwise the submission
// timestamp. Duplicates within a record are dropped.
func candidateDates(r *domain.SurveyRecord) []time.Time {
	var dates []time.Time
	push := func(t time.Time) {
		d := Midnight(t)
		for _, existing := range dates {
			if existing.Equal(d) {
				return
			}
		}
		dates = append(dates, d)
	}
	if r.DataInicio != nil {
		push(*r.DataInicio)
	}
	if r.DataTermino != nil {
		push(*r.DataTermino)
	}
	if len(dates) == 0 {
		push(r.SubmittedAt)
	}
	return dates
}

// clusterDates walks the sorted unique dates and greedily groups them:
// a date joins the current cluster while it is within the gap threshold
// of the cluster's end, otherwise it opens a new one. Clusters are
// contiguous in time by construction.
func clusterDates(dates []time.Time) []dateCluster {
	if len(dates) == 0 {
		return nil
	}
	sorted := append([]time.Time{}, dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	clusters := []dateCluster{{start: sorted[0], end: sorted[0], count: 1}}
	for _, d := range sorted[1:] {
		current := &clusters[len(clusters)-1]
		gap := int(math.Round(d.Sub(current.end).Hours() / 24))
		if gap <= clusterGapDays {
			current.end = d
			current.count++
		} else {
			clusters = append(clusters, dateCluster{start: d, end: d, count: 1})
		}
	}
	return clusters
}

func uniqueSortedDates(perRecord [][]time.Time) []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, rec := range perRecord {
		for _, d := range rec {
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				dates = append(dates, d)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// DeriveTrainingRange infers the session span for one cohort's records.
// When several clusters compete, the one with the most member dates
// wins; ties prefer the cluster ending most recently.
func DeriveTrainingRange(records []domain.SurveyRecord) (start, end *time.Time) {
	perRecord := make([][]time.Time, len(records))
	for i := range records {
		perRecord[i] = candidateDates(&records[i])
	}
	clusters := clusterDates(uniqueSortedDates(perRecord))
	if len(clusters) == 0 {
		return nil, nil
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].count != clusters[j].count {
			return clusters[i].count > clusters[j].count
		}
		return clusters[i].end.After(clusters[j].end)
	})

	best := clusters[0]
	return &best.start, &best.end
}

// SessionCards clusters the whole dataset's dates and derives one
// aggregate card per inferred training session, ordered by session
// start. Each card narrows its cluster to the most representative
// sub-window before labeling.
func SessionCards(records []domain.SurveyRecord) []domain.SessionCard {
	if len(records) == 0 {
		return nil
	}

	perRecord := make([][]time.Time, len(records))
	for i := range records {
		perRecord[i] = candidateDates(&records[i])
	}
	clusters := clusterDates(uniqueSortedDates(perRecord))

	var cards []domain.SessionCard
	for _, cl := range clusters {
		var members []domain.SurveyRecord
		freq := make(map[time.Time]int)
		for i := range records {
			touches := false
			for _, d := range perRecord[i] {
				if !d.Before(cl.start) && !d.After(cl.end) {
					touches = true
					freq[d]++
				}
			}
			if touches {
				members = append(members, records[i])
			}
		}
		if len(members) == 0 {
			continue
		}

		repStart, repEnd := representativeWindow(cl, freq)
		cards = append(cards, buildSessionCard(members, repStart, repEnd))
	}

	sort.SliceStable(cards, func(i, j int) bool {
		var a, b time.Time
		if cards[i].Start != nil {
			a = *cards[i].Start
		}
		if cards[j].Start != nil {
			b = *cards[j].Start
		}
		return a.Before(b)
	})
	return cards
}

// representativeWindow slides fixed-length windows over the cluster's
// contiguous day sequence and picks the one covering the most per-day
// record signals. Window lengths are tried in preference order 2, 3, 1;
// once a length yields positive signal no longer length is tried. Equal
// sums prefer the later-starting window.
func representativeWindow(cl dateCluster, freq map[time.Time]int) (time.Time, time.Time) {
	var days []time.Time
	for d := cl.start; !d.After(cl.end); d = d.Add(dayDuration) {
		days = append(days, d)
	}

	bestStart := days[0]
	bestLen := 1
	bestSum := -1
	for _, length := range []int{2, 3, 1} {
		if len(days) < length {
			continue
		}
		for i := 0; i+length <= len(days); i++ {
			sum := 0
			for k := 0; k < length; k++ {
				sum += freq[days[i].Add(time.Duration(k)*dayDuration)]
			}
			if sum > bestSum || (sum == bestSum && days[i].After(bestStart)) {
				bestSum = sum
				bestStart = days[i]
				bestLen = length
			}
		}
		if bestSum > 0 {
			break
		}
	}
	return bestStart, bestStart.Add(time.Duration(bestLen-1) * dayDuration)
}

func buildSessionCard(members []domain.SurveyRecord, repStart, repEnd time.Time) domain.SessionCard {
	averages := BlockAverages(members)
	mediaGeral := math.Round(MeanOfBlocks(averages)*10) / 10

	npsCurso := CalculateNPS(CursoScores(members))
	npsMarca := CalculateNPS(MarcaScores(members))

	turmas := uniqueTrimmed(members, func(r *domain.SurveyRecord) string { return r.Turma })
	SortPtBR(turmas)
	cursos := uniqueTrimmed(members, func(r *domain.SurveyRecord) string { return r.Curso })

	subtitle := formatShortRange(repStart, repEnd) + " | " + joinList(turmas)
	if len(cursos) == 1 {
		subtitle += " – " + cursos[0]
	}

	start := repStart
	return domain.SessionCard{
		Title:         fmt.Sprintf("Turma %s %d", monthsPtBR[int(repStart.Month())-1], repStart.Year()),
		Subtitle:      subtitle,
		Participantes: len(members),
		MediaGeral:    mediaGeral,
		NPSTotal:      CombineNPS(npsCurso.NPS, npsMarca.NPS),
		FocoTotal:     focusTotal(members),
		Start:         &start,
	}
}

// focusTotal averages the "NN%" percentages respondents encode in the
// free-text aproveitamento answer, ceiling-rounded; nil when none did.
func focusTotal(members []domain.SurveyRecord) *int {
	var sum, n int
	for i := range members {
		txt := members[i].NPS.NivelAproveitamento
		if txt == nil {
			continue
		}
		m := percentPattern.FindStringSubmatch(*txt)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	total := int(math.Ceil(float64(sum) / float64(n)))
	return &total
}

func uniqueTrimmed(records []domain.SurveyRecord, pick func(*domain.SurveyRecord) string) []string {
	seen := make(map[string]struct{})
	var values []string
	for i := range records {
		v := strings.TrimSpace(pick(&records[i]))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	return values
}

// joinList renders "A", "A e B" or "A, B e C".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " e " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " e " + items[len(items)-1]
	}
}

// formatShortRange renders a compact pt-BR range for the comparison
// subtitle: same month "01-02 de Agosto", cross-month "31 de Julho – 02
// de Agosto".
func formatShortRange(start, end time.Time) string {
	sameMonth := start.Month() == end.Month() && start.Year() == end.Year()
	if sameMonth {
		if start.Day() == end.Day() {
			return fmt.Sprintf("%02d de %s", start.Day(), monthsPtBR[int(start.Month())-1])
		}
		return fmt.Sprintf("%02d-%02d de %s", start.Day(), end.Day(), monthsPtBR[int(start.Month())-1])
	}
	return fmt.Sprintf("%02d de %s – %02d de %s",
		start.Day(), monthsPtBR[int(start.Month())-1],
		end.Day(), monthsPtBR[int(end.Month())-1])
}

// FormatDateRange renders a full pt-BR period label: same month
// "01-02 de Agosto 2025", same year "31 de Julho e 01 de Agosto de
// 2025", cross-year full dates with years.
func FormatDateRange(start, end *time.Time) string {
	if start == nil && end == nil {
		return ""
	}
	if start == nil {
		start = end
	}
	if end == nil {
		end = start
	}

	s, e := *start, *end
	sMonth := monthsPtBR[int(s.Month())-1]
	eMonth := monthsPtBR[int(e.Month())-1]
	switch {
	case s.Year() == e.Year() && s.Month() == e.Month():
		if s.Day() == e.Day() {
			return fmt.Sprintf("%02d de %s %d", s.Day(), sMonth, s.Year())
		}
		return fmt.Sprintf("%02d-%02d de %s %d", s.Day(), e.Day(), sMonth, s.Year())
	case s.Year() == e.Year():
		return fmt.Sprintf("%02d de %s e %02d de %s de %d", s.Day(), sMonth, e.Day(), eMonth, s.Year())
	default:
		return fmt.Sprintf("%02d de %s %d - %02d de %s %d", s.Day(), sMonth, s.Year(), e.Day(), eMonth, e.Year())
	}
}
