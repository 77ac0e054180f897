package services

import (
	"context"
	"log/slog"
	"strings"

	"surveypulse/internal/dataprocessing"
	"surveypulse/pkg/contracts/domain"
)

// FilterOptions lists the distinct values available for each filter
// category, derived from the unfiltered dataset.
type FilterOptions struct {
	Turmas      []string `json:"turmas"`
	Cursos      []string `json:"cursos"`
	Professores []string `json:"professores"`
}

// DashboardData is the full dashboard payload for one filter state.
type DashboardData struct {
	KPIs            domain.KPISet            `json:"kpis"`
	NPS             domain.NPSBreakdown      `json:"nps"`
	TimeSeries      []domain.TimeSeriesPoint `json:"timeSeries"`
	Sessions        []domain.SessionCard     `json:"sessions"`
	Professor       domain.ProfessorMetrics  `json:"professor"`
	CourseInfo      domain.CourseInfo        `json:"courseInfo"`
	Feedbacks       []domain.FeedbackItem    `json:"feedbacks"`
	AttentionPoints []domain.AttentionPoint  `json:"attentionPoints"`
	Options         FilterOptions            `json:"options"`
	Filter          domain.Filter            `json:"filter"`
	Filtered        int                      `json:"filtered"`
	Total           int                      `json:"total"`
}

// DashboardService derives dashboard aggregates from the record set.
// Every derivation is a pure function of (records, filter) and is
// recomputed per request.
type DashboardService struct {
	metrics *Metrics
	logger  *slog.Logger
}

// NewDashboardService creates a dashboard service
func NewDashboardService(metrics *Metrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &DashboardService{
		metrics: metrics,
		logger:  logger.With(slog.String("service", "dashboard")),
	}
}

// Build computes every dashboard aggregate for the given filter state
func (d *DashboardService) Build(ctx context.Context, records []domain.SurveyRecord, filter domain.Filter) *DashboardData {
	filtered := dataprocessing.FilterRecords(records, filter)

	data := &DashboardData{
		KPIs:            dataprocessing.KPIs(filtered),
		NPS:             dataprocessing.NPSBreakdown(filtered),
		TimeSeries:      dataprocessing.TimeSeries(filtered),
		Sessions:        dataprocessing.SessionCards(filtered),
		Professor:       dataprocessing.ProfessorMetrics(filtered, filter.Professores),
		CourseInfo:      dataprocessing.CourseInfo(filtered),
		Feedbacks:       dataprocessing.FeedbackHighlights(filtered),
		AttentionPoints: dataprocessing.AttentionPoints(filtered),
		Options:         d.filterOptions(records),
		Filter:          filter,
		Filtered:        len(filtered),
		Total:           len(records),
	}

	// Empty aggregates serialize as [] rather than null
	if data.TimeSeries == nil {
		data.TimeSeries = []domain.TimeSeriesPoint{}
	}
	if data.Sessions == nil {
		data.Sessions = []domain.SessionCard{}
	}
	if data.Feedbacks == nil {
		data.Feedbacks = []domain.FeedbackItem{}
	}
	if data.AttentionPoints == nil {
		data.AttentionPoints = []domain.AttentionPoint{}
	}

	d.metrics.DashboardRequests.Inc()

	d.logger.DebugContext(ctx, "dashboard derived",
		slog.Int("total", data.Total),
		slog.Int("filtered", data.Filtered))

	return data
}

// filterOptions collects the distinct filter values of the full dataset
func (d *DashboardService) filterOptions(records []domain.SurveyRecord) FilterOptions {
	return FilterOptions{
		Turmas:      distinct(records, func(r *domain.SurveyRecord) string { return r.Turma }),
		Cursos:      distinct(records, func(r *domain.SurveyRecord) string { return r.Curso }),
		Professores: distinct(records, func(r *domain.SurveyRecord) string { return r.Professor }),
	}
}

func distinct(records []domain.SurveyRecord, pick func(*domain.SurveyRecord) string) []string {
	seen := make(map[string]bool)
	values := []string{}
	for i := range records {
		v := strings.TrimSpace(pick(&records[i]))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	dataprocessing.SortPtBR(values)
	return values
}
