package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"surveypulse/internal/dataprocessing"
	apierrors "surveypulse/internal/errors"
	"surveypulse/internal/exporter"
	custommw "surveypulse/internal/middleware"
	"surveypulse/internal/services"
	"surveypulse/pkg/contracts/domain"
)

// allowed upload extensions
var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// importURLRequest is the JSON body of a remote-source import.
type importURLRequest struct {
	URL string `json:"url"`
}

// SurveyHandler handles dataset and dashboard HTTP requests
type SurveyHandler struct {
	survey         *services.SurveyService
	dashboard      *services.DashboardService
	exporter       *exporter.RecordsExporter
	validation     *custommw.ValidationMiddleware
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
	now            func() time.Time
}

// NewSurveyHandler creates a survey handler with RFC 7807 error handling
func NewSurveyHandler(
	survey *services.SurveyService,
	dashboard *services.DashboardService,
	recordsExporter *exporter.RecordsExporter,
	validation *custommw.ValidationMiddleware,
	maxUploadBytes int64,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *SurveyHandler {
	return &SurveyHandler{
		survey:         survey,
		dashboard:      dashboard,
		exporter:       recordsExporter,
		validation:     validation,
		logger:         logger.With(slog.String("component", "survey_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// Routes returns the survey API routes
func (h *SurveyHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(custommw.ContentTypeValidator("multipart/form-data", "application/json")).
		Post("/import", h.Import)
	r.Get("/records", h.GetRecords)
	r.Delete("/records", h.ClearRecords)
	r.Post("/dashboard", h.Dashboard)
	r.Get("/export/records.csv", h.ExportCSV)
	r.Get("/export/dataset.json", h.ExportJSON)

	return r
}

// Import handles POST /api/import. A multipart body carries a
// spreadsheet upload; a JSON body names a remote CSV source.
func (h *SurveyHandler) Import(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	contentType := r.Header.Get("Content-Type")

	h.logger.InfoContext(r.Context(), "import requested",
		slog.String("request_id", reqID),
		slog.String("content_type", contentType),
	)

	var (
		result *services.ImportResult
		err    error
	)

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		result, err = h.importUpload(w, r)
	case strings.HasPrefix(contentType, "application/json"):
		result, err = h.importRemote(r)
	default:
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusUnsupportedMediaType,
			"UNSUPPORTED_MEDIA_TYPE",
			"Import expects a multipart upload or a JSON body with a source URL",
		))
		return
	}

	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if result == nil {
		// importUpload already rendered a problem
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// importUpload reads the multipart file field and imports it. A nil
// result with nil error means a problem response was already written.
func (h *SurveyHandler) importUpload(w http.ResponseWriter, r *http.Request) (*services.ImportResult, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A spreadsheet file upload is required"))
		return nil, nil
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"UNSUPPORTED_FILE_TYPE",
			"Only .csv, .xlsx and .xls files are supported",
			map[string]interface{}{"filename": header.Filename},
		))
		return nil, nil
	}

	return h.survey.ImportFile(r.Context(), header.Filename, file)
}

func (h *SurveyHandler) importRemote(r *http.Request) (*services.ImportResult, error) {
	var req importURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}
	return h.survey.ImportFromURL(r.Context(), req.URL)
}

// GetRecords handles GET /api/records
func (h *SurveyHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	records := h.survey.Records()
	if records == nil {
		records = []domain.SurveyRecord{}
	}

	render.JSON(w, r, map[string]interface{}{
		"total":   len(records),
		"records": records,
	})
}

// ClearRecords handles DELETE /api/records
func (h *SurveyHandler) ClearRecords(w http.ResponseWriter, r *http.Request) {
	if err := h.survey.Clear(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset cleared",
		slog.String("request_id", middleware.GetReqID(r.Context())))

	render.JSON(w, r, map[string]interface{}{
		"status": "cleared",
	})
}

// Dashboard handles POST /api/dashboard. The body is the filter state;
// an empty body (including chunked requests with no declared length)
// keeps the all-permissive defaults.
func (h *SurveyHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	filter := domain.DefaultFilter()
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil && !errors.Is(err, io.EOF) {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validation.ValidateStruct(filter); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	data := h.dashboard.Build(r.Context(), h.survey.Records(), filter)
	render.JSON(w, r, data)
}

// ExportCSV handles GET /api/export/records.csv
func (h *SurveyHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	records := h.survey.Records()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="records.csv"`)

	if err := h.exporter.WriteRecordsCSV(w, records); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
	}
}

// ExportJSON handles GET /api/export/dataset.json. Filter constraints
// arrive as query parameters so the link stays bookmarkable.
func (h *SurveyHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records := dataprocessing.FilterRecords(h.survey.Records(), filter)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dataset.json"`)

	if err := h.exporter.WriteDatasetJSON(w, records, filter, h.now()); err != nil {
		h.logger.ErrorContext(r.Context(), "json export failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
	}
}

// filterFromQuery builds a filter from repeatable query parameters
func filterFromQuery(r *http.Request) (domain.Filter, error) {
	filter := domain.DefaultFilter()
	q := r.URL.Query()

	filter.Turmas = q["turma"]
	filter.Cursos = q["curso"]
	filter.Professores = q["professor"]
	filter.NivelAproveitamento = q["nivelAproveitamento"]
	filter.BuscarTexto = q.Get("buscarTexto")

	for _, b := range q["bloco"] {
		filter.Blocos = append(filter.Blocos, domain.Block(b))
	}

	if raw := q.Get("scoreMin"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, apierrors.ErrValidation("scoreMin", "scoreMin must be a number")
		}
		filter.ScoreMin = v
	}
	if raw := q.Get("scoreMax"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, apierrors.ErrValidation("scoreMax", "scoreMax must be a number")
		}
		filter.ScoreMax = v
	}

	if raw := q.Get("dataInicio"); raw != "" {
		if d := dataprocessing.ParseDate(raw); d != nil {
			filter.DataInicio = d
		}
	}
	if raw := q.Get("dataFim"); raw != "" {
		if d := dataprocessing.ParseDate(raw); d != nil {
			filter.DataFim = d
		}
	}

	return filter, nil
}
