package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"surveypulse/internal/config"
	"surveypulse/internal/dataprocessing"
	apierrors "surveypulse/internal/errors"
	"surveypulse/internal/snapshot"
	"surveypulse/pkg/contracts/domain"
)

// ImportResult is the outcome of a dataset import: the parse diagnostics
// plus the number of canonical records that replaced the dataset.
type ImportResult struct {
	domain.ParseResult
	ImportID string `json:"importId"`
	Imported int    `json:"imported"`
}

// SurveyService owns the canonical record set. Imports replace the whole
// set; there is no incremental merge.
type SurveyService struct {
	mu      sync.RWMutex
	records []domain.SurveyRecord

	parser     *dataprocessing.Parser
	normalizer *dataprocessing.Normalizer
	store      *snapshot.Store
	client     *http.Client
	importCfg  config.ImportConfig
	metrics    *Metrics
	logger     *slog.Logger
}

// NewSurveyService creates a survey service with its processing pipeline
func NewSurveyService(importCfg config.ImportConfig, store *snapshot.Store, metrics *Metrics, logger *slog.Logger) *SurveyService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	logger = logger.With(slog.String("service", "survey"))

	return &SurveyService{
		parser:     dataprocessing.NewParser(logger),
		normalizer: dataprocessing.NewNormalizer(logger, time.Now),
		store:      store,
		client:     &http.Client{Timeout: importCfg.FetchTimeout},
		importCfg:  importCfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// ImportFile parses and normalizes an uploaded spreadsheet. Row level
// problems are reported in the result; only file level failures return
// an error, and those leave the current dataset untouched.
func (s *SurveyService) ImportFile(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	start := time.Now()
	importID := uuid.New().String()

	result, err := s.parser.Parse(filename, r)
	if err != nil {
		s.metrics.ImportFailures.Inc()
		s.logger.ErrorContext(ctx, "import failed",
			slog.String("import_id", importID),
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		return nil, apierrors.NewParsingError(fmt.Sprintf("failed to parse %s", filename), err)
	}

	records := s.normalizer.Transform(result.Headers, result.Valid)

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Save(records, len(records)); err != nil {
			// The in-memory dataset is already replaced; losing the
			// snapshot only costs persistence across restarts.
			s.logger.WarnContext(ctx, "failed to persist snapshot",
				slog.String("error", err.Error()))
		}
	}

	duration := time.Since(start)
	s.metrics.ImportsTotal.Inc()
	s.metrics.InvalidRowsTotal.Add(float64(len(result.Invalid)))
	s.metrics.RecordsCurrent.Set(float64(len(records)))
	s.metrics.ImportDuration.Observe(duration.Seconds())

	s.logger.InfoContext(ctx, "dataset imported",
		slog.String("import_id", importID),
		slog.String("filename", filename),
		slog.Int("total_rows", result.TotalRows),
		slog.Int("imported", len(records)),
		slog.Int("invalid", len(result.Invalid)),
		slog.Duration("duration", duration))

	return &ImportResult{ParseResult: *result, ImportID: importID, Imported: len(records)}, nil
}

// ImportFromURL fetches a CSV export from a remote source and imports it
func (s *SurveyService) ImportFromURL(ctx context.Context, rawURL string) (*ImportResult, error) {
	if strings.TrimSpace(rawURL) == "" {
		rawURL = s.importCfg.RemoteURL
	}
	if strings.TrimSpace(rawURL) == "" {
		return nil, apierrors.NewAppError(apierrors.ErrTypeValidation, "no remote source configured", nil)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, apierrors.NewAppError(apierrors.ErrTypeValidation,
			fmt.Sprintf("invalid remote source URL %q", rawURL), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apierrors.NewNetworkError("failed to build request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.ImportFailures.Inc()
		return nil, apierrors.NewNetworkError("failed to fetch remote source", err).
			WithContext("url", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.metrics.ImportFailures.Inc()
		return nil, apierrors.NewNetworkError(
			fmt.Sprintf("remote source returned status %d", resp.StatusCode), nil).
			WithContext("url", rawURL)
	}

	filename := path.Base(parsed.Path)
	if filename == "." || filename == "/" || filename == "" {
		filename = "remote.csv"
	}

	body := io.LimitReader(resp.Body, s.importCfg.MaxUploadBytes)
	return s.ImportFile(ctx, filename, body)
}

// Records returns a copy of the canonical record set
func (s *SurveyService) Records() []domain.SurveyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.SurveyRecord, len(s.records))
	copy(records, s.records)
	return records
}

// Count returns the size of the canonical record set
func (s *SurveyService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// SnapshotPresent reports whether a persisted snapshot exists on disk
func (s *SurveyService) SnapshotPresent() bool {
	return s.store != nil && s.store.Exists()
}

// Clear resets the dataset and removes the snapshot
func (s *SurveyService) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()

	s.metrics.RecordsCurrent.Set(0)

	if s.store != nil {
		if err := s.store.Delete(); err != nil {
			return apierrors.NewStorageError("failed to delete snapshot", err)
		}
	}

	s.logger.InfoContext(ctx, "dataset cleared")
	return nil
}

// LoadSnapshot restores the dataset persisted by a previous run. A
// missing snapshot is not an error.
func (s *SurveyService) LoadSnapshot(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	var records []domain.SurveyRecord
	ok, err := s.store.Load(&records)
	if err != nil {
		return apierrors.NewStorageError("failed to load snapshot", err)
	}
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	s.metrics.RecordsCurrent.Set(float64(len(records)))

	s.logger.InfoContext(ctx, "dataset restored from snapshot",
		slog.Int("records", len(records)))
	return nil
}
