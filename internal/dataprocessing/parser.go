package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"surveypulse/pkg/contracts/domain"
)

// previewRows is how many raw rows the parse result carries for the
// import preview.
const previewRows = 5

// requiredFieldCandidates drives minimal row-shape validation: a row
// must carry at least one non-empty value among the identity and cohort
// columns to enter the valid set.
var requiredFieldCandidates = [][]string{
	{headerSubmissionID},
	{headerRespondentID},
	{headerTurma, "selecione a turma"},
	{headerCurso, "qual curso"},
	{headerProfessor, "selecione o professor responsavel"},
}

// Parser ingests survey export files. CSV is the native form; XLSX
// input is converted to the equivalent comma-delimited text first and
// then processed identically.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger falls back to slog.Default.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger.With(slog.String("component", "parser"))}
}

// Parse ingests the file content, dispatching on the file extension.
// Only file-level failures return an error; row-level problems are
// reported inside the result.
func (p *Parser) Parse(filename string, r io.Reader) (*domain.ParseResult, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return p.ParseXLSX(r)
	default:
		return p.ParseCSV(r)
	}
}

// ParseCSV reads a delimited-text export whose first row is the header
// row. A UTF-8 BOM, if present, is stripped so the first header
// compares cleanly. Rows shorter than the header are padded, longer
// ones truncated.
func (p *Parser) ParseCSV(r io.Reader) (*domain.ParseResult, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv content: %w", err)
	}
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	headers := make([]string, len(all[0]))
	for i, h := range all[0] {
		headers[i] = strings.TrimSpace(h)
	}

	result := &domain.ParseResult{
		Headers: headers,
		Errors:  []string{},
		Columns: ColumnChecklist(headers),
	}
	ix := NewHeaderIndex(headers)

	for _, raw := range all[1:] {
		if rowIsEmpty(raw) {
			continue
		}
		result.TotalRows++
		row := makeRow(headers, raw)
		if len(result.Preview) < previewRows {
			result.Preview = append(result.Preview, row)
		}
		if !rowShapeValid(ix, row) {
			result.Invalid = append(result.Invalid, domain.InvalidRow{Row: row, RowIndex: result.TotalRows})
			result.Errors = append(result.Errors, fmt.Sprintf("Linha %d: Dados inválidos ou incompletos", result.TotalRows))
			continue
		}
		result.Valid = append(result.Valid, row)
	}

	p.logger.Info("parsed survey export",
		slog.Int("total_rows", result.TotalRows),
		slog.Int("valid", len(result.Valid)),
		slog.Int("invalid", len(result.Invalid)),
		slog.Int("headers", len(headers)))

	return result, nil
}

// ParseXLSX decodes the first worksheet of a spreadsheet and converts
// it to comma-delimited text with the same header-row semantics, then
// processes it exactly like a CSV upload.
func (p *Parser) ParseXLSX(r io.Reader) (*domain.ParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no worksheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("convert worksheet row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("convert worksheet: %w", err)
	}

	return p.ParseCSV(&buf)
}

func makeRow(headers []string, raw []string) domain.RawRow {
	row := make(domain.RawRow, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(raw) {
			row[h] = strings.TrimSpace(raw[i])
		} else {
			row[h] = ""
		}
	}
	return row
}

func rowIsEmpty(raw []string) bool {
	for _, cell := range raw {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rowShapeValid enforces the minimal record shape: at least one
// identity or cohort field must be present. Anything else degrades to
// nulls during normalization instead of invalidating the row.
func rowShapeValid(ix *HeaderIndex, row domain.RawRow) bool {
	for _, candidates := range requiredFieldCandidates {
		if h, ok := ix.Resolve(candidates...); ok && strings.TrimSpace(row[h]) != "" {
			return true
		}
	}
	return false
}
