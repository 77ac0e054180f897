package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"surveypulse/internal/config"
	"surveypulse/pkg/contracts/domain"
)

// RecordsHeader lists the spreadsheet columns of a dataset export, in
// the order RecordRow emits them.
var RecordsHeader = []string{
	"ID da Submissão",
	"ID do Respondente",
	"Enviado em",
	"Turma",
	"Curso",
	"Professor",
	"Data de Início",
	"Data de Término",
	"Presença e Participação",
	"Postura Acadêmica",
	"Uso de Aparelhos",
	"Nível de Aprendizado",
	"Feedback Autoavaliação",
	"Relacionamento",
	"Domínio do Assunto",
	"Aplicabilidade",
	"Didática e Comunicação",
	"Pontualidade",
	"Feedback Professor",
	"Participação Ativa",
	"Aplicação Prática",
	"Feedback Metodologia",
	"Equipe de Apoio",
	"Estrutura da Sala",
	"Conforto e Climatização",
	"NPS Curso",
	"NPS Marca",
	"Nível de Aproveitamento",
	"Melhorias",
	"E-mail",
}

// Dataset is the JSON envelope of a dataset export: the exported
// records, the filter they were narrowed with and the export timestamp.
type Dataset struct {
	ExportedAt time.Time             `json:"exportedAt"`
	Filter     domain.Filter         `json:"filter"`
	Total      int                   `json:"total"`
	Records    []domain.SurveyRecord `json:"records"`
}

// RecordsExporter flattens normalized survey records for export
type RecordsExporter struct {
	csvWriter *CSVWriter
}

// NewRecordsExporter creates a new records exporter
func NewRecordsExporter(paths *config.Paths) *RecordsExporter {
	return &RecordsExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// RecordRow converts one record to its CSV row, matching RecordsHeader
func RecordRow(r domain.SurveyRecord) []string {
	return []string{
		r.ID,
		r.RespondentID,
		formatTimestamp(r.SubmittedAt),
		r.Turma,
		r.Curso,
		r.Professor,
		formatDate(r.DataInicio),
		formatDate(r.DataTermino),
		formatScore(r.Autoavaliacao.PresencaParticipacao),
		formatScore(r.Autoavaliacao.PosturaAcademica),
		formatScore(r.Autoavaliacao.UsoAparelhos),
		formatScore(r.Autoavaliacao.NivelAprendizado),
		formatText(r.Autoavaliacao.Feedback),
		formatScore(r.AvaliacaoProfessor.Relacionamento),
		formatScore(r.AvaliacaoProfessor.DominioAssunto),
		formatScore(r.AvaliacaoProfessor.Aplicabilidade),
		formatScore(r.AvaliacaoProfessor.DidaticaComunicacao),
		formatScore(r.AvaliacaoProfessor.Pontualidade),
		formatText(r.AvaliacaoProfessor.Feedback),
		formatScore(r.Metodologia.ParticipacaoAtiva),
		formatScore(r.Metodologia.AplicacaoPratica),
		formatText(r.Metodologia.Feedback),
		formatScore(r.Infraestrutura.EquipeApoio),
		formatScore(r.Infraestrutura.EstruturaSala),
		formatScore(r.Infraestrutura.ConfortoClimatizacao),
		formatScore(r.NPS.NPSCurso),
		formatScore(r.NPS.NPSMarca),
		formatText(r.NPS.NivelAproveitamento),
		formatText(r.NPS.Melhorias),
		formatText(r.Email),
	}
}

// WriteRecordsCSV streams the dataset as CSV, prefixed with a UTF-8 BOM
// so Excel opens the accented Portuguese headers correctly.
func (e *RecordsExporter) WriteRecordsCSV(w io.Writer, records []domain.SurveyRecord) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(RecordsHeader); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(RecordRow(record)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportRecordsCSV writes the dataset to a CSV file under the data directory
func (e *RecordsExporter) ExportRecordsCSV(filePath string, records []domain.SurveyRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, RecordRow(record))
	}
	return e.csvWriter.WriteSimpleCSV(filePath, RecordsHeader, rows)
}

// WriteDatasetJSON streams the dataset as an indented JSON document
func (e *RecordsExporter) WriteDatasetJSON(w io.Writer, records []domain.SurveyRecord, filter domain.Filter, now time.Time) error {
	if records == nil {
		records = []domain.SurveyRecord{}
	}
	dataset := Dataset{
		ExportedAt: now,
		Filter:     filter,
		Total:      len(records),
		Records:    records,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(dataset); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	return nil
}
