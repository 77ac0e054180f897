// Command processor normalizes a survey export offline: it parses a
// .csv or .xlsx file, reports the import diagnostics and optionally
// writes the canonical dataset as JSON or CSV without running the
// server.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"surveypulse/internal/config"
	"surveypulse/internal/dataprocessing"
	"surveypulse/internal/exporter"
	"surveypulse/internal/infrastructure"
	"surveypulse/internal/validation"
	"surveypulse/pkg/contracts/domain"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("processor", flag.ContinueOnError)
	inFile := flags.String("in", "", "input survey export (.csv or .xlsx)")
	jsonOut := flags.String("json", "", "write the normalized dataset as JSON to this file")
	csvOut := flags.String("csv", "", "write the normalized records as CSV to this file")
	logLevel := flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *inFile == "" {
		flags.Usage()
		return fmt.Errorf("an input file is required (-in)")
	}

	logger, err := infrastructure.NewLogger(config.LoggingConfig{
		Level:  *logLevel,
		Format: "text",
		Output: "console",
	})
	if err != nil {
		return err
	}

	fileValidator := validation.NewFileValidator(logger)
	if err := fileValidator.ValidateSurveyFile(*inFile); err != nil {
		return err
	}

	file, err := os.Open(*inFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *inFile, err)
	}
	defer file.Close()

	parser := dataprocessing.NewParser(logger)
	result, err := parser.Parse(filepath.Base(*inFile), file)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", *inFile, err)
	}

	normalizer := dataprocessing.NewNormalizer(logger, time.Now)
	records := normalizer.Transform(result.Headers, result.Valid)

	fmt.Fprintf(stdout, "Arquivo: %s\n", *inFile)
	fmt.Fprintf(stdout, "Linhas de dados: %d\n", result.TotalRows)
	fmt.Fprintf(stdout, "Registros válidos: %d\n", len(records))
	fmt.Fprintf(stdout, "Linhas inválidas: %d\n", len(result.Invalid))
	for _, msg := range result.Errors {
		fmt.Fprintf(stdout, "  %s\n", msg)
	}
	fmt.Fprintf(stdout, "Colunas esperadas: %d/%d\n", result.Columns.Found, result.Columns.Total)
	for _, missing := range result.Columns.Missing {
		fmt.Fprintf(stdout, "  ausente: %s\n", missing)
	}

	if len(records) > 0 {
		kpis := dataprocessing.KPIs(records)
		fmt.Fprintf(stdout, "Média geral: %.2f\n", kpis.MediaGeral)
		fmt.Fprintf(stdout, "NPS total: %d\n", kpis.NPSTotal)
		fmt.Fprintf(stdout, "Melhor bloco: %s\n", kpis.BlocoMelhor)
	}

	recordsExporter := exporter.NewRecordsExporter(nil)

	if *jsonOut != "" {
		if err := fileValidator.ValidateOutputDirectory(filepath.Dir(*jsonOut)); err != nil {
			return err
		}
		out, err := os.Create(*jsonOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *jsonOut, err)
		}
		defer out.Close()
		if err := recordsExporter.WriteDatasetJSON(out, records, domain.DefaultFilter(), time.Now()); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Dataset JSON: %s\n", *jsonOut)
	}

	if *csvOut != "" {
		if err := fileValidator.ValidateOutputDirectory(filepath.Dir(*csvOut)); err != nil {
			return err
		}
		if err := recordsExporter.ExportRecordsCSV(*csvOut, records); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Registros CSV: %s\n", *csvOut)
	}

	return nil
}
