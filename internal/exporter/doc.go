// Package exporter provides CSV and JSON export functionality for the
// normalized survey dataset.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// RecordsExporter: Flattens normalized survey records into a spreadsheet
// layout and serializes the full dataset as JSON for backup or transfer.
//
// Example usage:
//
//	// Export the dataset as CSV
//	recordsExporter := exporter.NewRecordsExporter(paths)
//	err := recordsExporter.ExportRecordsCSV("exports/records.csv", records)
//
//	// Stream the dataset as JSON to an HTTP response
//	err = recordsExporter.WriteDatasetJSON(w, records, domain.DefaultFilter(), time.Now())
package exporter
