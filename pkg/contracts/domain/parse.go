package domain

// InvalidRow is a source row that failed minimal shape validation. The
// row index is 1-based, counting data rows below the header.
type InvalidRow struct {
	Row      RawRow `json:"row"`
	RowIndex int    `json:"_rowIndex"`
}

// ColumnStatus is the found/missing partition of the expected-columns
// checklist shown after an import.
type ColumnStatus struct {
	Found   int      `json:"found"`
	Total   int      `json:"total"`
	Missing []string `json:"missing"`
}

// ParseResult is the outcome of ingesting one survey export file. Row
// level problems land in Invalid and Errors; only file-level failures
// abort the import entirely.
type ParseResult struct {
	Valid     []RawRow     `json:"valid"`
	Invalid   []InvalidRow `json:"invalid"`
	Errors    []string     `json:"errors"`
	Preview   []RawRow     `json:"preview"`
	Headers   []string     `json:"headers"`
	TotalRows int          `json:"totalRows"`
	Columns   ColumnStatus `json:"columns"`
}
