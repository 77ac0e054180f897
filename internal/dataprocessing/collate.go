package dataprocessing

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortPtBR sorts labels in place using Brazilian Portuguese collation,
// so "Água" orders before "Azul" instead of after it the way a byte
// sort would. A Collator is not safe for concurrent use, so each call
// builds its own.
func SortPtBR(values []string) {
	collate.New(language.BrazilianPortuguese).SortStrings(values)
}
