package dataprocessing

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"surveypulse/pkg/contracts/domain"
)

// Survey tools export the same logical question under wildly different
// header spellings (accents, numbering prefixes, punctuation, dashes).
// NormalizeHeader reduces a header to a canonical comparison form:
// lowercase, diacritics stripped, separator runs collapsed to a single
// space, parentheses removed.
var separatorRun = regexp.MustCompile(`[\s,–—_-]+`)

func NormalizeHeader(s string) string {
	s = strings.ToLower(s)
	s = stripDiacritics(s)
	s = separatorRun.ReplaceAllString(s, " ")
	s = strings.NewReplacer("(", "", ")", "").Replace(s)
	return strings.TrimSpace(s)
}

// stripDiacritics removes combining marks after NFD decomposition, so
// "didática" and "didatica" compare equal.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HeaderIndex resolves candidate header aliases against the actual
// headers of one dataset. It is built once per import; row values are
// then read through the original header string it returns.
type HeaderIndex struct {
	headers    []string
	normalized []string
	exact      map[string]string
}

// NewHeaderIndex builds an index over the dataset headers, preserving
// their file order. When two headers normalize identically the first
// one wins.
func NewHeaderIndex(headers []string) *HeaderIndex {
	ix := &HeaderIndex{
		headers:    headers,
		normalized: make([]string, len(headers)),
		exact:      make(map[string]string, len(headers)),
	}
	for i, h := range headers {
		n := NormalizeHeader(h)
		ix.normalized[i] = n
		if _, ok := ix.exact[n]; !ok {
			ix.exact[n] = h
		}
	}
	return ix
}

// Resolve returns the original header matching the first candidate that
// resolves. Exact normalized equality wins over substring containment;
// the substring pass accepts either direction (candidate in header or
// header in candidate) and follows candidate order, then header order.
// The second return is false when no candidate matches at all, which is
// distinct from a matched column holding an empty value.
func (ix *HeaderIndex) Resolve(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if h, ok := ix.exact[NormalizeHeader(c)]; ok {
			return h, true
		}
	}
	for _, c := range candidates {
		cn := NormalizeHeader(c)
		if cn == "" {
			continue
		}
		for i, hn := range ix.normalized {
			if hn == "" {
				continue
			}
			if strings.Contains(hn, cn) || strings.Contains(cn, hn) {
				return ix.headers[i], true
			}
		}
	}
	return "", false
}

// ExpectedColumn is one entry of the import completeness checklist.
type ExpectedColumn struct {
	Label      string
	Candidates []string
}

// ExpectedColumns is the fixed checklist compared against a dataset's
// headers after parsing. Candidates are already in normalized spelling.
var ExpectedColumns = []ExpectedColumn{
	{Label: "Turma", Candidates: []string{"selecione a turma que voce esta estudando"}},
	{Label: "Curso", Candidates: []string{"qual curso voce deseja avaliar"}},
	{Label: "Professor", Candidates: []string{"selecione o(a) professor(a) responsavel pelo curso", "selecione o professor responsavel"}},

	{Label: "Professor - Relacionamento", Candidates: []string{"relacionamento com a turma"}},
	{Label: "Professor - Dominio do Assunto", Candidates: []string{"dominio do assunto", "conhecimento do professor"}},
	{Label: "Professor - Aplicabilidade", Candidates: []string{"aplicabilidade dos conteudos", "aplicabilidade"}},
	{Label: "Professor - Didatica e Comunicacao", Candidates: []string{"didatica e comunicacao", "didatica", "comunicacao"}},
	{Label: "Professor - Pontualidade", Candidates: []string{"pontualidade do professor", "pontualidade"}},

	{Label: "NPS do Curso", Candidates: []string{"nps do curso", "nps da imersao", "probabilidade de recomendar este curso", "probabilidade de voce recomendar este curso"}},
	{Label: "NPS da Marca", Candidates: []string{"nps da marca", "probabilidade de recomendar o instituto valente", "probabilidade de voce recomendar o instituto valente"}},
}

// ColumnChecklist partitions the expected columns into found and missing
// using bidirectional substring containment over normalized headers.
func ColumnChecklist(headers []string) domain.ColumnStatus {
	normHeaders := make([]string, 0, len(headers))
	for _, h := range headers {
		if n := NormalizeHeader(h); n != "" {
			normHeaders = append(normHeaders, n)
		}
	}

	status := domain.ColumnStatus{Total: len(ExpectedColumns)}
	for _, ec := range ExpectedColumns {
		if expectedColumnFound(normHeaders, ec.Candidates) {
			status.Found++
		} else {
			status.Missing = append(status.Missing, ec.Label)
		}
	}
	return status
}

func expectedColumnFound(normHeaders, candidates []string) bool {
	for _, c := range candidates {
		cn := NormalizeHeader(c)
		for _, hn := range normHeaders {
			if strings.Contains(hn, cn) || strings.Contains(cn, hn) {
				return true
			}
		}
	}
	return false
}
