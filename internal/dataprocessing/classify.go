package dataprocessing

import (
	"sort"
	"strings"

	"surveypulse/pkg/contracts/domain"
)

// Keyword/negation scoring heuristic over free-text feedback. This is an
// enrichment stage feeding the "Pontos de Atenção" card; it runs after
// normalization and never influences the numeric metrics.

const (
	labelProblem  = "Problema identificado"
	labelFeedback = "Feedback"
)

// Vocabulary is matched in accent-stripped lowercase via prefix, so
// "dificuldade" and "difícil" both hit "dific".
var (
	negativeWords = []string{
		"falta", "precisa", "precisaria", "poderia", "melhorar", "melhoria", "ruim", "pior", "baixo", "pouco", "confuso",
		"dific", "dificil", "lento", "devagar", "cansativo", "cansar", "entediante", "entediar", "barulho", "ruido",
		"problema", "instavel", "queda", "oscilacao", "atraso", "demora", "lotado", "apertado", "quebrado", "falho", "bug", "trava",
	}
	strongNegativeWords = []string{"problema", "ruim", "pior", "quebrado", "falho", "bug", "trava", "cansativo"}
	strongNegPhrases    = []string{"nao funciona", "sem internet", "muito cansativo", "sem wifi", "sem wi-fi"}
	positivePhrases     = []string{"sem cansar", "sem entediar", "nao cansativo", "nao entediante", "nao e cansativo", "nao e entediante"}
	negators            = []string{"nao", "sem", "nunca"}
	positiveWords       = []string{
		"excelente", "otimo", "bom", "muito bom", "maravilhoso", "show", "top", "gostei", "amei", "parabens", "perfeito", "satisfeito", "incrivel",
		"bem", "preparado", "clareza", "dinamico", "didatica", "didatico", "engajado", "organizado", "conduzir", "fluido", "leve",
	}

	internetKeywords = []string{"wifi", "wi-fi", "wireless", "internet", "conex", "rede", "banda", "latencia"}
	infraKeywords    = append(internetKeywords,
		"infraestrutura", "projetor", "som", "microfone", "ar condicionado", "climatiz", "ilumina", "acust", "ventila", "cadeira", "mesa", "equipament", "sala")
	formatoKeywords     = []string{"formato", "carga hor", "horario", "cronograma", "tempo", "ritmo", "dois dias", "seguidos", "cansativo", "intenso", "duracao", "semanas", "modul", "intervalo", "pausa"}
	metodologiaKeywords = []string{"metodologia", "dinamic", "atividade", "pratic", "mao na massa", "interativo", "interacao", "exercicio", "estudo de caso", "participacao"}
	didaticaKeywords    = []string{"comunicacao", "didatica", "clareza", "explica", "objetivo", "velocidade", "rapido", "lento", "exemplos", "slides"}
)

func normalizeText(s string) string {
	return stripDiacritics(strings.ToLower(s))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
}

// scoreText rates how problematic a text sounds. Negative vocabulary
// adds weight (doubled for strong words), a negator within the previous
// eight tokens flips the sign, positive vocabulary subtracts.
func scoreText(raw string) int {
	t := normalizeText(raw)
	score := 0
	for _, ph := range strongNegPhrases {
		if strings.Contains(t, ph) {
			score += 2
		}
	}
	for _, ph := range positivePhrases {
		if strings.Contains(t, ph) {
			score -= 2
		}
	}

	tokens := tokenize(t)
	for i, w := range tokens {
		if hasPrefixAny(w, negativeWords) {
			weight := 1
			if hasPrefixAny(w, strongNegativeWords) {
				weight = 2
			}
			start := i - 8
			if start < 0 {
				start = 0
			}
			negated := false
			for _, prev := range tokens[start:i] {
				if containsString(negators, prev) {
					negated = true
					break
				}
			}
			if negated {
				score -= weight
			} else {
				score += weight
			}
		}
		if hasPrefixAny(w, positiveWords) {
			score--
		}
	}
	return score
}

func hasPrefixAny(w string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(w, p) {
			return true
		}
	}
	return false
}

// classifyText assigns an improvement category and its canned
// suggestion. Category precedence follows the keyword lists: internet
// topics are a subcategory of infrastructure.
func classifyText(raw string) (title, suggestion string) {
	t := normalizeText(raw)
	hasAny := func(keywords []string) bool {
		for _, k := range keywords {
			if strings.Contains(t, normalizeText(k)) {
				return true
			}
		}
		return false
	}

	switch {
	case hasAny(infraKeywords):
		if hasAny(internetKeywords) {
			return "Infraestrutura de Internet",
				"Verificar e aprimorar a internet (ex.: conexão e banda) para garantir melhor experiência em sala."
		}
		return "Infraestrutura",
			"Aprimorar a infraestrutura física e os equipamentos para melhorar a experiência dos participantes."
	case hasAny(formatoKeywords):
		return "Formato do Curso",
			"Reavaliar a distribuição de conteúdos e carga horária para reduzir cansaço e melhorar absorção."
	case hasAny(metodologiaKeywords):
		return "Metodologia",
			"Aumentar momentos práticos e dinâmicas que favoreçam a aplicação do conteúdo."
	case hasAny(didaticaKeywords):
		return "Comunicação e Didática",
			"Ajustar ritmo e clareza das explicações, reforçando exemplos e checkpoints de entendimento."
	default:
		return "Outros",
			"Revisar este ponto com a equipe para propor uma melhoria específica."
	}
}

type attentionCandidate struct {
	text       string
	score      int
	title      string
	suggestion string
}

// AttentionPoints classifies the feedback texts into improvement
// categories and surfaces the three most frequent ones, each represented
// by its highest-scoring candidate. Improvement suggestions are always
// considered; other feedback texts only when the scoring flags them as
// problematic. Duplicated texts are counted once.
func AttentionPoints(records []domain.SurveyRecord) []domain.AttentionPoint {
	var candidates []attentionCandidate
	seen := make(map[string]struct{})

	add := func(raw string, requirePositiveScore bool) {
		text := strings.TrimSpace(raw)
		if text == "" {
			return
		}
		key := normalizeText(text)
		if _, dup := seen[key]; dup {
			return
		}
		score := scoreText(text)
		if requirePositiveScore && score <= 0 {
			return
		}
		title, suggestion := classifyText(text)
		candidates = append(candidates, attentionCandidate{text: text, score: score, title: title, suggestion: suggestion})
		seen[key] = struct{}{}
	}

	for i := range records {
		r := &records[i]
		if r.NPS.Melhorias != nil {
			add(*r.NPS.Melhorias, false)
		}
		for _, t := range []*string{r.Metodologia.Feedback, r.AvaliacaoProfessor.Feedback, r.Autoavaliacao.Feedback} {
			if t != nil {
				add(*t, true)
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	grouped := make(map[string][]attentionCandidate)
	var order []string
	for _, c := range candidates {
		if _, ok := grouped[c.title]; !ok {
			order = append(order, c.title)
		}
		grouped[c.title] = append(grouped[c.title], c)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return len(grouped[order[i]]) > len(grouped[order[j]])
	})
	if len(order) > 3 {
		order = order[:3]
	}

	points := make([]domain.AttentionPoint, 0, len(order))
	for _, title := range order {
		group := grouped[title]
		best := group[0]
		for _, c := range group[1:] {
			if c.score > best.score {
				best = c
			}
		}
		label := labelFeedback
		suggestion := "Registrar o feedback e manter as práticas que estão funcionando."
		if best.score > 0 {
			label = labelProblem
			suggestion = best.suggestion
		}
		points = append(points, domain.AttentionPoint{
			Title:      title,
			Label:      label,
			Feedback:   strings.Trim(best.text, `"`),
			Suggestion: suggestion,
		})
	}
	return points
}
