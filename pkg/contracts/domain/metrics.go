package domain

import "time"

// NPSResult is the derived Net Promoter Score breakdown for a set of
// 0-10 ratings: promoters rated >=9, detractors <=6, neutrals 7-8.
// NPS is (promoters-detractors)/total*100, ceiling-rounded.
type NPSResult struct {
	NPS        int `json:"nps"`
	Promoters  int `json:"promoters"`
	Detractors int `json:"detractors"`
	Neutros    int `json:"neutros"`
	Total      int `json:"total"`
}

// BlockAverages carries the mean score of each evaluation block,
// ceiling-rounded to one decimal place.
type BlockAverages struct {
	Autoavaliacao  float64 `json:"autoavaliacao"`
	Professor      float64 `json:"professor"`
	Metodologia    float64 `json:"metodologia"`
	Infraestrutura float64 `json:"infraestrutura"`
}

// Value returns the average for the given block.
func (a BlockAverages) Value(b Block) float64 {
	switch b {
	case BlockAutoavaliacao:
		return a.Autoavaliacao
	case BlockProfessor:
		return a.Professor
	case BlockMetodologia:
		return a.Metodologia
	case BlockInfraestrutura:
		return a.Infraestrutura
	}
	return 0
}

// KPISet is the headline aggregate shown on the dashboard. MediaGeral is
// the unweighted mean of the four block averages, not of raw scores.
type KPISet struct {
	TotalRespondentes int           `json:"totalRespondentes"`
	MediaGeral        float64       `json:"mediaGeral"`
	NPSTotal          int           `json:"npsTotal"`
	BlocoMelhor       string        `json:"blocoMelhor"`
	AvaliacaoMedia    BlockAverages `json:"avaliacaoMedia"`
}

// NPSBreakdown groups the per-audience NPS results for one dataset.
type NPSBreakdown struct {
	Curso    NPSResult `json:"npsCurso"`
	Marca    NPSResult `json:"npsMarca"`
	Combined NPSResult `json:"npsCombined"`
}

// TimeSeriesPoint is one ISO-week bucket of the evolution chart. Date is
// the Monday of the week as an ISO day string, Semana the display label.
type TimeSeriesPoint struct {
	Date           string  `json:"date"`
	Semana         string  `json:"semana"`
	Respondentes   int     `json:"respondentes"`
	Autoavaliacao  float64 `json:"autoavaliacao"`
	Professor      float64 `json:"professor"`
	Metodologia    float64 `json:"metodologia"`
	Infraestrutura float64 `json:"infraestrutura"`
	NPSCurso       int     `json:"npsCurso"`
	NPSMarca       int     `json:"npsMarca"`
}

// SessionCard summarizes one inferred training session (a cluster of
// course dates) for the cohort comparison view. FocoTotal is the average
// self-reported course focus percentage, nil when no respondent encoded one.
type SessionCard struct {
	Title         string     `json:"title"`
	Subtitle      string     `json:"subtitle"`
	Participantes int        `json:"participantes"`
	MediaGeral    float64    `json:"mediaGeral"`
	NPSTotal      int        `json:"npsTotal"`
	FocoTotal     *int       `json:"focoTotal"`
	Start         *time.Time `json:"start"`
}

// ProfessorMetrics carries the per-dimension professor averages
// (round-to-nearest, one decimal; nil when a dimension has no valid
// scores) and the resolved professor name when it is unambiguous.
type ProfessorMetrics struct {
	Relacionamento *float64 `json:"relacionamento"`
	DominioAssunto *float64 `json:"dominioAssunto"`
	Aplicabilidade *float64 `json:"aplicabilidade"`
	Didatica       *float64 `json:"didatica"`
	Pontualidade   *float64 `json:"pontualidade"`
	ProfessorNome  string   `json:"professorNome"`
}

// CourseInfo aggregates course-level facts for the consolidated summary
// card: workload parsed from the course name, per-cohort training
// periods, NPS zone and completion statistics.
type CourseInfo struct {
	CourseLabel          string  `json:"courseLabel"`
	CargaHorariaLabel    string  `json:"cargaHorariaLabel"`
	TotalHorasLabel      string  `json:"totalHorasLabel"`
	PeriodosLabel        string  `json:"periodosLabel"`
	Participantes        int     `json:"participantes"`
	TurmasCount          int     `json:"turmasCount"`
	NPSPercent           int     `json:"npsPercent"`
	NPSZone              string  `json:"npsZone"`
	MediaGeral           float64 `json:"mediaGeral"`
	RecomendacaoMarcaPct int     `json:"recomendacaoMarcaPct"`
	AproveitamentoMaxPct int     `json:"aproveitamentoMaxPct"`
}

// FeedbackItem is one free-text answer with its cohort metadata.
type FeedbackItem struct {
	Text  string `json:"text"`
	Turma string `json:"turma"`
	Curso string `json:"curso"`
}

// AttentionPoint is one classified improvement highlight. Label is
// "Problema identificado" when the keyword scoring flagged the text as
// negative, otherwise "Feedback".
type AttentionPoint struct {
	Title      string `json:"title"`
	Label      string `json:"label"`
	Feedback   string `json:"feedback"`
	Suggestion string `json:"suggestion"`
}
