package domain

import (
	"strings"
	"time"
)

// RawRow is one spreadsheet row keyed by its original header strings,
// exactly as they appear in the export. Values are the raw cell text.
type RawRow map[string]string

// Block identifies one of the four evaluation categories of the survey.
type Block string

const (
	BlockAutoavaliacao  Block = "autoavaliacao"
	BlockProfessor      Block = "professor"
	BlockMetodologia    Block = "metodologia"
	BlockInfraestrutura Block = "infraestrutura"
)

// Blocks lists the evaluation categories in presentation order. Metric
// derivations that break ties by iteration order rely on this ordering.
var Blocks = []Block{BlockAutoavaliacao, BlockProfessor, BlockMetodologia, BlockInfraestrutura}

// Autoavaliacao holds the student self-assessment scores (0-10, nil when
// the respondent left the question blank or the value could not be coerced).
type Autoavaliacao struct {
	PresencaParticipacao *float64 `json:"presencaParticipacao"`
	PosturaAcademica     *float64 `json:"posturaAcademica"`
	UsoAparelhos         *float64 `json:"usoAparelhos"`
	NivelAprendizado     *float64 `json:"nivelAprendizado"`
	Feedback             *string  `json:"feedback"`
}

// AvaliacaoProfessor holds the professor evaluation scores.
type AvaliacaoProfessor struct {
	Relacionamento      *float64 `json:"relacionamento"`
	DominioAssunto      *float64 `json:"dominioAssunto"`
	Aplicabilidade      *float64 `json:"aplicabilidade"`
	DidaticaComunicacao *float64 `json:"didaticaComunicacao"`
	Pontualidade        *float64 `json:"pontualidade"`
	Feedback            *string  `json:"feedback"`
}

// Metodologia holds the teaching-methodology scores.
type Metodologia struct {
	ParticipacaoAtiva *float64 `json:"participacaoAtiva"`
	AplicacaoPratica  *float64 `json:"aplicacaoPratica"`
	Feedback          *string  `json:"feedback"`
}

// Infraestrutura holds the infrastructure scores. This block carries no
// free-text feedback question in the survey.
type Infraestrutura struct {
	EquipeApoio          *float64 `json:"equipeApoio"`
	EstruturaSala        *float64 `json:"estruturaSala"`
	ConfortoClimatizacao *float64 `json:"confortoClimatizacao"`
}

// NPSFields holds the recommendation ratings and related free text.
// NivelAproveitamento is free text that may encode a percentage ("95%").
type NPSFields struct {
	NPSCurso            *float64 `json:"npsCurso"`
	NPSMarca            *float64 `json:"npsMarca"`
	NivelAproveitamento *string  `json:"nivelAproveitamento"`
	Melhorias           *string  `json:"melhorias"`
}

// SurveyRecord is the canonical, normalized form of one respondent's
// submission. Identity fields are always populated (synthesized from the
// row index when the source omits them), and every non-nil score lies in
// [0,10]. Records are never mutated after normalization.
type SurveyRecord struct {
	ID           string     `json:"id"`
	RespondentID string     `json:"respondentId"`
	SubmittedAt  time.Time  `json:"submittedAt"`
	Turma        string     `json:"turma"`
	Curso        string     `json:"curso"`
	Professor    string     `json:"professor"`
	DataInicio   *time.Time `json:"dataInicio"`
	DataTermino  *time.Time `json:"dataTermino"`

	Autoavaliacao      Autoavaliacao      `json:"autoavaliacao"`
	AvaliacaoProfessor AvaliacaoProfessor `json:"avaliacaoProfessor"`
	Metodologia        Metodologia        `json:"metodologia"`
	Infraestrutura     Infraestrutura     `json:"infraestrutura"`
	NPS                NPSFields          `json:"nps"`

	Email *string `json:"email"`
}

// BlockScores returns the numeric scores of the given block, including
// nil entries for unanswered questions.
func (r *SurveyRecord) BlockScores(b Block) []*float64 {
	switch b {
	case BlockAutoavaliacao:
		return []*float64{
			r.Autoavaliacao.PresencaParticipacao,
			r.Autoavaliacao.PosturaAcademica,
			r.Autoavaliacao.UsoAparelhos,
			r.Autoavaliacao.NivelAprendizado,
		}
	case BlockProfessor:
		return []*float64{
			r.AvaliacaoProfessor.Relacionamento,
			r.AvaliacaoProfessor.DominioAssunto,
			r.AvaliacaoProfessor.Aplicabilidade,
			r.AvaliacaoProfessor.DidaticaComunicacao,
			r.AvaliacaoProfessor.Pontualidade,
		}
	case BlockMetodologia:
		return []*float64{
			r.Metodologia.ParticipacaoAtiva,
			r.Metodologia.AplicacaoPratica,
		}
	case BlockInfraestrutura:
		return []*float64{
			r.Infraestrutura.EquipeApoio,
			r.Infraestrutura.EstruturaSala,
			r.Infraestrutura.ConfortoClimatizacao,
		}
	}
	return nil
}

// AllScores returns the 16 numeric fields of the record: the four score
// blocks followed by the two NPS ratings.
func (r *SurveyRecord) AllScores() []*float64 {
	scores := make([]*float64, 0, 16)
	for _, b := range Blocks {
		scores = append(scores, r.BlockScores(b)...)
	}
	return append(scores, r.NPS.NPSCurso, r.NPS.NPSMarca)
}

// FeedbackTexts returns the non-empty free-text answers of the record:
// self-assessment, professor and methodology feedback plus the
// improvement suggestion. Missing fields are omitted, not joined as null.
func (r *SurveyRecord) FeedbackTexts() []string {
	var texts []string
	for _, t := range []*string{
		r.Autoavaliacao.Feedback,
		r.AvaliacaoProfessor.Feedback,
		r.Metodologia.Feedback,
		r.NPS.Melhorias,
	} {
		if t != nil && strings.TrimSpace(*t) != "" {
			texts = append(texts, *t)
		}
	}
	return texts
}
