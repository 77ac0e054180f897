package dataprocessing

import (
	"fmt"
	"log/slog"
	"time"

	"surveypulse/pkg/contracts/domain"
)

// Pinned canonical question texts. These headers are stable across the
// survey tool's exports, so they are read by exact string with no fuzzy
// fallback.
const (
	headerSubmissionID = "Submission ID"
	headerRespondentID = "Respondent ID"
	headerSubmittedAt  = "Submitted at"
	headerTurma        = "Selecione a turma que você está estudando."
	headerCurso        = "Qual curso você deseja avaliar?"
	headerProfessor    = "Selecione o(a) professor(a) responsável pelo curso:"
	headerDataInicio   = "Data de Início do Curso"
	headerDataTermino  = "Data de Término do Curso"
	headerEmail        = "E-mail"

	headerAutoPresenca    = "1. MINHA PRESENÇA E PARTICIPAÇÃO NO CURSO"
	headerAutoPostura     = "2. MINHA POSTURA ACADÊMICA PERANTE A TURMA"
	headerAutoAparelhos   = "3. USO DE APARELHOS ELETRÔNICOS"
	headerAutoAprendizado = "4. MEU NÍVEL DE APRENDIZADO E AUTODESENVOLVIMENTO"
	headerAutoFeedback    = "5. Escreva seu autofeedback sobre sua participação."

	headerProfFeedback = "7. Escreva seu feedback sobre o(a) professor(a)."

	headerMetodologiaParticipacao = "1. A metodologia de ensino utilizada no curso estimulou a minha participação ativa e colaborativa nas atividades."
	headerMetodologiaAplicacao    = "2. A metodologia de ensino utilizada no curso facilitou a aplicação prática dos conhecimentos adquiridos em contextos reais ou simulados."
	headerMetodologiaFeedback     = "3. Escreva seu feedback sobre a metodologia de ensino."

	headerInfraEquipe   = "1. EQUIPE DE APOIO"
	headerInfraSala     = "2. ESTRUTURA DA SALA DE AULA"
	headerInfraConforto = "3. CONFORTO E CLIMATIZAÇÃO DO AMBIENTE"

	headerAproveitamento = "1. Qual foi o seu nível de aproveitamento no curso?"
	headerMelhorias      = "4. Como podemos melhorar?"
)

// Professor-evaluation and NPS headers vary across exports far more than
// the pinned ones, so they go through the header resolver with curated
// alias lists covering the observed rewordings.
var (
	profRelacionamentoAliases = []string{
		"1. RELACIONAMENTO COM A TURMA",
		"RELACIONAMENTO COM A TURMA",
		"Relacionamento com a Turma",
		"Relacionamento com a turma",
		"Relacionamento (Professor)",
		"Professor - Relacionamento com a Turma",
	}
	profDominioAliases = []string{
		"2. DOMÍNIO DO ASSUNTO - CONHECIMENTO",
		"DOMÍNIO DO ASSUNTO - CONHECIMENTO",
		"Domínio do Assunto",
		"Domínio do Assunto - Conhecimento",
		"Conhecimento do Professor",
	}
	profAplicabilidadeAliases = []string{
		"3. APLICABILIDADE DOS CONTEÚDOS ABORDADOS EM SALA",
		"APLICABILIDADE DOS CONTEÚDOS ABORDADOS EM SALA",
		"Aplicabilidade dos Conteúdos",
		"Aplicabilidade",
	}
	profDidaticaAliases = []string{
		"4. DIDÁTICA E COMUNICAÇÃO",
		"DIDÁTICA E COMUNICAÇÃO",
		"Didática e Comunicação",
		"Didática",
		"Comunicação",
	}
	profPontualidadeAliases = []string{
		"5. PONTUALIDADE DO PROFESSOR",
		"PONTUALIDADE DO PROFESSOR",
		"Pontualidade do Professor",
		"Pontualidade",
	}

	npsCursoAliases = []string{
		"2. Em uma escala de 0 a 10, qual é a probabilidade de você recomendar este curso para um colega, amigo ou familiar? (NPS da Imersão)",
		"2. Em uma escala de 0 a 10 qual é a probabilidade de você recomendar este curso para um colega amigo ou familiar? (NPS da Imersão)",
		"2. Em uma escala de 0 a 10, qual é a probabilidade de você recomendar este curso para um colega, amigo ou familiar?",
		"2. Em uma escala de 0 a 10 qual é a probabilidade de você recomendar este curso para um colega amigo ou familiar?",
		"probabilidade de você recomendar este curso",
		"probabilidade de recomendar este curso",
		"recomendar este curso",
		"NPS do Curso",
		"NPS Curso",
		"NPS da Imersão",
		"Probabilidade de recomendar o curso",
	}
	npsMarcaAliases = []string{
		"3. Em uma escala de 0 a 10, qual é a probabilidade de você recomendar o Instituto Valente? (NPS da Marca)",
		"3. Em uma escala de 0 a 10 qual é a probabilidade de você recomendar o Instituto Valente? (NPS da Marca)",
		"3. Em uma escala de 0 a 10, qual é a probabilidade de você recomendar o Instituto Valente para um colega, amigo ou familiar?",
		"3. Em uma escala de 0 a 10 qual é a probabilidade de você recomendar o Instituto Valente para um colega amigo ou familiar?",
		"probabilidade de você recomendar o instituto valente",
		"probabilidade de recomendar o instituto valente",
		"recomendar o instituto valente",
		"NPS da Marca",
		"NPS Marca",
		"Probabilidade de recomendar a marca",
		"Probabilidade de recomendar o Instituto Valente",
	}
)

// Normalizer converts raw survey rows into canonical records. The clock
// supplies the submission fallback timestamp, injected so derivations
// stay deterministic under test.
type Normalizer struct {
	logger *slog.Logger
	clock  func() time.Time
}

// NewNormalizer creates a normalizer. A nil clock means time.Now.
func NewNormalizer(logger *slog.Logger, clock func() time.Time) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Normalizer{
		logger: logger.With(slog.String("component", "normalizer")),
		clock:  clock,
	}
}

// Transform converts the valid rows of one import into canonical
// records. The headers slice preserves the file's column order, which
// drives the resolver's substring-match priority. The input rows are
// never mutated.
func (n *Normalizer) Transform(headers []string, rows []domain.RawRow) []domain.SurveyRecord {
	ix := NewHeaderIndex(headers)
	records := make([]domain.SurveyRecord, len(rows))
	for i, row := range rows {
		records[i] = n.transformRow(ix, row, i)
	}
	n.logger.Info("transformed survey rows",
		slog.Int("rows", len(rows)),
		slog.Int("headers", len(headers)))
	return records
}

func (n *Normalizer) transformRow(ix *HeaderIndex, row domain.RawRow, index int) domain.SurveyRecord {
	id := row[headerSubmissionID]
	if id == "" {
		id = fmt.Sprintf("response_%d", index)
	}
	respondentID := row[headerRespondentID]
	if respondentID == "" {
		respondentID = fmt.Sprintf("respondent_%d", index)
	}

	return domain.SurveyRecord{
		ID:           id,
		RespondentID: respondentID,
		SubmittedAt:  ParseTimestamp(row[headerSubmittedAt], n.clock()),
		Turma:        row[headerTurma],
		Curso:        row[headerCurso],
		Professor:    row[headerProfessor],
		DataInicio:   ParseDate(row[headerDataInicio]),
		DataTermino:  ParseDate(row[headerDataTermino]),

		Autoavaliacao: domain.Autoavaliacao{
			PresencaParticipacao: ParseScore(row[headerAutoPresenca]),
			PosturaAcademica:     ParseScore(row[headerAutoPostura]),
			UsoAparelhos:         ParseScore(row[headerAutoAparelhos]),
			NivelAprendizado:     ParseScore(row[headerAutoAprendizado]),
			Feedback:             ParseText(row[headerAutoFeedback]),
		},
		AvaliacaoProfessor: domain.AvaliacaoProfessor{
			Relacionamento:      n.resolveScore(ix, row, profRelacionamentoAliases),
			DominioAssunto:      n.resolveScore(ix, row, profDominioAliases),
			Aplicabilidade:      n.resolveScore(ix, row, profAplicabilidadeAliases),
			DidaticaComunicacao: n.resolveScore(ix, row, profDidaticaAliases),
			Pontualidade:        n.resolveScore(ix, row, profPontualidadeAliases),
			Feedback:            n.resolveText(ix, row, []string{headerProfFeedback}),
		},
		Metodologia: domain.Metodologia{
			ParticipacaoAtiva: ParseScore(row[headerMetodologiaParticipacao]),
			AplicacaoPratica:  ParseScore(row[headerMetodologiaAplicacao]),
			Feedback:          ParseText(row[headerMetodologiaFeedback]),
		},
		Infraestrutura: domain.Infraestrutura{
			EquipeApoio:          ParseScore(row[headerInfraEquipe]),
			EstruturaSala:        ParseScore(row[headerInfraSala]),
			ConfortoClimatizacao: ParseScore(row[headerInfraConforto]),
		},
		NPS: domain.NPSFields{
			NPSCurso:            n.resolveScore(ix, row, npsCursoAliases),
			NPSMarca:            n.resolveScore(ix, row, npsMarcaAliases),
			NivelAproveitamento: n.resolveText(ix, row, []string{headerAproveitamento}),
			Melhorias:           n.resolveText(ix, row, []string{headerMelhorias}),
		},
		Email: ParseText(row[headerEmail]),
	}
}

func (n *Normalizer) resolveScore(ix *HeaderIndex, row domain.RawRow, candidates []string) *float64 {
	h, ok := ix.Resolve(candidates...)
	if !ok {
		return nil
	}
	return ParseScore(row[h])
}

func (n *Normalizer) resolveText(ix *HeaderIndex, row domain.RawRow, candidates []string) *string {
	h, ok := ix.Resolve(candidates...)
	if !ok {
		return nil
	}
	return ParseText(row[h])
}
