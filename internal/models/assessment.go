package models

import "time"

// Assessment is a weighted graded instrument under a teaching plan.
type Assessment struct {
	ID            string    `db:"id" json:"id"`
	PlanoEnsinoID string    `db:"plano_ensino_id" json:"plano_ensino_id"`
	Nome          string    `db:"nome" json:"nome"`
	Peso          float64   `db:"peso" json:"peso"`
	Fechada       bool      `db:"fechada" json:"fechada"`
	Data          time.Time `db:"data" json:"data"`
}

// AssessmentGrade is the per-student score against an assessment. Nota is nil
// while the score has not been recorded; an unscored assessment never counts
// as zero.
type AssessmentGrade struct {
	ID          string   `db:"id" json:"id"`
	AvaliacaoID string   `db:"avaliacao_id" json:"avaliacao_id"`
	AlunoID     string   `db:"aluno_id" json:"aluno_id"`
	Nota        *float64 `db:"nota" json:"nota,omitempty"`
}

// ScoredAssessment joins an assessment with the student's grade for
// aggregation.
type ScoredAssessment struct {
	Assessment
	Nota *float64 `db:"nota" json:"nota,omitempty"`
}

// SituacaoNota is the grade outcome combined with attendance.
type SituacaoNota string

const (
	NotaAprovado       SituacaoNota = "APROVADO"
	NotaReprovado      SituacaoNota = "REPROVADO"
	NotaReprovadoFalta SituacaoNota = "REPROVADO_FALTA"
	NotaEmAndamento    SituacaoNota = "EM_ANDAMENTO"
	NotaEquivalente    SituacaoNota = "EQUIVALENTE"
)

// GradeSummary is the aggregation result for one (plan, student) pair.
// MediaFinal is nil while no assessment carries a recorded score.
type GradeSummary struct {
	PlanoEnsinoID string       `json:"plano_ensino_id"`
	AlunoID       string       `json:"aluno_id"`
	MediaFinal    *float64     `json:"media_final,omitempty"`
	Situacao      SituacaoNota `json:"situacao"`
	Frequencia    *float64     `json:"frequencia,omitempty"`
}
