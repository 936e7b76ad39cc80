package models

import "time"

// Lesson is a lesson actually given under a teaching plan. Read-only for the
// document layer.
type Lesson struct {
	ID            string    `db:"id" json:"id"`
	PlanoEnsinoID string    `db:"plano_ensino_id" json:"plano_ensino_id"`
	Data          time.Time `db:"data" json:"data"`
	Conteudo      string    `db:"conteudo" json:"conteudo"`
}

// PresencaStatus marks a student's presence against a lesson.
type PresencaStatus string

const (
	PresencaPresente    PresencaStatus = "PRESENTE"
	PresencaFalta       PresencaStatus = "FALTA"
	PresencaJustificada PresencaStatus = "JUSTIFICADA"
)

// Counted reports whether the mark counts toward attendance percentage.
// Justified absences count as attended, per the institutional rule.
func (s PresencaStatus) Counted() bool {
	return s == PresencaPresente || s == PresencaJustificada
}

// AttendanceRecord is a per-student presence mark against a lesson.
type AttendanceRecord struct {
	ID      string         `db:"id" json:"id"`
	AulaID  string         `db:"aula_id" json:"aula_id"`
	AlunoID string         `db:"aluno_id" json:"aluno_id"`
	Status  PresencaStatus `db:"status" json:"status"`
}

// SituacaoFrequencia is the tri-state attendance outcome. INDETERMINADO means
// no lessons were given yet: neither pass nor fail, never coerced to 0%.
type SituacaoFrequencia string

const (
	FrequenciaRegular       SituacaoFrequencia = "REGULAR"
	FrequenciaIrregular     SituacaoFrequencia = "IRREGULAR"
	FrequenciaIndeterminada SituacaoFrequencia = "INDETERMINADO"
)

// AttendanceSummary is the aggregation result for one (plan, student) pair.
// Percentual is nil when no lessons exist.
type AttendanceSummary struct {
	PlanoEnsinoID  string             `json:"plano_ensino_id"`
	AlunoID        string             `json:"aluno_id"`
	TotalAulas     int                `json:"total_aulas"`
	TotalPresencas int                `json:"total_presencas"`
	Percentual     *float64           `json:"percentual,omitempty"`
	Situacao       SituacaoFrequencia `json:"situacao"`
}
