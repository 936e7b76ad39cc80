package models

import "time"

// AnnualEnrollmentStatus is the lifecycle of a yearly administrative enrollment.
type AnnualEnrollmentStatus string

const (
	AnnualAtiva     AnnualEnrollmentStatus = "ATIVA"
	AnnualTrancada  AnnualEnrollmentStatus = "TRANCADA"
	AnnualConcluida AnnualEnrollmentStatus = "CONCLUIDA"
	AnnualCancelada AnnualEnrollmentStatus = "CANCELADA"
)

// AnnualEnrollment ties a student to an institution and academic year. For
// SUPERIOR institutions it references a course, for SECUNDARIO a class.
// Exactly one ATIVA record per (student, year) is required before any
// subject enrollment in that year.
type AnnualEnrollment struct {
	ID            string                 `db:"id" json:"id"`
	InstituicaoID string                 `db:"instituicao_id" json:"instituicao_id"`
	AlunoID       string                 `db:"aluno_id" json:"aluno_id"`
	AnoLetivoID   string                 `db:"ano_letivo_id" json:"ano_letivo_id"`
	CursoID       *string                `db:"curso_id" json:"curso_id,omitempty"`
	ClasseID      *string                `db:"classe_id" json:"classe_id,omitempty"`
	Status        AnnualEnrollmentStatus `db:"status" json:"status"`
	CreatedAt     time.Time              `db:"created_at" json:"created_at"`
}

// ClassEnrollmentStatus is the lifecycle of a matrícula in a class-section.
type ClassEnrollmentStatus string

const (
	MatriculaAtiva     ClassEnrollmentStatus = "Ativa"
	MatriculaTrancada  ClassEnrollmentStatus = "Trancada"
	MatriculaConcluida ClassEnrollmentStatus = "Concluida"
	MatriculaCancelada ClassEnrollmentStatus = "Cancelada"
)

// ClassEnrollment binds a student to a class-section (turma). The student's
// current section is the most recent Ativa record.
type ClassEnrollment struct {
	ID            string                `db:"id" json:"id"`
	InstituicaoID string                `db:"instituicao_id" json:"instituicao_id"`
	AlunoID       string                `db:"aluno_id" json:"aluno_id"`
	TurmaID       string                `db:"turma_id" json:"turma_id"`
	Status        ClassEnrollmentStatus `db:"status" json:"status"`
	DataMatricula time.Time             `db:"data_matricula" json:"data_matricula"`
}

// SubjectEnrollmentStatus tracks a per-subject enrollment outcome.
type SubjectEnrollmentStatus string

const (
	SubjectCursando  SubjectEnrollmentStatus = "Cursando"
	SubjectAprovado  SubjectEnrollmentStatus = "Aprovado"
	SubjectReprovado SubjectEnrollmentStatus = "Reprovado"
	SubjectCancelado SubjectEnrollmentStatus = "Cancelado"
)

// SubjectEnrollment is the per-subject enrollment record. Unique per
// (aluno, disciplina, ano letivo, periodo); duplicate creation fails, it is
// never silently upserted.
type SubjectEnrollment struct {
	ID                 string                  `db:"id" json:"id"`
	InstituicaoID      string                  `db:"instituicao_id" json:"instituicao_id"`
	AlunoID            string                  `db:"aluno_id" json:"aluno_id"`
	DisciplinaID       string                  `db:"disciplina_id" json:"disciplina_id"`
	TurmaID            *string                 `db:"turma_id" json:"turma_id,omitempty"`
	AnoLetivoID        string                  `db:"ano_letivo_id" json:"ano_letivo_id"`
	Periodo            *string                 `db:"periodo" json:"periodo,omitempty"`
	MatriculaAnualID   string                  `db:"matricula_anual_id" json:"matricula_anual_id"`
	Status             SubjectEnrollmentStatus `db:"status" json:"status"`
	CreatedAt          time.Time               `db:"created_at" json:"created_at"`
}

// RosterEntry is a matrícula joined with the student's name, used for
// gradesheet rosters.
type RosterEntry struct {
	ID        string                `db:"id" json:"id"`
	AlunoID   string                `db:"aluno_id" json:"aluno_id"`
	Status    ClassEnrollmentStatus `db:"status" json:"status"`
	AlunoNome string                `db:"aluno_nome" json:"aluno_nome"`
}

// BulkEnrollmentResult separates created rows from duplicates. Duplicates are
// reported, never treated as batch failures.
type BulkEnrollmentResult struct {
	Created    []SubjectEnrollment `json:"created"`
	Duplicates int                 `json:"duplicates"`
}
