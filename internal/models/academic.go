package models

import "time"

// Course is a degree program (SUPERIOR regime).
type Course struct {
	ID            string    `db:"id" json:"id"`
	InstituicaoID string    `db:"instituicao_id" json:"instituicao_id"`
	Nome          string    `db:"nome" json:"nome"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Class is a school grade/class (SECUNDARIO regime).
type Class struct {
	ID            string    `db:"id" json:"id"`
	InstituicaoID string    `db:"instituicao_id" json:"instituicao_id"`
	Nome          string    `db:"nome" json:"nome"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ClassSection is a turma: the concrete group of students taught together.
// It may be tied to a course (SUPERIOR) and/or a class (SECUNDARIO).
type ClassSection struct {
	ID            string  `db:"id" json:"id"`
	InstituicaoID string  `db:"instituicao_id" json:"instituicao_id"`
	Nome          string  `db:"nome" json:"nome"`
	CursoID       *string `db:"curso_id" json:"curso_id,omitempty"`
	ClasseID      *string `db:"classe_id" json:"classe_id,omitempty"`
	AnoLetivoID   string  `db:"ano_letivo_id" json:"ano_letivo_id"`
}

// Subject is a teachable discipline.
type Subject struct {
	ID            string    `db:"id" json:"id"`
	InstituicaoID string    `db:"instituicao_id" json:"instituicao_id"`
	Nome          string    `db:"nome" json:"nome"`
	CargaHoraria  int       `db:"carga_horaria" json:"carga_horaria"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CourseSubject is the curriculum link binding a subject to a course. Subject
// enrollment is illegal unless this link exists when the section has a course.
type CourseSubject struct {
	ID           string `db:"id" json:"id"`
	CursoID      string `db:"curso_id" json:"curso_id"`
	DisciplinaID string `db:"disciplina_id" json:"disciplina_id"`
}

// SubjectEquivalence records that one subject counts for another on the
// transcript.
type SubjectEquivalence struct {
	ID                    string `db:"id" json:"id"`
	InstituicaoID         string `db:"instituicao_id" json:"instituicao_id"`
	AlunoID               string `db:"aluno_id" json:"aluno_id"`
	DisciplinaID          string `db:"disciplina_id" json:"disciplina_id"`
	DisciplinaOrigemID    string `db:"disciplina_origem_id" json:"disciplina_origem_id"`
	InstituicaoOrigemNome string `db:"instituicao_origem_nome" json:"instituicao_origem_nome"`
}

// TeachingPlanStatus is the lifecycle of a plano de ensino.
type TeachingPlanStatus string

const (
	PlanoRascunho  TeachingPlanStatus = "RASCUNHO"
	PlanoAprovado  TeachingPlanStatus = "APROVADO"
	PlanoEncerrado TeachingPlanStatus = "ENCERRADO"
	PlanoRejeitado TeachingPlanStatus = "REJEITADO"
)

// TeachingPlan is the authoritative binding of subject, professor, section,
// academic year and period. Enrollment, grading and gradesheets may reference
// only APROVADO plans (ENCERRADO for historical documents); Bloqueado forbids
// new enrollments regardless of state.
type TeachingPlan struct {
	ID            string             `db:"id" json:"id"`
	InstituicaoID string             `db:"instituicao_id" json:"instituicao_id"`
	DisciplinaID  string             `db:"disciplina_id" json:"disciplina_id"`
	ProfessorID   string             `db:"professor_id" json:"professor_id"`
	TurmaID       string             `db:"turma_id" json:"turma_id"`
	CursoID       *string            `db:"curso_id" json:"curso_id,omitempty"`
	ClasseID      *string            `db:"classe_id" json:"classe_id,omitempty"`
	AnoLetivoID   string             `db:"ano_letivo_id" json:"ano_letivo_id"`
	Periodo       string             `db:"periodo" json:"periodo"`
	Status        TeachingPlanStatus `db:"status" json:"status"`
	Bloqueado     bool               `db:"bloqueado" json:"bloqueado"`
	CargaHoraria  int                `db:"carga_horaria" json:"carga_horaria"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
}

// Terminal reports whether the plan reached a state gradesheets accept.
func (s TeachingPlanStatus) Terminal() bool {
	return s == PlanoAprovado || s == PlanoEncerrado
}
