package models

import "time"

// TranscriptRow is one subject line on the histórico.
type TranscriptRow struct {
	DisciplinaID   string       `json:"disciplina_id"`
	DisciplinaNome string       `json:"disciplina_nome"`
	AnoLetivoID    string       `json:"ano_letivo_id"`
	Periodo        string       `json:"periodo"`
	CargaHoraria   int          `json:"carga_horaria"`
	MediaFinal     *float64     `json:"media_final,omitempty"`
	Frequencia     *float64     `json:"frequencia,omitempty"`
	Situacao       SituacaoNota `json:"situacao"`
}

// TranscriptSummary holds the purely derived resumo totals. Never stored.
type TranscriptSummary struct {
	CargaHorariaCursada int      `json:"carga_horaria_cursada"`
	CargaHorariaObtida  int      `json:"carga_horaria_obtida"`
	TotalAprovadas      int      `json:"total_aprovadas"`
	TotalReprovadas     int      `json:"total_reprovadas"`
	MediaGeral          *float64 `json:"media_geral,omitempty"`
}

// Transcript is the cross-year academic summary for one student. Regenerable
// at any time; only its issuance event is persisted.
type Transcript struct {
	AlunoID         string            `json:"aluno_id"`
	AlunoNome       string            `json:"aluno_nome"`
	InstituicaoID   string            `json:"instituicao_id"`
	InstituicaoNome string            `json:"instituicao_nome"`
	Linhas          []TranscriptRow   `json:"linhas"`
	Resumo          TranscriptSummary `json:"resumo"`
	GeradoEm        time.Time         `json:"gerado_em"`
}

// SubjectReadiness exposes why a report-card subject's numbers may be
// incomplete instead of silently omitting the subject.
type SubjectReadiness struct {
	PlanoAprovado bool `json:"plano_aprovado"`
	TemAulas      bool `json:"tem_aulas"`
	TemPresencas  bool `json:"tem_presencas"`
	TemAvaliacoes bool `json:"tem_avaliacoes"`
}

// Complete reports whether every readiness condition holds.
func (r SubjectReadiness) Complete() bool {
	return r.PlanoAprovado && r.TemAulas && r.TemPresencas && r.TemAvaliacoes
}

// ReportCardSubject is one subject entry on the boletim.
type ReportCardSubject struct {
	DisciplinaID   string           `json:"disciplina_id"`
	DisciplinaNome string           `json:"disciplina_nome"`
	PlanoEnsinoID  string           `json:"plano_ensino_id"`
	Periodo        string           `json:"periodo"`
	MediaFinal     *float64         `json:"media_final,omitempty"`
	Frequencia     *float64         `json:"frequencia,omitempty"`
	Situacao       SituacaoNota     `json:"situacao"`
	Prontidao      SubjectReadiness `json:"prontidao"`
}

// ReportCard is the per-year boletim for one student.
type ReportCard struct {
	AlunoID     string              `json:"aluno_id"`
	AlunoNome   string              `json:"aluno_nome"`
	AnoLetivoID string              `json:"ano_letivo_id"`
	Disciplinas []ReportCardSubject `json:"disciplinas"`
	GeradoEm    time.Time           `json:"gerado_em"`
}

// GradesheetRow is one student line on the pauta. A student individually
// blocked is still listed but excluded from the statistics.
type GradesheetRow struct {
	AlunoID    string                `json:"aluno_id"`
	AlunoNome  string                `json:"aluno_nome"`
	Matricula  ClassEnrollmentStatus `json:"matricula_status"`
	MediaFinal *float64              `json:"media_final,omitempty"`
	Frequencia *float64              `json:"frequencia,omitempty"`
	Situacao   SituacaoNota          `json:"situacao"`
	Bloqueado  bool                  `json:"bloqueado"`
}

// GradesheetStats are the pass/fail statistics over non-blocked rows.
type GradesheetStats struct {
	TotalAlunos     int `json:"total_alunos"`
	TotalAprovados  int `json:"total_aprovados"`
	TotalReprovados int `json:"total_reprovados"`
	TotalExcluidos  int `json:"total_excluidos"`
}

// Gradesheet is the official class-wide pauta for one teaching plan.
type Gradesheet struct {
	PlanoEnsinoID  string             `json:"plano_ensino_id"`
	DisciplinaNome string             `json:"disciplina_nome"`
	TurmaID        string             `json:"turma_id"`
	AnoLetivoID    string             `json:"ano_letivo_id"`
	Periodo        string             `json:"periodo"`
	Status         TeachingPlanStatus `json:"status"`
	Linhas         []GradesheetRow    `json:"linhas"`
	Estatisticas   GradesheetStats    `json:"estatisticas"`
	GeradoEm       time.Time          `json:"gerado_em"`
}
