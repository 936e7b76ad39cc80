package models

import "time"

// CompletionStatus is the lifecycle of a course completion decision.
type CompletionStatus string

const (
	ConclusaoConcluido CompletionStatus = "CONCLUIDO"
	ConclusaoPendente  CompletionStatus = "PENDENTE"
)

// CourseCompletion is the persisted completion decision a certificate is
// derived from. It references a course (SUPERIOR) or a class (SECUNDARIO);
// the engine never recomputes grades here.
type CourseCompletion struct {
	ID              string           `db:"id" json:"id"`
	InstituicaoID   string           `db:"instituicao_id" json:"instituicao_id"`
	AlunoID         string           `db:"aluno_id" json:"aluno_id"`
	CursoID         *string          `db:"curso_id" json:"curso_id,omitempty"`
	ClasseID        *string          `db:"classe_id" json:"classe_id,omitempty"`
	Status          CompletionStatus `db:"status" json:"status"`
	MediaFinal      *float64         `db:"media_final" json:"media_final,omitempty"`
	DataConclusao   time.Time        `db:"data_conclusao" json:"data_conclusao"`
	CodigoValidacao *string          `db:"codigo_validacao" json:"codigo_validacao,omitempty"`
}

// Certificate is the derived completion certificate.
type Certificate struct {
	AlunoID           string    `json:"aluno_id"`
	AlunoNome         string    `json:"aluno_nome"`
	InstituicaoID     string    `json:"instituicao_id"`
	InstituicaoNome   string    `json:"instituicao_nome"`
	CursoNome         *string   `json:"curso_nome,omitempty"`
	ClasseNome        *string   `json:"classe_nome,omitempty"`
	MediaFinal        *float64  `json:"media_final,omitempty"`
	DataConclusao     time.Time `json:"data_conclusao"`
	CodigoValidacao   string    `json:"codigo_validacao"`
	URLValidacao      string    `json:"url_validacao"`
	AssinaturaDigital bool      `json:"assinatura_digital"`
	EmitidoEm         time.Time `json:"emitido_em"`
}

// CertificateVerification is the public lookup payload for a minted code.
type CertificateVerification struct {
	CodigoValidacao string    `db:"codigo_validacao" json:"codigo_validacao"`
	AlunoNome       string    `db:"aluno_nome" json:"aluno_nome"`
	InstituicaoNome string    `db:"instituicao_nome" json:"instituicao_nome"`
	DataConclusao   time.Time `db:"data_conclusao" json:"data_conclusao"`
	Valido          bool      `db:"-" json:"valido"`
}
