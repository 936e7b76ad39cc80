package models

import "time"

// BlockOperation is the class of operation an academic block forbids.
type BlockOperation string

const (
	BloqueioDocumentos   BlockOperation = "DOCUMENTOS"
	BloqueioCertificados BlockOperation = "CERTIFICADOS"
)

// AcademicBlock is a hold, typically financial, preventing issuance of
// documents or certificates regardless of academic completeness. Read-only
// for this engine; writers are external.
type AcademicBlock struct {
	ID            string         `db:"id" json:"id"`
	InstituicaoID string         `db:"instituicao_id" json:"instituicao_id"`
	AlunoID       *string        `db:"aluno_id" json:"aluno_id,omitempty"`
	Operacao      BlockOperation `db:"operacao" json:"operacao"`
	Motivo        string         `db:"motivo" json:"motivo"`
	Ativo         bool           `db:"ativo" json:"ativo"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// BlockCheck is the result of an academic block lookup.
type BlockCheck struct {
	Blocked bool   `json:"blocked"`
	Motivo  string `json:"motivo,omitempty"`
}
