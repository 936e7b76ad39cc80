package models

import "time"

// Audit action constants for the document and enrollment engine.
const (
	AuditActionGerarHistorico     = "GERAR_HISTORICO"
	AuditActionGerarBoletim       = "GERAR_BOLETIM"
	AuditActionGerarPauta         = "GERAR_PAUTA"
	AuditActionGerarCertificado   = "GERAR_CERTIFICADO"
	AuditActionTentativaBloqueada = "TENTATIVA_BLOQUEADA"
	AuditActionInscricao          = "INSCRICAO_DISCIPLINA"
)

// Audit module constants.
const (
	AuditModuloDocumentos = "DOCUMENTOS"
	AuditModuloInscricoes = "INSCRICOES"
)

// AuditEntry is an append-only record of a document generation or blocked
// attempt. Never updated or deleted by this engine.
type AuditEntry struct {
	ID            string    `db:"id" json:"id"`
	Modulo        string    `db:"modulo" json:"modulo"`
	Entidade      string    `db:"entidade" json:"entidade"`
	Acao          string    `db:"acao" json:"acao"`
	EntidadeID    string    `db:"entidade_id" json:"entidade_id"`
	InstituicaoID string    `db:"instituicao_id" json:"instituicao_id"`
	UsuarioID     *string   `db:"usuario_id" json:"usuario_id,omitempty"`
	Payload       []byte    `db:"payload" json:"payload,omitempty"`
	Observacao    string    `db:"observacao" json:"observacao,omitempty"`
	CriadoEm      time.Time `db:"criado_em" json:"criado_em"`
}
