package models

import "time"

// TipoAcademico distinguishes the two academic regimes an institution can run.
type TipoAcademico string

const (
	TipoSuperior   TipoAcademico = "SUPERIOR"
	TipoSecundario TipoAcademico = "SECUNDARIO"
)

// Valid reports whether the academic type is one of the known regimes.
func (t TipoAcademico) Valid() bool {
	return t == TipoSuperior || t == TipoSecundario
}

// Institution is the tenant root. Every other entity carries, directly or
// transitively, an institution id that must match the caller's scope.
type Institution struct {
	ID                string        `db:"id" json:"id"`
	Nome              string        `db:"nome" json:"nome"`
	TipoAcademico     TipoAcademico `db:"tipo_academico" json:"tipo_academico"`
	Ativa             bool          `db:"ativa" json:"ativa"`
	AssinaturaDigital bool          `db:"assinatura_digital" json:"assinatura_digital"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}
