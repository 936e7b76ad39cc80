package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the available roles.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleSecretaria UserRole = "SECRETARIA"
	RoleProfessor  UserRole = "PROFESSOR"
	RoleAluno      UserRole = "ALUNO"
)

// User represents an application user. Students are users with role ALUNO.
type User struct {
	ID            string    `db:"id" json:"id"`
	InstituicaoID string    `db:"instituicao_id" json:"instituicao_id"`
	Email         string    `db:"email" json:"email"`
	Nome          string    `db:"nome" json:"nome"`
	Role          UserRole  `db:"role" json:"role"`
	Ativo         bool      `db:"ativo" json:"ativo"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// JWTClaims is the token payload produced by the external identity provider.
// InstituicaoID is absent for platform-level super administrators.
type JWTClaims struct {
	UserID        string   `json:"user_id"`
	InstituicaoID *string  `json:"instituicao_id,omitempty"`
	Role          UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
