package service

import (
	"github.com/dsicola/academico-api/internal/models"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
)

// TenantScope is the resolved institution scope of a request. A nil
// InstituicaoID means platform-level, unscoped access.
type TenantScope struct {
	InstituicaoID *string
	UsuarioID     string
	Role          models.UserRole
}

// Unscoped reports whether the caller may see every tenant.
func (s TenantScope) Unscoped() bool {
	return s.InstituicaoID == nil
}

// ResolveTenantScope derives the scope from the authenticated principal.
// Resolution order, by precedence:
//  1. role SUPER_ADMIN: unscoped, regardless of any claim;
//  2. the instituicao_id claim;
//  3. no claim: the principal is unusable and resolution fails.
//
// The order is fixed here, in one place, so the precedence rule stays
// auditable.
func ResolveTenantScope(claims *models.JWTClaims) (TenantScope, error) {
	if claims == nil {
		return TenantScope{}, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials")
	}
	if claims.Role == models.RoleSuperAdmin {
		return TenantScope{InstituicaoID: nil, UsuarioID: claims.UserID, Role: claims.Role}, nil
	}
	if claims.InstituicaoID == nil || *claims.InstituicaoID == "" {
		return TenantScope{}, appErrors.Clone(appErrors.ErrUnauthorized, "principal has no institution")
	}
	return TenantScope{InstituicaoID: claims.InstituicaoID, UsuarioID: claims.UserID, Role: claims.Role}, nil
}

// RequireSameInstitution enforces tenant isolation. A record outside the
// caller's scope is reported as not found, never as forbidden, so existence
// of other tenants' data is not leaked.
func (s TenantScope) RequireSameInstitution(instituicaoID string) error {
	if s.Unscoped() {
		return nil
	}
	if *s.InstituicaoID != instituicaoID {
		return appErrors.ErrNotFound
	}
	return nil
}

// EffectiveInstitution returns the institution the operation acts on: the
// scope's own when scoped, otherwise the explicit target id supplied by the
// platform-level caller.
func (s TenantScope) EffectiveInstitution(target string) (string, error) {
	if !s.Unscoped() {
		if target != "" && target != *s.InstituicaoID {
			return "", appErrors.ErrNotFound
		}
		return *s.InstituicaoID, nil
	}
	if target == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "institution id required for unscoped access")
	}
	return target, nil
}
