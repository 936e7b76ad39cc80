package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsicola/academico-api/internal/models"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
)

func TestResolveTenantScopeSuperAdminIsUnscoped(t *testing.T) {
	inst := "inst-1"
	scope, err := ResolveTenantScope(&models.JWTClaims{
		UserID:        "u1",
		Role:          models.RoleSuperAdmin,
		InstituicaoID: &inst,
	})
	require.NoError(t, err)
	assert.True(t, scope.Unscoped())
}

func TestResolveTenantScopeUsesClaim(t *testing.T) {
	inst := "inst-1"
	scope, err := ResolveTenantScope(&models.JWTClaims{
		UserID:        "u1",
		Role:          models.RoleSecretaria,
		InstituicaoID: &inst,
	})
	require.NoError(t, err)
	require.False(t, scope.Unscoped())
	assert.Equal(t, "inst-1", *scope.InstituicaoID)
}

func TestResolveTenantScopeRejectsMissingClaim(t *testing.T) {
	_, err := ResolveTenantScope(&models.JWTClaims{UserID: "u1", Role: models.RoleSecretaria})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)

	_, err = ResolveTenantScope(nil)
	appErr = appErrors.FromError(err)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestRequireSameInstitutionMismatchIsNotFound(t *testing.T) {
	inst := "inst-1"
	scope := TenantScope{InstituicaoID: &inst, UsuarioID: "u1", Role: models.RoleSecretaria}

	require.NoError(t, scope.RequireSameInstitution("inst-1"))

	err := scope.RequireSameInstitution("inst-2")
	appErr := appErrors.FromError(err)
	// Cross-tenant access must read as absence, not as a permission error.
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestRequireSameInstitutionUnscopedSeesAll(t *testing.T) {
	scope := TenantScope{UsuarioID: "root", Role: models.RoleSuperAdmin}
	assert.NoError(t, scope.RequireSameInstitution("inst-2"))
}

func TestEffectiveInstitution(t *testing.T) {
	inst := "inst-1"
	scoped := TenantScope{InstituicaoID: &inst, UsuarioID: "u1", Role: models.RoleAdmin}

	got, err := scoped.EffectiveInstitution("")
	require.NoError(t, err)
	assert.Equal(t, "inst-1", got)

	_, err = scoped.EffectiveInstitution("inst-2")
	assert.Error(t, err)

	unscoped := TenantScope{UsuarioID: "root", Role: models.RoleSuperAdmin}
	got, err = unscoped.EffectiveInstitution("inst-2")
	require.NoError(t, err)
	assert.Equal(t, "inst-2", got)

	_, err = unscoped.EffectiveInstitution("")
	assert.Error(t, err)
}
