package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dsicola/academico-api/internal/middleware"
	"github.com/dsicola/academico-api/internal/models"
	"github.com/dsicola/academico-api/internal/service"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func scopeFromContext(c *gin.Context) (service.TenantScope, error) {
	return service.ResolveTenantScope(claimsFromContext(c))
}
