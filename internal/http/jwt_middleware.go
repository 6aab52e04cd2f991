package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-identity/internal/service"
)

const principalKey = "auth_principal"

// RequireAuth valida el Bearer token y guarda el principal en el contexto de
// gin y en el context.Context de la request.
func RequireAuth(logger *zap.Logger, jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respondError(c, logger, service.ErrUnauthorized)
			return
		}

		claims, err := jwtSvc.Validate(token)
		if err != nil {
			respondError(c, logger, service.ErrUnauthorized)
			return
		}

		p := service.PrincipalFromClaims(claims)
		c.Set(principalKey, p)
		c.Request = c.Request.WithContext(service.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole debe ir después de RequireAuth.
func RequireRole(logger *zap.Logger, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		if err := service.RequireRole(p, roles...); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin compara el principal con el id del path param indicado.
func RequireSelfOrAdmin(logger *zap.Logger, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		if err := service.RequireSelfOrAdmin(p, c.Param(param)); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Next()
	}
}

// GetPrincipal obtiene el principal autenticado desde el contexto.
func GetPrincipal(c *gin.Context) (service.Principal, bool) {
	val, ok := c.Get(principalKey)
	if !ok {
		return service.Principal{}, false
	}
	p, ok := val.(service.Principal)
	return p, ok && p.UserID != ""
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
