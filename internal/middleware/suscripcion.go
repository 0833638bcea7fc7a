package middleware

import (
	"context"
	"net/http"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/apierror"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccesoSuscripcion is the narrow contract the subscription gate needs,
// declared here so the middleware does not depend on the service package.
type AccesoSuscripcion interface {
	TieneAcceso(ctx context.Context, usuarioID uuid.UUID) (bool, error)
}

// RequireSuscripcionActiva blocks owner features when the computed
// subscription status denies access (suspended). Administrators bypass the
// gate; the OVERDUE grace period still grants access, so only suspension
// results in a 403 here.
func RequireSuscripcionActiva(svc AccesoSuscripcion) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims.Rol == string(model.RolAdministrador) {
			c.Next()
			return
		}
		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido"))
			return
		}
		acceso, err := svc.TieneAcceso(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(apierror.HTTPStatus(err), apierror.FromErr(err))
			return
		}
		if !acceso {
			c.AbortWithStatusJSON(http.StatusForbidden,
				apierror.New("Suscripción suspendida: registre el pago para recuperar el acceso"))
			return
		}
		c.Next()
	}
}
