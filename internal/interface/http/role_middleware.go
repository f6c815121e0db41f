package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jedalosa/energymatch/internal/domain/roleauth"
)

// roleMiddleware validates the role-shell token and requires one of the given
// roles for the guarded group.
func roleMiddleware(svc roleauth.Service, required ...roleauth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}
		token := strings.TrimSpace(parts[1])
		role, err := svc.ValidateToken(token)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "invalid_token", errMessage(err), err))
			return
		}
		if !roleAllowed(role, required) {
			abortWithError(c, NewHTTPError(http.StatusForbidden, "forbidden", "role not allowed", nil))
			return
		}
		setActiveRole(c, role)
		c.Next()
	}
}

func roleAllowed(role roleauth.Role, required []roleauth.Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
