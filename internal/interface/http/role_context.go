package http

import (
	"github.com/gin-gonic/gin"

	"github.com/jedalosa/energymatch/internal/domain/roleauth"
)

const activeRoleKey = "active_role"

func setActiveRole(c *gin.Context, role roleauth.Role) {
	c.Set(activeRoleKey, role)
}

func getActiveRole(c *gin.Context) (roleauth.Role, bool) {
	value, ok := c.Get(activeRoleKey)
	if !ok {
		return "", false
	}
	role, ok := value.(roleauth.Role)
	return role, ok
}
