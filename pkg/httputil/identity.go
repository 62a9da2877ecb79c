package httputil

import (
	"github.com/gin-gonic/gin"
	"github.com/rupify/backend/pkg/models"
)

const contextUser = "user"

// SetUser stores the authenticated user for the request.
func SetUser(c *gin.Context, user models.User) {
	c.Set(contextUser, user)
}

// User returns the authenticated user of the request.
func User(c *gin.Context) (models.User, bool) {
	value, ok := c.Get(contextUser)
	if !ok {
		return models.User{}, false
	}

	user, ok := value.(models.User)
	return user, ok
}
