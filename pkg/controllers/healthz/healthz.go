package healthz

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rupify/backend/pkg/httperrors"
	"github.com/rupify/backend/pkg/httputil"
)

// Pinger reports if the database can be reached.
type Pinger interface {
	Ping(ctx context.Context) error
}

func RegisterRoutes(r *gin.RouterGroup, db Pinger) {
	r.OPTIONS("", Options)
	r.GET("", Get(db))
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Returns the application health and, if not healthy, an error
// @Tags			General
// @Produce		json
// @Success		204
// @Failure		503	{object} httperrors.HTTPError
// @Router			/healthz [get]
func Get(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := db.Ping(c.Request.Context())
		if err != nil {
			httperrors.Handler(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
