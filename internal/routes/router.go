// syndicare/internal/routes/router.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/khalidesskali/syndicare/internal/middleware"
)

// SetupRoutes wires every route of the application. Login is public; all API
// routes sit behind the auth middleware.
func SetupRoutes(r *gin.Engine) {
	RegisterAuthRoutes(r)

	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
