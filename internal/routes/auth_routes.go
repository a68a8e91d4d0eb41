// syndicare/internal/routes/auth_routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/khalidesskali/syndicare/internal/handlers"
	"github.com/khalidesskali/syndicare/internal/middleware"
)

// RegisterAuthRoutes registers the public authentication routes.
func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/api/auth/login", handlers.LoginHandler)
	r.POST("/api/auth/logout", handlers.LogoutHandler)
	r.GET("/api/auth/me", middleware.AuthMiddleware(), handlers.MeHandler)
}
