// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"circlepoint/internal/middleware"
	"circlepoint/internal/modules/admin"
	"circlepoint/internal/modules/application"
	"circlepoint/internal/modules/auth"
	"circlepoint/internal/modules/booking"
	"circlepoint/internal/modules/property"
	"circlepoint/internal/notification"
	"circlepoint/internal/pkg/jwt"
	"circlepoint/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	JWT         *jwt.Service
	Users       middleware.UserLookup
	Hub         *notification.Hub
	CORSOrigins []string

	Auth        *auth.Handler
	Property    *property.Handler
	Booking     *booking.Handler
	Application *application.Handler
	Admin       *admin.Handler
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.ErrorLogger(),
		middleware.CORS(d.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authn := []gin.HandlerFunc{middleware.JWTAuth(d.JWT)}
	if d.Users != nil {
		authn = append(authn, middleware.CurrentRole(d.Users))
	}

	if d.Hub != nil {
		r.GET("/ws/notifications", append(authn, notificationsWS(d.Hub))...)
	}

	v1 := r.Group("/api/v1")

	protected := v1.Group("")
	protected.Use(authn...)

	manager := protected.Group("/manager")
	manager.Use(middleware.ManagerOnly())

	superAdmin := protected.Group("/admin")
	superAdmin.Use(middleware.SuperAdminOnly())

	if d.Auth != nil {
		d.Auth.RegisterPublicRoutes(v1)
		d.Auth.RegisterProtectedRoutes(protected)
	}
	if d.Property != nil {
		d.Property.RegisterRoutes(v1, manager)
	}
	if d.Booking != nil {
		d.Booking.RegisterRoutes(protected, manager)
	}
	if d.Application != nil {
		d.Application.RegisterRoutes(protected, superAdmin)
	}
	if d.Admin != nil {
		d.Admin.RegisterRoutes(superAdmin)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})
	return r
}

func notificationsWS(hub *notification.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)
		conn, err := notification.Upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade has already written the HTTP error.
			return
		}
		hub.ServeWS(conn, actor.ID)
	}
}
