package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"buchladen-backend/internal/auth"
	"buchladen-backend/internal/graphql"
	"buchladen-backend/internal/shared/middleware"
	"buchladen-backend/pkg/container"
)

func setupRouter(c *container.Container) (*gin.Engine, error) {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit(rate.Limit(50), 100))

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheckHandler(c))

	v1.POST("/auth/login", c.AuthHandler.Login)
	v1.GET("/auth/me", middleware.Authenticate(c.JWTManager), c.AuthHandler.Me)

	schema, err := graphql.NewSchema(c.BuchService, c.KundeService)
	if err != nil {
		return nil, err
	}
	v1.POST("/graphql", graphql.Handler(schema))

	registerBuchRoutes(v1, c)
	registerKundeRoutes(v1, c)

	return router, nil
}

func registerBuchRoutes(v1 *gin.RouterGroup, c *container.Container) {
	buecher := v1.Group("/buecher")

	buecher.GET("", c.BuchHandler.GetAll)
	buecher.GET("/:id", c.BuchHandler.GetByID)
	buecher.GET("/:id/file", c.BuchFileHandler.Download)

	authed := buecher.Group("")
	authed.Use(middleware.Authenticate(c.JWTManager))
	authed.GET("/export",
		middleware.RequireRole(auth.RoleAdmin),
		c.BuchHandler.Export)
	authed.POST("",
		middleware.RequireRole(auth.RoleAdmin, auth.RoleMitarbeiter),
		c.BuchHandler.Create)
	authed.PUT("/:id",
		middleware.RequireRole(auth.RoleAdmin, auth.RoleMitarbeiter),
		c.BuchHandler.Update)
	authed.PUT("/:id/file",
		middleware.RequireRole(auth.RoleAdmin, auth.RoleMitarbeiter),
		c.BuchFileHandler.Upload)
	authed.DELETE("/:id",
		middleware.RequireRole(auth.RoleAdmin),
		c.BuchHandler.Delete)
}

func registerKundeRoutes(v1 *gin.RouterGroup, c *container.Container) {
	kunden := v1.Group("/kunden")

	kunden.GET("", c.KundeHandler.GetAll)
	kunden.GET("/:id", c.KundeHandler.GetByID)
	kunden.GET("/:id/file", c.KundeFileHandler.Download)

	authed := kunden.Group("")
	authed.Use(middleware.Authenticate(c.JWTManager))
	authed.POST("",
		middleware.RequireRole(auth.RoleAdmin, auth.RoleMitarbeiter),
		c.KundeHandler.Create)
	authed.PUT("/:id",
		middleware.RequireRole(auth.RoleAdmin, auth.RoleMitarbeiter),
		c.KundeHandler.Update)
	authed.PUT("/:id/file",
		middleware.RequireRole(auth.RoleAdmin, auth.RoleMitarbeiter),
		c.KundeFileHandler.Upload)
	authed.DELETE("/:id",
		middleware.RequireRole(auth.RoleAdmin),
		c.KundeHandler.Delete)
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.HealthCheck(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": c.Config.App.Version,
		})
	}
}
