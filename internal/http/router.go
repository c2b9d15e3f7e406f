package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"backoffice-service/internal/http/middleware"
	"backoffice-service/internal/metrics"
	"backoffice-service/internal/model"
)

type RouterConfig struct {
	Environment string
	Origins     []string
	// Ping backs /healthz. Nil reports healthy.
	Ping func(ctx context.Context) error
}

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, cfg RouterConfig, log zerolog.Logger) (*gin.Engine, error) {
	if err := registerValidation(); err != nil {
		return nil, fmt.Errorf("register validation: %w", err)
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	allowed := make(map[string]struct{}, len(cfg.Origins))
	for _, origin := range cfg.Origins {
		allowed[origin] = struct{}{}
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.CustomRecoveryWithWriter(io.Discard, handler.recoverPanic))
	router.Use(logger.SetLogger(
		logger.WithLogger(func(_ *gin.Context, _ zerolog.Logger) zerolog.Logger { return log }),
		logger.WithSkipPath([]string{"/healthz", "/metrics"}),
		logger.WithUTC(true),
	))
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			_, ok := allowed[origin]
			return ok
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		if cfg.Ping != nil {
			if err := cfg.Ping(c.Request.Context()); err != nil {
				log.Error().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", handler.login)
		authGroup.POST("/logout", handler.logout)
		authGroup.GET("/verify", handler.verify)
	}

	admin := api.Group("")
	admin.Use(authMiddleware, middleware.RequireRole(model.UserRoleAdmin))
	{
		admin.GET("/users", handler.listUsers)
		admin.POST("/users", handler.createUser)
		for _, prefix := range []string{"/users/:id", "/user/:id"} {
			admin.GET(prefix, handler.getUser)
			admin.PUT(prefix, handler.updateUser)
			admin.DELETE(prefix, handler.deleteUser)
		}
	}

	api.GET("/plans", handler.plansByDateAndUser)
	api.GET("/plans/all", handler.listPlans)
	api.GET("/plans/:id", handler.getPlan)
	api.POST("/plans", handler.createPlan)
	api.PUT("/plans/:id", handler.updatePlan)
	api.DELETE("/plans/:id", handler.deletePlan)

	api.GET("/route-groups", handler.listRouteGroups)
	api.GET("/route-groups/:id", handler.getRouteGroup)
	api.POST("/route-groups", handler.createRouteGroup)
	api.PUT("/route-groups/:id", handler.updateRouteGroup)
	api.DELETE("/route-groups/:id", handler.deleteRouteGroup)

	api.GET("/route-groups/:id/routes", handler.listRoutes)
	api.GET("/route-groups/:id/routes/:routeId", handler.getRoute)
	api.POST("/route-groups/:id/routes", handler.createRoute)
	api.PUT("/route-groups/:id/routes/:routeId", handler.updateRoute)
	api.DELETE("/route-groups/:id/routes/:routeId", handler.deleteRoute)

	api.GET("/routes", handler.listDispatchRoutes)
	api.GET("/routes/:id", handler.getDispatchRoute)
	api.POST("/routes", handler.createDispatchRoute)
	api.PUT("/routes/:id", handler.updateDispatchRoute)
	api.DELETE("/routes/:id", handler.deleteDispatchRoute)

	api.GET("/drivers", handler.listDrivers)

	router.NoRoute(routeNotFound)
	router.NoMethod(methodNotAllowed)

	return router, nil
}
