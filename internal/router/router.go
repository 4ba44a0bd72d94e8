// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Priyankm23/odoo-hackathon-project/internal/config"
	"github.com/Priyankm23/odoo-hackathon-project/internal/handler"
	"github.com/Priyankm23/odoo-hackathon-project/internal/middleware"
	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
)

// Handlers groups everything the router needs to register the API.
type Handlers struct {
	Auth      *handler.AuthHandler
	Items     *handler.ItemHandler
	Swaps     *handler.SwapHandler
	Redeem    *handler.RedeemHandler
	Admin     *handler.AdminHandler
	Dashboard *handler.DashboardHandler
}

// Register sets up the full route table. Public browse endpoints get
// the Redis response cache and rate limiter; everything else sits
// behind JWT auth, with the moderation surface further restricted to
// admins.
func Register(e *echo.Echo, cfg config.Config, db *sql.DB, rdb *redis.Client, h Handlers) {
	e.GET("/healthz", handler.Health(db))

	// Uploaded item images are served as static files.
	e.Static(cfg.UploadBaseURL, cfg.UploadDir)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Session endpoints.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", h.Auth.Logout, middleware.JWTAuth(cfg.JWTSecret))

	// Public browse surface, cached and rate limited.
	e.GET("/v1/items", h.Items.List, limiter, cache)
	e.GET("/v1/items/:id", h.Items.GetByID, limiter, cache)

	// Authenticated surface for both roles.
	user := e.Group("/v1")
	user.Use(middleware.JWTAuth(cfg.JWTSecret))
	user.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	user.GET("/me", h.Auth.Me)
	user.GET("/dashboard", h.Dashboard.Overview)

	user.POST("/items", h.Items.Create)
	user.GET("/items/user/my-items", h.Items.MyItems)

	user.POST("/swaps", h.Swaps.Request)
	user.PATCH("/swaps/:id/status", h.Swaps.Respond)
	user.GET("/swaps/user/my-swaps", h.Swaps.MySwaps)

	user.POST("/redeem", h.Redeem.Redeem)
	user.GET("/redeem/user/my-redeems", h.Redeem.MyRedeems)

	// Moderation surface, admins only.
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.GET("/items/pending", h.Admin.PendingItems)
	admin.PATCH("/items/:id/approve", h.Admin.Approve)
	admin.DELETE("/items/:id", h.Admin.Reject)
	admin.GET("/logs", h.Admin.AuditLogs)
	admin.GET("/dashboard", h.Admin.Dashboard)
}
