package app

import (
	"github.com/karlbohn/feedback-app/internal/auth"
	"github.com/karlbohn/feedback-app/internal/cache"
	"github.com/karlbohn/feedback-app/internal/config"
	"github.com/karlbohn/feedback-app/internal/handlers"
	"github.com/karlbohn/feedback-app/internal/password"
	"github.com/karlbohn/feedback-app/internal/repo"
	"github.com/karlbohn/feedback-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	sessionStore := auth.NewStore(rdb, cfg.Auth.SessionTTL.Duration())
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	feedbackCache := cache.NewFeedbackCache(rdb, cfg.Redis.CacheTTL.Duration())

	userRepo := repo.NewPGUserRepo(db)
	feedbackRepo := repo.NewPGFeedbackRepo(db)
	userSvc := service.NewUserService(userRepo, hasher, feedbackCache)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, feedbackCache)

	authHandler := handlers.NewAuthHandler(sessionStore, userSvc)
	registerAuthRoutes(api, authHandler)

	userHandler := handlers.NewUserHandler(sessionStore, userSvc, feedbackSvc)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackSvc)

	protected := api.Group("", auth.RequireSession(sessionStore))
	registerUserRoutes(protected, userHandler, feedbackHandler)

	// Feedback-by-id routes resolve the resource before authorization, so
	// they take an optional identity: a missing id is 404 even when the
	// caller is anonymous.
	resolved := api.Group("", auth.Resolve(sessionStore))
	registerFeedbackRoutes(resolved, feedbackHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Feedback API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
}

func registerUserRoutes(api *gin.RouterGroup, uh *handlers.UserHandler, fh *handlers.FeedbackHandler) {
	api.GET("/users/:username", uh.GetPage)
	api.DELETE("/users/:username", uh.Delete)
	api.POST("/users/:username/feedback", fh.Create)
}

func registerFeedbackRoutes(api *gin.RouterGroup, h *handlers.FeedbackHandler) {
	api.GET("/feedback/:id", h.GetByID)
	api.PATCH("/feedback/:id", h.Update)
	api.DELETE("/feedback/:id", h.Delete)
}
