package app

import (
	"time"

	"Tracker/internal/auth"
	"Tracker/internal/cache"
	"Tracker/internal/config"
	"Tracker/internal/handlers"
	"Tracker/internal/repo"
	"Tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// Setup registers all routes on the given engine. rdb may be nil, in which
// case the list cache is disabled.
func Setup(r *gin.Engine, cfg config.Config, log zerolog.Logger, db *mongo.Database, rdb *redis.Client) error {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler)
	r.GET("/version", versionHandler(cfg))

	prod := cfg.App.Env == "prod"

	tokens, err := auth.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL.Duration())
	if err != nil {
		return err
	}

	userRepo := repo.NewMongoUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(tokens, userSvc, log, prod)
	registerAuthRoutes(r, authHandler)

	protected := r.Group("", auth.RequireAuth(tokens))
	taskRepo := repo.NewMongoTaskRepo(db)
	var taskCache *cache.TaskCache
	if rdb != nil {
		taskCache = cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}
	taskSvc := service.NewTaskService(taskRepo, taskCache)
	taskHandler := handlers.NewTaskHandler(taskSvc, log, prod)
	registerTaskRoutes(protected, taskHandler)

	return nil
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Task Tracker API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"health":  "/health",
			"api":     "/tasks",
		})
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)
	api.POST("/tasks", h.Create)
	api.PUT("/tasks/:id", h.Update)
	api.PATCH("/tasks/:id/archive", h.Archive)
	api.PATCH("/tasks/:id/subtasks", h.ReplaceSubtasks)
	api.DELETE("/tasks/:id", h.Delete)
}

func registerAuthRoutes(r *gin.Engine, h *handlers.AuthHandler) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
}
