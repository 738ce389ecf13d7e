package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/francismul/oracle-image-gallery/config"
	"github.com/francismul/oracle-image-gallery/database"
	"github.com/francismul/oracle-image-gallery/handlers"
	"github.com/francismul/oracle-image-gallery/logger"
	"github.com/francismul/oracle-image-gallery/middleware"
	"github.com/francismul/oracle-image-gallery/models"
	"github.com/francismul/oracle-image-gallery/repositories"
	"github.com/francismul/oracle-image-gallery/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("starting oracle image gallery service")

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	logger.SetLevel(cfg.Log.Level)

	if err := database.InitSQLite(&cfg.Database); err != nil {
		log.Fatalf("%v: %v", services.ErrStorageUnavailable, err)
	}

	if err := database.DB.AutoMigrate(
		&models.Image{},
		&models.ShellAsset{},
	); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	log.Println("database migration completed")

	if err := database.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("init redis failed: %v", err)
	}

	repoContainer := repositories.NewGormRepositories(database.DB, database.RedisClient).BuildContainer()
	serviceContainer := services.NewContainer(repoContainer)
	handlers.SetServices(serviceContainer)

	ctx := context.Background()
	if err := serviceContainer.Gallery.Reload(ctx); err != nil {
		logger.Errorf("initial gallery load failed: %v", err)
	}
	if err := serviceContainer.AssetCache.Install(ctx); err != nil {
		logger.Errorf("asset cache install failed: %v", err)
	}
	if err := serviceContainer.AssetCache.Activate(ctx); err != nil {
		logger.Errorf("asset cache activate failed: %v", err)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return strings.HasPrefix(origin, "http://localhost:") ||
				strings.HasPrefix(origin, "http://127.0.0.1:")
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ShellCache(serviceContainer.AssetCache))
	setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}

func setupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", handlers.HealthCheck)

	api.GET("/images", handlers.ListImages)
	api.GET("/images/:id", handlers.GetImage)
	api.GET("/images/:id/export", handlers.ExportImage)
	api.DELETE("/images/:id", handlers.DeleteImage)
	api.POST("/images/batch-delete", handlers.BatchDeleteImages)

	api.POST("/ingest/urls", handlers.IngestURLs)
	api.POST("/ingest/files", handlers.IngestFiles)
	api.GET("/ingest/progress", handlers.GetIngestProgress)

	api.GET("/storage", handlers.GetStorageInfo)

	api.GET("/settings/theme", handlers.GetTheme)
	api.PUT("/settings/theme", handlers.SetTheme)

	r.GET("/blobs/:token", handlers.GetBlob)

	hooks := r.Group("/hooks")
	{
		hooks.POST("/push", handlers.PushHook)
		hooks.POST("/sync", handlers.SyncHook)
	}
}
