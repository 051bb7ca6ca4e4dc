package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"inmobiliaria-backend/internal/auth"
	"inmobiliaria-backend/internal/cleanup"
	"inmobiliaria-backend/internal/config"
	"inmobiliaria-backend/internal/database"
	"inmobiliaria-backend/internal/handlers"
	"inmobiliaria-backend/internal/search"
	"inmobiliaria-backend/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		cfg = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Database
	var store *database.Store
	if cfg.Database.Type == "mysql" {
		log.Println("Using MySQL")
		store, err = database.NewMySQL(cfg.Database.MySQL)
	} else {
		log.Println("Using PostgreSQL")
		store, err = database.NewPostgres(cfg.Database.Postgres)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Object storage
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	objects, err := storage.Open(ctx, cfg.Storage)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open object storage: %v", err)
	}

	// Search
	var searchClient *search.SearchClient
	if cfg.Search.Meilisearch.Host != "" {
		searchClient = search.NewSearchClient(cfg.Search.Meilisearch.Host, cfg.Search.Meilisearch.APIKey)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	} else {
		log.Println("Search disabled: no Meilisearch host configured")
	}

	// Orphaned-object cleanup
	cleanupService := cleanup.NewService(store, objects)
	cleanupScheduler := cleanup.NewScheduler(cleanupService, cfg.Cleanup)
	if err := cleanupScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start cleanup scheduler: %v", err)
	}
	defer cleanupScheduler.Stop()

	// Handlers
	propertyHandler := handlers.NewPropertyHandler(store, searchClient)
	solicitudHandler := handlers.NewSolicitudHandler(store)
	managerHandler := handlers.NewManagerHandler(store, objects, searchClient)
	authHandler := handlers.NewAuthHandler(store, cfg.Auth)
	adminHandler := handlers.NewAdminHandler(store, cleanupService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", healthCheck)

	// Public site
	r.GET("/api/propiedades", propertyHandler.List)
	r.GET("/api/propiedades/:id", propertyHandler.Get)
	r.GET("/api/buscar", propertyHandler.Search)
	r.POST("/api/solicitudes", solicitudHandler.Create)

	// Auth
	r.POST("/api/auth/login", authHandler.Login)
	r.GET("/api/auth/me", auth.Middleware(cfg.Auth.JWTSecret), authHandler.Me)

	// Back office
	admin := r.Group("/api/admin", auth.Middleware(cfg.Auth.JWTSecret), auth.RequireRole("admin"))
	{
		admin.POST("/propiedades", managerHandler.SaveProperty)
		admin.PUT("/propiedades/:id", managerHandler.SaveProperty)
		admin.DELETE("/propiedades/:id", managerHandler.DeleteProperty)
		admin.POST("/propiedades/:id/multimedia", managerHandler.UploadMultimedia)

		admin.GET("/solicitudes", solicitudHandler.List)
		admin.PATCH("/solicitudes/:id/estado", solicitudHandler.UpdateEstado)
		admin.DELETE("/solicitudes/:id", solicitudHandler.Delete)

		admin.GET("/stats", adminHandler.GetStats)
		admin.POST("/cleanup/run", adminHandler.RunCleanup)
		admin.POST("/reindex", managerHandler.Reindex)
	}

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
