package main

import (
	"log"
	"net/http"

	"document-analyzer/internal/config"
	"document-analyzer/internal/handlers"
	"document-analyzer/internal/logger"
	"document-analyzer/internal/services"
	"document-analyzer/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	var ocr services.OCREngine
	if cfg.Model.OCREnabled {
		ocr = services.NewTesseractEngine()
	}

	extractor := services.NewExtractor(ocr)
	modelClient := services.NewModelClient(cfg.Model.Name)
	documents := store.NewMemory()
	analyzer := services.NewAnalyzer(extractor, modelClient, documents, cfg.Model)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.Use(handlers.AuthMiddleware(cfg.Token))

	documentHandler := handlers.NewDocumentHandler(analyzer, cfg.UploadDir)
	router.POST("/analyze", documentHandler.Analyze)
	router.POST("/chat", documentHandler.Chat)
	router.GET("/health", documentHandler.Health)

	// In production the built frontend is served from ./dist with an
	// index.html fallback for client-side routes.
	if cfg.Environment == "production" {
		router.Static("/assets", "./dist/assets")
		router.StaticFile("/", "./dist/index.html")
		router.NoRoute(func(c *gin.Context) {
			if c.Request.Method == http.MethodGet {
				c.File("./dist/index.html")
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		})
	}

	logger.Info("Document analysis service listening on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
