package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/designdesk/backend/internal/config"
	"github.com/designdesk/backend/internal/database"
	"github.com/designdesk/backend/internal/handlers"
	"github.com/designdesk/backend/internal/middleware"
	"github.com/designdesk/backend/internal/services"
	"github.com/designdesk/backend/internal/storage"
	"github.com/designdesk/backend/pkg/logger"
	"github.com/designdesk/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	storageClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("minio initialization failed: %v", err)
	}
	if err := storageClient.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("failed ensuring minio bucket: %v", err)
	}

	projectService := services.NewProjectService(db, storageClient)
	uploadService := services.NewUploadService(storageClient, cfg.Upload)

	authHandler := handlers.NewAuthHandler(db)
	usersHandler := handlers.NewUsersHandler(projectService)
	projectsHandler := handlers.NewProjectsHandler(projectService, uploadService)
	filesHandler := handlers.NewFilesHandler(projectService, uploadService, storageClient)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 100 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)

	api.Get("/users/designers", authMiddleware.RequireAuth, usersHandler.Designers)

	projectRoutes := api.Group("/projects", authMiddleware.RequireAuth)
	projectRoutes.Get("/", projectsHandler.List)
	projectRoutes.Post("/", projectsHandler.Create)
	projectRoutes.Get("/stats", projectsHandler.Stats)
	projectRoutes.Get("/:id", projectsHandler.Get)
	projectRoutes.Put("/:id", projectsHandler.Update)
	projectRoutes.Delete("/:id", projectsHandler.Delete)
	projectRoutes.Post("/:id/files", filesHandler.Upload)

	fileRoutes := api.Group("/files", authMiddleware.RequireAuth)
	fileRoutes.Get("/:id/download-url", filesHandler.DownloadURL)
	fileRoutes.Get("/:id/content", filesHandler.Download)
	fileRoutes.Delete("/:id", filesHandler.Delete)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
