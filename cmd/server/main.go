package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"judgeboard/internal/api"
	"judgeboard/internal/app/service"
	"judgeboard/internal/common/security"
	"judgeboard/internal/domain/repository"
	"judgeboard/internal/platform/cache"
	"judgeboard/internal/platform/config"
	"judgeboard/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	resultsCache := cache.NewResultsCache(cache.RDB, config.AppConfig.ResultsCacheKey, config.AppConfig.ResultsCacheTTL)

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	teamRepo := repository.NewPgTeamRepository(database.DB)
	criteriaRepo := repository.NewPgCriteriaRepository(database.DB)
	scoreRepo := repository.NewPgScoreRepository(database.DB)

	// 6. Initialize Services
	scope := service.NewScopeResolver(criteriaRepo)
	authService := service.NewAuthService(userRepo, database.DB)
	userService := service.NewUserService(userRepo, scoreRepo, database.DB, resultsCache)
	teamService := service.NewTeamService(teamRepo, scoreRepo, database.DB, resultsCache)
	criteriaService := service.NewCriteriaService(criteriaRepo, database.DB, resultsCache)
	scoreService := service.NewScoreService(scoreRepo, criteriaRepo, teamRepo, scope, database.DB, resultsCache)
	resultService := service.NewResultService(teamRepo, criteriaRepo, scoreRepo, resultsCache)
	feedbackService := service.NewFeedbackService(teamRepo, criteriaRepo, scoreRepo, userRepo)

	// 7. Ensure the default admin account exists
	if err := userService.EnsureAdmin(context.Background(), config.AppConfig.AdminUsername, config.AppConfig.AdminPassword); err != nil {
		log.Fatalf("Admin bootstrap failed: %v", err)
	}

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, teamService, criteriaService, scoreService, resultService, feedbackService, scope)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
