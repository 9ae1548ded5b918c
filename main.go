package main

import (
	"context"
	"log"
	"os"
	"time"

	"matdepot/cmd"
	"matdepot/internal/container"
	"matdepot/internal/database"
	"matdepot/internal/middleware"
	"matdepot/internal/rate_limiter"
	"matdepot/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Execute migration CMD
	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	// Connect to the database
	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	app := container.NewAppContainer(db)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))
	router.Use(rate_limiter.Middleware(rate_limiter.NewRateLimiter(120, time.Minute)))

	routes.RegisterUtilityRoutes(router)
	routes.RegisterPublicRoutes(router, app)
	routes.RegisterProtectedRoutes(router, app)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
