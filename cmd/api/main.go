package main

import (
	"context"
	"fmt"
	"log"

	"tasktrack-api/core"
)

func main() {
	cfg := core.Load()
	ctx := context.Background()

	logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	if err := core.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	userRepo := core.NewPgUserRepository(db)
	taskRepo := core.NewPgTaskRepository(db)
	issuer := core.NewTokenIssuer(cfg.JWTSecret)
	verifier := core.NewTokenVerifier(cfg.JWTSecret)
	authService := core.NewRepositoryAuthService(userRepo, issuer, cfg.BcryptCost)

	router := core.NewRouter(cfg, authService, verifier, taskRepo, db)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting api server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
