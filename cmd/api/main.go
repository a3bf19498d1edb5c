package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "resume-parser/docs" // Swagger docs
	"resume-parser/internal/api"
	"resume-parser/internal/config"
	"resume-parser/internal/llm"
	"resume-parser/internal/storage"
)

// @title Resume Parser API
// @version 1.0
// @description Extracts structured data from uploaded resumes using PDF text extraction and AI parsing with a local fallback

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	// Parse history is optional: without DATABASE_URL the service runs
	// fully stateless and downloads are unavailable.
	var db *storage.DB
	if cfg.DatabaseURL != "" {
		log.Println("Connecting to database...")
		db, err = storage.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("db open:", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := db.EnsureSchema(ctx); err != nil {
			cancel()
			log.Fatal("db schema:", err)
		}
		cancel()
		log.Println("Database connected successfully!")
	} else {
		log.Println("DATABASE_URL not set, parse history disabled")
	}

	client := llm.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, "")
	llmService := llm.NewService(client)

	apiSrv := api.NewAPI(llmService, db)
	router := api.NewRouter(apiSrv)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second, // file uploads
		WriteTimeout: 60 * time.Second, // model call + retries + response
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println("server shutdown:", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("API server listening on :%s\n", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	<-idleConnsClosed
}
