package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-shopping-list/internal/classify"
	"smart-shopping-list/internal/config"
	"smart-shopping-list/internal/database"
	"smart-shopping-list/internal/frequency"
	"smart-shopping-list/internal/list"
	"smart-shopping-list/internal/llm"
	"smart-shopping-list/internal/share"
	"smart-shopping-list/internal/telegram"
	"smart-shopping-list/internal/webimport"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var textGen llm.TextGenerator
	var classifier classify.Classifier = classify.Disabled{}
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer client.Close()
		textGen = client
	case config.ProviderGroq:
		textGen = llm.NewGroqClient(cfg.GroqAPIKey)
	}
	if textGen != nil {
		classifier = classify.NewLLMClassifier(textGen)
	} else {
		log.Println("No LLM provider configured; items are added without classification")
	}

	freqStore := frequency.NewStore(db.SQL)
	store := list.NewStore(cfg.UserID, list.NewSQLRepository(db.SQL), freqStore)
	if err := store.Init(ctx); err != nil {
		log.Fatalf("Failed to load lists: %v", err)
	}

	ingestor := list.NewIngestor(store, classifier)
	importer := webimport.NewImporter(textGen)
	signer := share.NewSigner(cfg.ShareSecret)

	bot, err := telegram.NewBot(cfg, store, ingestor, importer, freqStore, signer)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Shopping List Bot listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	ingestor.Wait()
	if err := store.Flush(ctxShutdown); err != nil {
		log.Printf("Warning: final save failed: %v", err)
	}

	log.Println("Server exiting")
}
