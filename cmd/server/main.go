package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adibratta/my-pos/internal/advisor"
	"github.com/adibratta/my-pos/internal/config"
	"github.com/adibratta/my-pos/internal/httpapi"
	"github.com/adibratta/my-pos/internal/service"
	"github.com/adibratta/my-pos/internal/store"
	"github.com/adibratta/my-pos/internal/store/memory"
	pgstore "github.com/adibratta/my-pos/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Println("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		log.Println("repository: in-memory")
	}

	suggestionCache := advisor.SuggestionCache(advisor.NoopSuggestionCache{})
	if cfg.RedisAddr != "" {
		redisCache := advisor.NewRedisSuggestionCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop cache", err)
		} else {
			suggestionCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("advisor cache: redis")
		}
	} else {
		log.Println("advisor cache: noop")
	}

	var adv advisor.Advisor = advisor.Noop{}
	if cfg.GeminiAPIKey != "" {
		adv = advisor.NewGemini(cfg.GeminiAPIKey)
		log.Println("advisor: gemini")
	} else {
		log.Println("advisor: noop")
	}
	adv = advisor.NewCached(adv, suggestionCache, time.Duration(cfg.AdvisorTTLSeconds)*time.Second)

	svc := service.New(repo, adv)
	gate := httpapi.NewAdminGate(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, svc.VerifyPIN)
	api := httpapi.New(svc, gate, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("POS backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}
