package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/scholarsync/service-api-go/internal/assist"
	"github.com/scholarsync/service-api-go/internal/auth"
	"github.com/scholarsync/service-api-go/internal/router"
	"github.com/scholarsync/service-api-go/pkg/database"
	"github.com/scholarsync/service-api-go/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting scholarsync api")

	authCfg, err := auth.ConfigFromEnv()
	if err != nil {
		sugar.Fatalf("auth config: %v", err)
	}

	// init db
	db, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if err := router.EnsureSchema(context.Background(), db); err != nil {
		sugar.Fatalf("ensure schema: %v", err)
	}

	// the AI collaborator is optional; without a key the rule-based
	// fallback serves assistance requests
	var gen assist.Generator
	if aiCfg := assist.ConfigFromEnv(); aiCfg.APIKey != "" {
		gen = assist.NewClient(aiCfg)
		sugar.Info("ai generator configured")
	} else {
		sugar.Info("no ai api key set, using rule-based assistance")
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := router.RegisterRoutes(sugar, router.Deps{
		DB:        db,
		AuthCfg:   authCfg,
		Generator: gen,
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8420"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// run server in background
	go func() {
		sugar.Infow("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
