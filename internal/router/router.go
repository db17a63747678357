package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/scholarsync/service-api-go/internal/assist"
	"github.com/scholarsync/service-api-go/internal/auth"
	userrepo "github.com/scholarsync/service-api-go/internal/auth/repo"
	"github.com/scholarsync/service-api-go/internal/plan"
	"github.com/scholarsync/service-api-go/internal/task"
	"github.com/scholarsync/service-api-go/pkg/database"
)

// Deps carries the explicitly constructed collaborators. Nothing here is a
// process-wide singleton; main builds one of these and hands it over.
type Deps struct {
	DB        *sqlx.DB
	AuthCfg   auth.Config
	Generator assist.Generator
}

// RegisterRoutes mounts HTTP handlers using the standard library's
// http.ServeMux. Register, login and health are public; everything else sits
// behind the bearer-token middleware.
func RegisterRoutes(logger *zap.SugaredLogger, deps Deps) http.Handler {
	mux := http.NewServeMux()

	tokens := auth.NewTokenService(deps.AuthCfg.Secret, deps.AuthCfg.TokenTTL)
	hasher := auth.BcryptHasher{Cost: deps.AuthCfg.BcryptCost}
	users := userrepo.NewUserRepo(deps.DB)

	authSvc := auth.NewService(deps.DB, users, hasher, tokens)
	authHandler := auth.NewHandler(authSvc, logger)

	taskSvc := task.NewService(deps.DB, nil)
	taskHandler := task.NewHandler(taskSvc, logger)

	planHandler := plan.NewHandler(users, logger)

	assistSvc := assist.NewService(deps.Generator)
	assistHandler := assist.NewHandler(assistSvc, users, logger)

	protect := auth.Middleware(tokens)
	guard := func(h http.HandlerFunc) http.Handler { return protect(h) }

	// health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		dbState := "connected"
		if !database.Healthy(r.Context(), deps.DB.DB, 2*time.Second) {
			status = "degraded"
			dbState = "disconnected"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"database":  dbState,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// auth
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/refresh-token", authHandler.Refresh)
	mux.Handle("GET /auth/me", guard(authHandler.Me))
	mux.Handle("PUT /auth/update-profile", guard(authHandler.UpdateProfile))
	mux.Handle("DELETE /auth/delete-account", guard(authHandler.DeleteAccount))

	// tasks
	mux.Handle("POST /tasks", guard(taskHandler.Create))
	mux.Handle("GET /tasks", guard(taskHandler.List))
	mux.Handle("GET /tasks/analytics", guard(taskHandler.Analytics))
	mux.Handle("GET /tasks/{id}", guard(taskHandler.Get))
	mux.Handle("PUT /tasks/{id}", guard(taskHandler.Update))
	mux.Handle("DELETE /tasks/{id}", guard(taskHandler.Delete))

	// plan
	mux.Handle("GET /user/plan-features", guard(planHandler.Features))
	mux.Handle("PUT /user/update-plan", guard(planHandler.Update))

	// ai assistance
	mux.Handle("POST /ai/generate-academic-assistance", guard(assistHandler.Generate))

	handler := RequestIDMiddleware()(LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux)))
	return handler
}

// EnsureSchema creates the tables the service needs. Users must exist before
// tasks because of the ownership foreign key.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if err := userrepo.NewUserRepo(db).EnsureTable(ctx); err != nil {
		return err
	}
	return task.EnsureSchema(ctx, db)
}
