// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	contractorsfeature "github.com/dalemusser/adarshgram/internal/app/features/contractors"
	dashboardfeature "github.com/dalemusser/adarshgram/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/adarshgram/internal/app/features/errors"
	healthfeature "github.com/dalemusser/adarshgram/internal/app/features/health"
	issuesfeature "github.com/dalemusser/adarshgram/internal/app/features/issues"
	loginfeature "github.com/dalemusser/adarshgram/internal/app/features/login"
	logoutfeature "github.com/dalemusser/adarshgram/internal/app/features/logout"
	projectsfeature "github.com/dalemusser/adarshgram/internal/app/features/projects"
	"github.com/dalemusser/adarshgram/internal/app/lifecycle"
	"github.com/dalemusser/adarshgram/internal/app/store/audit"
	"github.com/dalemusser/adarshgram/internal/app/store/photos"
	"github.com/dalemusser/adarshgram/internal/app/system/auditlog"
	"github.com/dalemusser/adarshgram/internal/app/system/auth"
	"github.com/dalemusser/adarshgram/internal/app/system/ratelimit"
	"github.com/dalemusser/adarshgram/internal/app/system/timeouts"
	"github.com/dalemusser/adarshgram/internal/app/triage"
	"github.com/dalemusser/adarshgram/internal/app/triage/lexicon"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, store connection, schema setup, and
// Startup have completed. It builds the triage pipeline and the lifecycle
// manager over deps.Store, applies session middleware, and mounts the
// feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	lex, err := loadLexicon(appCfg.LexiconFile)
	if err != nil {
		logger.Error("lexicon load failed", zap.String("file", appCfg.LexiconFile), zap.Error(err))
		return nil, err
	}

	pipeline := triage.New(triage.Options{
		Lexicon: lex,
		Remote:  deps.Classifier,
		Rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, logger)

	opts := lifecycle.Options{SeedDemoContractor: appCfg.SeedDemoContractor}
	if appCfg.PhotoDir != "" {
		opts.Photos = photos.New(photos.Dir{Root: appCfg.PhotoDir}, logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()
	mgr, err := lifecycle.Open(ctx, deps.Store, pipeline, opts, logger)
	if err != nil {
		logger.Error("lifecycle manager init failed", zap.Error(err))
		return nil, err
	}

	// Audit events reach MongoDB only when it is the store.
	var sink auditlog.Sink
	var auditStore *audit.Store
	if deps.MongoDatabase != nil {
		auditStore = audit.New(deps.MongoDatabase)
		sink = auditStore
	}
	auditLog := auditlog.New(sink, logger, auditlog.Config{
		Auth:      appCfg.AuditLogAuth,
		Lifecycle: appCfg.AuditLogLifecycle,
	})

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads the signed-in contractor into context.
	r.Use(sessionMgr.LoadSessionContractor)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Store, deps.StoreType, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", promhttp.Handler())

	// Authentication
	loginHandler := loginfeature.NewHandler(mgr, sessionMgr, errLog, auditLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Reports and the issue map
	issuesHandler := issuesfeature.NewHandler(mgr, errLog, auditLog, logger)
	r.Mount("/issues", issuesfeature.Routes(issuesHandler, sessionMgr, perMinute(appCfg.SubmitRatePerMin)))

	projectsHandler := projectsfeature.NewHandler(mgr, errLog, auditLog, logger)
	if auditStore != nil {
		projectsHandler.History = auditStore
	}
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	contractorsHandler := contractorsfeature.NewHandler(mgr, errLog, auditLog, logger)
	if auditStore != nil {
		contractorsHandler.Activity = auditStore
	}
	r.Mount("/contractors", contractorsfeature.Routes(contractorsHandler, sessionMgr, perMinute(appCfg.RegisterRatePerMin)))

	dashboardHandler := dashboardfeature.NewHandler(mgr, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	return r, nil
}

// loadLexicon reads YAML tables from path, or returns the built-in tables
// when path is blank.
func loadLexicon(path string) (*lexicon.Classifier, error) {
	if path == "" {
		return lexicon.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return lexicon.Parse(data)
}

// perMinute returns a per-IP limiter, or nil (no limit) when n is 0.
func perMinute(n int) *ratelimit.Limiter {
	if n <= 0 {
		return nil
	}
	return ratelimit.New(n, time.Minute)
}
