package server

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"wsid-backend/internal/analyses"
	"wsid-backend/internal/analyses/ruleengine"
	googleauth "wsid-backend/internal/auth"
	"wsid-backend/internal/documents"
	"wsid-backend/internal/health"
	"wsid-backend/internal/llm"
	"wsid-backend/internal/llm/openai"
	"wsid-backend/internal/llm/openrouter"
	"wsid-backend/internal/shared/config"
	"wsid-backend/internal/shared/metrics"
	"wsid-backend/internal/shared/server/middleware"
	"wsid-backend/internal/shared/server/respond"
	"wsid-backend/internal/shared/storage/db"
	localstore "wsid-backend/internal/shared/storage/object/local"
	"wsid-backend/internal/shared/telemetry"
	"wsid-backend/internal/translate"
	"wsid-backend/internal/users"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
		middleware.RateLimit(rateLimitConfig()),
	)

	// Dependencies
	store := localstore.New(cfg.LocalStoreDir)
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			telemetry.Warn("db.connect_failed", map[string]any{"error": err.Error()})
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				telemetry.Warn("db.migrate_failed", map[string]any{"error": err.Error()})
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var docRepo documents.Repo
	var analysisRepo analyses.Repo
	var userRepo users.Repo
	if sqlDB != nil {
		docRepo = documents.NewPGRepo(sqlDB)
		analysisRepo = analyses.NewPGRepo(sqlDB)
		userRepo = users.NewPGRepo(sqlDB)
	} else {
		docRepo = documents.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	keys := llm.NewKeyTable(cfg.OpenRouterAPIKeys)
	client := buildLLMClient(cfg, keys)

	analyzer := ruleengine.NewAnalyzer(
		ruleengine.ConfigFor(cfg.Ruleset),
		ruleengine.NewSummarizer(cfg.SummarizerStrategy),
	)
	analysisSvc := analyses.NewService(analyzer, client, keys, analysisRepo, time.Duration(cfg.RemoteTimeoutSecs)*time.Second)
	analysisHandler := analyses.NewHandler(analysisSvc, keys)

	docSvc := documents.NewService(store, docRepo)
	docHandler := documents.NewHandler(docSvc)

	translateHandler := translate.NewHandler(translate.NewClient(cfg.TranslateBaseURL))
	healthSvc := health.NewService(sqlDB)
	googleAuthSvc := googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL, userRepo)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	googleAuthSvc.RegisterRoutes(api)
	registerMeRoutes(api)

	api.POST("/analyze", analysisHandler.Analyze)
	api.POST("/analyze/batch", analysisHandler.AnalyzeBatch)
	api.GET("/analyses", analysisHandler.List)
	api.GET("/analyses/:id", analysisHandler.Get)

	api.POST("/documents", docHandler.Upload)
	api.GET("/documents", docHandler.List)
	api.GET("/documents/:id", docHandler.Get)

	api.POST("/translate", translateHandler.Translate)

	if cfg.Env != "production" {
		api.GET("/keys/status", analysisHandler.KeysStatus)
		api.POST("/keys/reset", analysisHandler.KeysReset)
	}

	r.GET("/metrics", metrics.Handler())

	return r
}

func buildLLMClient(cfg config.Config, keys *llm.KeyTable) llm.Client {
	switch cfg.LLMProvider {
	case "none":
		return nil
	case "openai":
		client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
		if err != nil {
			telemetry.Warn("llm.openai_unavailable", map[string]any{"error": err.Error()})
			return nil
		}
		return client
	default:
		client, err := openrouter.NewClient(keys, cfg.LLMModel, cfg.AppURL)
		if err != nil {
			telemetry.Warn("llm.openrouter_unavailable", map[string]any{"error": err.Error()})
			return nil
		}
		return client
	}
}

func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"ANALYZE":   {Rate: 1, Burst: 10},
			"TRANSLATE": {Rate: 0.5, Burst: 5},
		},
		GroupFor: func(c *gin.Context) string {
			switch {
			case c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/analyze":
				return "ANALYZE"
			case c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/analyze/batch":
				return "ANALYZE"
			case c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/translate":
				return "TRANSLATE"
			default:
				return ""
			}
		},
	}
}

func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", func(c *gin.Context) {
		respond.OK(c, gin.H{
			"id":      middleware.UserIDFromContext(c),
			"email":   middleware.UserEmailFromContext(c),
			"name":    middleware.UserNameFromContext(c),
			"picture": middleware.UserPictureFromContext(c),
			"isGuest": c.GetBool("isGuest"),
		})
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
