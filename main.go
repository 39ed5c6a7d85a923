package main

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"

	"valentinequest/internal/logging"
	"valentinequest/internal/metrics"
	"valentinequest/internal/progress"
	"valentinequest/internal/quest"
	"valentinequest/internal/quest/games"
)

// App holds the server's configuration and per-visitor sessions.
type App struct {
	Store        progress.Store
	QuestOptions quest.Options

	Sessions     map[string]*quest.Quest
	SessionMutex sync.RWMutex

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	IsProduction   bool
	SessionTimeout time.Duration
	ProgressTTL    time.Duration
	CookieMaxAge   time.Duration
	StaticCacheAge time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	StaticDir      string
	StartTime      time.Time

	closers []io.Closer
}

// loadQuestOptions builds the mini-game configuration from the environment.
func loadQuestOptions() quest.Options {
	opts := quest.DefaultOptions()
	opts.Quiz = games.QuizConfig{
		Answer:        getEnvString("QUIZ_ANSWER", opts.Quiz.Answer),
		SliderMax:     getEnvInt("QUIZ_SLIDER_MAX", opts.Quiz.SliderMax),
		SequenceDelay: getEnvDuration("QUIZ_SEQUENCE_DELAY", opts.Quiz.SequenceDelay),
	}
	opts.Scratch.Threshold = getEnvFloat("SCRATCH_THRESHOLD", opts.Scratch.Threshold)
	opts.Proposal.Threshold = getEnvFloat("PROPOSAL_THRESHOLD", opts.Proposal.Threshold)
	opts.PhotoManifest = getEnvString("PHOTO_MANIFEST", "static/photos/manifest.json")
	opts.PhotoColumns = getEnvInt("PHOTO_COLUMNS", opts.PhotoColumns)
	return opts
}

// newApp reads the environment and opens the progress store.
func newApp() (*App, error) {
	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	app := &App{
		QuestOptions:   loadQuestOptions(),
		Sessions:       make(map[string]*quest.Quest),
		LimiterMap:     make(map[string]*rate.Limiter),
		IsProduction:   isProduction,
		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 30*24*time.Hour),
		StaticCacheAge: getEnvDuration("STATIC_CACHE_AGE", 5*time.Minute),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 30),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 60),
		StaticDir:      "static",
		StartTime:      time.Now(),
	}
	cfg := loadStoreConfig()
	store, closers, err := newProgressStore(cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store
	app.ProgressTTL = cfg.TTL
	app.closers = closers
	return app, nil
}

// Close releases the progress store.
func (app *App) Close() {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			logWarn("Failed to close store: %v", err)
		}
	}
}

func main() {
	_ = godotenv.Load()

	app, err := newApp()
	if err != nil {
		logFatal("Failed to open progress store: %v", err)
	}
	logging.Init(app.IsProduction, getEnvString("LOG_FILE", ""))
	defer logging.Sync()
	defer app.Close()
	logInfo("Starting Valentine's Quest in %s mode", map[bool]string{true: "production", false: "development"}[app.IsProduction])

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go app.runJanitor(ctx, getEnvDuration("CLEANUP_INTERVAL", 30*time.Minute))

	templatesGlob := "templates/*.html"
	if app.IsProduction && dirExists("dist") {
		logInfo("Serving assets from dist/ directory")
		templatesGlob = "dist/templates/*.html"
		app.StaticDir = "dist/static"
	} else {
		logInfo("Serving development assets from source directories")
	}

	router := app.setupRouter(templatesGlob)
	app.startServer(ctx, router)
}

// setupRouter wires middleware and routes.
func (app *App) setupRouter(templatesGlob string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(requestIDMiddleware(), metrics.Middleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif", ".webp"}),
		ginGzip.WithExcludedPaths([]string{"/static/fonts", "/static/photos"})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(func(c *gin.Context) {
		applyCacheHeaders(c, app.IsProduction, app.StaticCacheAge)
	})

	router.SetFuncMap(template.FuncMap{
		"hasPrefix": strings.HasPrefix,
		"photoURL":  func(name string) string { return StaticPhotoPrefix + name },
	})
	router.LoadHTMLGlob(templatesGlob)
	router.Static("/static", app.StaticDir)

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteState, app.stateHandler)
	router.GET(RoutePhotos, app.photosHandler)

	limited := router.Group("/", app.rateLimitMiddleware())
	limited.POST(RouteStart, app.startHandler)
	limited.POST(RouteNext, app.nextHandler)
	limited.POST(RouteDriveStep, app.driveStepHandler)
	limited.POST(RoutePuzzlePlace, app.puzzlePlaceHandler)
	limited.POST(RouteScratch, app.scratchHandler)
	limited.POST(RouteQuizAnswer, app.quizAnswerHandler)
	limited.POST(RouteProposalPull, app.proposalPullHandler)
	limited.POST(RouteReset, app.resetHandler)

	router.GET(RouteHealthz, app.healthzHandler)
	router.GET(RouteMetrics, metrics.Handler())
	return router
}

func (app *App) startServer(ctx context.Context, router *gin.Engine) {
	port := getEnvString("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		logInfo("Shutdown signal received, shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}

func applyCacheHeaders(c *gin.Context, production bool, staticAge time.Duration) {
	if production && strings.HasPrefix(c.Request.URL.Path, "/static/") {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(staticAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}
