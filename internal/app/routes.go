package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sacred-word/core/internal/middleware"
	"github.com/sacred-word/core/internal/modules/auth"
	"github.com/sacred-word/core/internal/modules/export"
	"github.com/sacred-word/core/internal/modules/prefs"
	"github.com/sacred-word/core/internal/modules/processing/speech"
	"github.com/sacred-word/core/internal/modules/processing/verse"
	"github.com/sacred-word/core/internal/modules/render"
	appconfigs "github.com/sacred-word/core/internal/modules/system/configs"
	"github.com/sacred-word/core/internal/modules/system/health"
	"github.com/sacred-word/core/internal/pkg/localstore"
	pkgredis "github.com/sacred-word/core/internal/pkg/redis"
	"github.com/sacred-word/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "sacred-word-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/sacred-word/core",
	}

	apiPrefix := "/api/v2"

	// Shared services
	cfgSvc := appconfigs.NewService(db)
	store := localstore.NewGormStore(db)

	verseSvc := verse.NewService(cfgSvc, store, verse.NewTransport(), a.logger.Named("VerseService"))
	cfgSvc.OnChange(verseSvc.InvalidateCache)

	speechSvc := speech.NewService(cfgSvc, speech.GeminiSynthesizer{}, a.logger.Named("SpeechService"))
	prefsSvc := prefs.NewService(store)
	exportSvc := export.NewService(verseSvc, cfgSvc, a.logger.Named("ExportService"))

	registerCronJobs(a.sched, cfgSvc, exportSvc, a.logger)

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	// Root-level endpoints
	root := r.Group("")
	root.Use(middleware.OptionalAuth(db))
	render.NewHandler(verseSvc, func() string {
		cfg, err := cfgSvc.Get()
		if err != nil {
			return ""
		}
		return cfg.App.Title
	}).RegisterRoutes(root)

	// Versioned API
	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(db))

	// Slow-changing reads get a short Redis-backed response cache.
	cached := r.Group(apiPrefix)
	cached.Use(middleware.OptionalAuth(db))
	cached.Use(middleware.HTTPCache(rc.Raw(), 15*time.Second))

	// App info endpoints
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(a.startTime()).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	api.GET("/clean_cache", authMW, func(c *gin.Context) {
		cfgSvc.Invalidate()
		verseSvc.InvalidateCache()
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), rc.Raw())
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
	})

	// Infrastructure
	health.RegisterRoutes(api, db, a.sched, authMW)

	// Config
	appconfigs.NewHandler(cfgSvc).RegisterRoutes(cached, authMW)

	// Auth
	auth.NewHandler(auth.NewService(db)).RegisterRoutes(api, authMW)

	// Verses
	verse.NewHandler(verseSvc).RegisterRoutes(api)
	export.NewHandler(exportSvc).RegisterRoutes(api, authMW)

	// Speech
	speech.NewHandler(speechSvc).RegisterRoutes(cached)

	// Preferences
	prefs.NewHandler(prefsSvc).RegisterRoutes(api)
}
