// Package server wires configuration, storage, domain services, and
// the HTTP/WebSocket surface into a runnable desktop backend.
package server

import (
	"context"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/batcaveos/backend/internal/admin"
	"github.com/batcaveos/backend/internal/api/http"
	"github.com/batcaveos/backend/internal/api/middleware"
	"github.com/batcaveos/backend/internal/api/ws"
	"github.com/batcaveos/backend/internal/domain/assets"
	"github.com/batcaveos/backend/internal/domain/desktop"
	"github.com/batcaveos/backend/internal/domain/identity"
	"github.com/batcaveos/backend/internal/domain/notify"
	"github.com/batcaveos/backend/internal/domain/playback"
	"github.com/batcaveos/backend/internal/domain/window"
	"github.com/batcaveos/backend/internal/infrastructure/config"
	"github.com/batcaveos/backend/internal/infrastructure/logging"
	"github.com/batcaveos/backend/internal/infrastructure/monitoring"
	"github.com/batcaveos/backend/internal/shared/types"
	"github.com/batcaveos/backend/internal/storage"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *nethttp.Server
	shell      *desktop.Shell
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		var err error
		logger, err = logging.New(logging.Config{Level: cfg.Logging.Level})
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
	}

	logger.Info("Initializing desktop backend",
		zap.String("port", cfg.Server.Port),
		zap.Int("viewport_width", cfg.Desktop.ViewportWidth),
		zap.Int("viewport_height", cfg.Desktop.ViewportHeight),
	)

	metrics := monitoring.NewMetrics()

	// Storage: remote object store when configured, local filesystem
	// store otherwise.
	var (
		store   storage.Store
		records storage.ProfileRecords
		local   *storage.LocalStore
	)
	if cfg.Storage.RemoteURL != "" {
		store = storage.NewRemoteStore(storage.RemoteConfig{
			BaseURL:    cfg.Storage.RemoteURL,
			ServiceKey: cfg.Storage.ServiceKey,
			Timeout:    30 * time.Second,
		})
		records = storage.NewRestRecords(cfg.Storage.RemoteURL, cfg.Storage.ServiceKey, 30*time.Second)
		logger.Info("Using remote storage", zap.String("url", cfg.Storage.RemoteURL))
	} else {
		var err error
		local, err = storage.NewLocalStore(cfg.Storage.LocalDir, "/files")
		if err != nil {
			return nil, fmt.Errorf("failed to open local store: %w", err)
		}
		store = local
		records = storage.NewMemoryRecords()
		logger.Info("Using local storage", zap.String("dir", cfg.Storage.LocalDir))
	}

	// Identity roster: seed file when configured, built-in roster
	// otherwise.
	var identities *identity.Store
	if cfg.Desktop.SeedPath != "" {
		var err error
		identities, err = identity.LoadSeed(cfg.Desktop.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile seed: %w", err)
		}
		logger.Info("Loaded profile seed",
			zap.String("path", cfg.Desktop.SeedPath),
			zap.Int("profiles", identities.Count()))
	} else {
		identities = identity.NewStoreWithDefaults()
	}
	identities = identities.WithMetrics(metrics)

	// Playlist: file when configured, built-in otherwise.
	songs := playback.DefaultPlaylist()
	if cfg.Desktop.PlaylistPath != "" {
		loaded, err := playback.LoadPlaylist(cfg.Desktop.PlaylistPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load playlist: %w", err)
		}
		songs = loaded
		logger.Info("Loaded playlist",
			zap.String("path", cfg.Desktop.PlaylistPath),
			zap.Int("songs", len(songs)))
	}

	windows := window.NewManager(window.DefaultRegistry(), types.Viewport{
		Width:         cfg.Desktop.ViewportWidth,
		Height:        cfg.Desktop.ViewportHeight,
		TaskbarHeight: cfg.Desktop.TaskbarHeight,
	}).WithMetrics(metrics)
	coordinator := playback.NewCoordinator(songs, nil).WithMetrics(metrics)
	queue := notify.NewQueue().WithMetrics(metrics)
	if cfg.Desktop.NotificationTTL > 0 {
		queue = queue.WithTTL(cfg.Desktop.NotificationTTL)
	}
	resolver := assets.NewResolver(store, logger.Logger).
		WithLookupTimeout(cfg.Desktop.AssetTimeout)

	shell := desktop.NewShell(windows, coordinator, queue, identities, resolver, logger.Logger)
	provisioner := admin.NewProvisioner(store, records, identities, resolver, logger.Logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := http.NewHandlers(shell, provisioner, store, metrics, logger, cfg.Admin.Key)
	wsHandler := ws.NewHandler(shell, metrics, logger)

	// Identity switches mutate windows and playback outside the
	// socket, so push fresh state to connected clients.
	identities.OnSwitch(func(types.Profile) {
		go wsHandler.NotifyStateChanged()
	})

	// Serve local store objects directly.
	if local != nil {
		router.Static("/files", local.Root())
	}

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/stats", handlers.Stats)
	router.GET("/desktop", handlers.Desktop)

	// Windows
	router.GET("/windows", handlers.ListWindows)
	router.POST("/windows/:kind/open", handlers.OpenWindow)
	router.POST("/windows/:kind/close", handlers.CloseWindow)
	router.POST("/windows/:kind/focus", handlers.FocusWindow)
	router.POST("/windows/:kind/maximize", handlers.MaximizeWindow)
	router.POST("/windows/:kind/drag/start", handlers.StartDrag)
	router.POST("/windows/drag/move", handlers.MoveDrag)
	router.POST("/windows/drag/end", handlers.EndDrag)
	router.POST("/viewport", handlers.SetViewport)

	// Playback
	router.GET("/playback", handlers.PlaybackState)
	router.POST("/playback/play", handlers.Play)
	router.POST("/playback/pause", handlers.Pause)
	router.POST("/playback/next", handlers.NextTrack)
	router.POST("/playback/prev", handlers.PrevTrack)
	router.POST("/playback/select", handlers.SelectTrack)
	router.POST("/playback/shuffle", handlers.ToggleShuffle)
	router.POST("/playback/repeat", handlers.ToggleRepeat)
	router.POST("/playback/volume", handlers.SetVolume)
	router.POST("/playback/play-url", handlers.PlayURL)
	router.POST("/playback/ended", handlers.TrackEnded)

	// Notifications
	router.GET("/notifications", handlers.ListNotifications)
	router.POST("/notifications", handlers.ShowNotification)
	router.DELETE("/notifications/:id", handlers.DismissNotification)

	// Profiles
	router.GET("/profiles", handlers.ListProfiles)
	router.GET("/profiles/current", handlers.CurrentProfile)
	router.GET("/profiles/:id", handlers.GetProfile)
	router.POST("/profiles/:id/switch", handlers.SwitchProfile)
	router.PATCH("/profiles/:id", handlers.UpdateProfile)
	router.PATCH("/profiles/:id/preferences", handlers.UpdatePreferences)
	router.GET("/profiles/:id/files", handlers.ListFiles)
	router.POST("/profiles/:id/files", handlers.AddFile)
	router.DELETE("/profiles/:id/files/:fileId", handlers.DeleteFile)
	router.POST("/profiles/:id/files/:fileId/favorite", handlers.ToggleFavorite)

	// Auth
	router.POST("/auth/register", handlers.Register)
	router.POST("/auth/login", handlers.Login)

	// Uploads
	router.POST("/uploads/:slot", handlers.Upload)

	// Admin (shared-secret gated)
	adminGroup := router.Group("/admin", handlers.RequireAdminKey())
	adminGroup.POST("/setup-buckets", handlers.SetupBuckets)
	adminGroup.POST("/make-buckets-public", handlers.MakeBucketsPublic)
	adminGroup.POST("/create-users", handlers.CreateUsers)
	adminGroup.POST("/refresh-assets", handlers.AdminRefreshAssets)
	adminGroup.POST("/delete-file", handlers.AdminDeleteFile)
	adminGroup.POST("/list-user-files", handlers.AdminListUserFiles)
	adminGroup.POST("/export-user-files", handlers.AdminExportUserFiles)
	adminGroup.POST("/configure-policy", handlers.AdminConfigurePolicy)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		shell:   shell,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))

	s.httpServer = &nethttp.Server{
		Addr:    addr,
		Handler: s.router,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		return err
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
			return err
		}
	}

	s.logger.Sync()
	return nil
}
