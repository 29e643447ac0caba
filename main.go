package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"werewolf/auth"
	"werewolf/config"
	"werewolf/crypto"
	"werewolf/game"
	"werewolf/logger"
	"werewolf/session"
	"werewolf/storage"
	"werewolf/voice"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	adminTokenAge = 30 * 24 * time.Hour
	badTokenDelay = 2 * time.Second
	shutdownWait  = 10 * time.Second
)

// originAllowed accepts requests without an Origin header (server to server
// calls from the command frontend) and browser requests from a listed origin.
func originAllowed(allowedOrigins []string, origin string) bool {
	return origin == "" || slices.Contains(allowedOrigins, origin)
}

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		if originAllowed(allowedOrigins, ctx.Request.Header.Get("Origin")) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.Debug().
			Str("method", ctx.Request.Method).
			Str("path", ctx.FullPath()).
			Int("status", ctx.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

type closer func()

func openStore(ctx context.Context, cfg config.Config) (game.SnapshotStore, closer, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		s, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.DriverSQLite:
		s, err := storage.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return storage.NewMemoryStore(), func() {}, nil
	}
}

func openVoice(cfg config.Config) (voice.Connector, closer, error) {
	if cfg.NATSURL == "" {
		log.Warn().Msg("NATS_URL not set, narration is silent")
		return voice.Silent{}, func() {}, nil
	}
	c, err := voice.ConnectNATS(cfg.NATSURL)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

func loadCatalog(cfg config.Config) (*voice.Catalog, error) {
	if cfg.TrackCatalog == "" {
		return voice.DefaultCatalog(), nil
	}
	return voice.LoadCatalog(cfg.TrackCatalog)
}

func gameSettings(cfg config.Config) game.Settings {
	s := game.DefaultSettings()
	s.RoleActionDuration = cfg.RoleActionDuration
	s.RoleEndPause = cfg.RoleEndPause
	s.DeliberationDuration = cfg.DeliberationDuration
	s.VoteDuration = cfg.VoteDuration
	s.VoiceTimeout = cfg.VoiceTimeout
	s.PersistTimeout = cfg.PersistTimeout
	return s
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.Debug, cfg.LogPretty)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Dependencies
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open snapshot store")
	}
	defer closeStore()

	connector, closeVoice, err := openVoice(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to the voice bridge")
	}
	defer closeVoice()

	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load track catalog")
	}

	tokenManager := crypto.NewJWTManager(cfg.AdminJWTKey, adminTokenAge)
	sessions := session.NewStore(cfg.RefreshTokenTTL, nil)

	lobby := game.NewLobby(game.LobbyConfig{
		Voice:    connector,
		Store:    store,
		Sessions: sessions,
		Catalog:  catalog,
		Settings: gameSettings(cfg),
	})
	lobbyCtx, stopLobby := context.WithCancel(context.Background())
	defer stopLobby()
	go lobby.Run(lobbyCtx)
	<-lobby.Started()

	if n, err := lobby.Recover(ctx); err != nil {
		log.Error().Err(err).Msg("room recovery failed")
	} else {
		log.Info().Int("rooms", n).Msg("rooms recovered")
	}

	r := CreateServer(cfg.AllowedOrigins)
	gameHandler := game.NewGameHandler(lobby, func(req *http.Request) bool {
		return originAllowed(cfg.AllowedOrigins, req.Header.Get("Origin"))
	})
	r.GET("/ws", gameHandler.ConnectHandler)
	{
		rooms := r.Group("/rooms")
		rooms.Use(auth.RequireScope(tokenManager, crypto.ScopeRooms, badTokenDelay))

		rooms.POST("", gameHandler.CreateRoomHandler)
		rooms.GET("", gameHandler.ListRoomsHandler)
		rooms.DELETE("/:id", gameHandler.DestroyRoomHandler)
		rooms.POST("/:id/invites", gameHandler.InviteHandler)
		rooms.POST("/:id/pause", gameHandler.PauseHandler)
		rooms.POST("/:id/resume", gameHandler.ResumeHandler)
	}

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := lobby.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("lobby shutdown")
	}
}
