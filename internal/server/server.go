package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tinhnguyen/internal/config"
	"tinhnguyen/internal/handler"
	authHandler "tinhnguyen/internal/handler/auth"
	memberHandler "tinhnguyen/internal/handler/member"
	registrationHandler "tinhnguyen/internal/handler/registration"
	teamHandler "tinhnguyen/internal/handler/team"
	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/cache"
	"tinhnguyen/internal/pkg/jwt"
	"tinhnguyen/internal/pkg/mongodb"
	"tinhnguyen/internal/pkg/storagefactory"
	authRepo "tinhnguyen/internal/repository/auth"
	registrationRepo "tinhnguyen/internal/repository/registration"
	teamRepo "tinhnguyen/internal/repository/team"
	userRepo "tinhnguyen/internal/repository/user"
	"tinhnguyen/internal/server/middleware"
	"tinhnguyen/internal/service"
)

// Server is the HTTP server with all wiring.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
}

// New creates the server: connects MongoDB and Redis, builds the storage
// backend and registers all routes. MongoDB is required, Redis and storage
// degrade gracefully when absent.
func New(cfg *config.Config) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if cfg.Mongo.URI == "" {
		return nil, errors.New("mongo.uri is required")
	}
	mongoClient, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without stats cache")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
	}

	if err := srv.setupRoutes(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (s *Server) setupRoutes() error {
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS(s.cfg.Server.AllowedOrigins))

	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	db := s.mongo.Database()
	users := userRepo.NewRepo(db)
	refreshTokens := authRepo.NewRefreshTokenRepo(db)
	registrations := registrationRepo.NewRepo(db)
	teams := teamRepo.NewRepo(db)

	jwtSecret := s.cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}
	accessTokenExpiry := s.cfg.Auth.AccessTokenExpiry
	if accessTokenExpiry == 0 {
		accessTokenExpiry = 24 * time.Hour
	}
	refreshTokenExpiry := s.cfg.Auth.RefreshTokenExpiry
	if refreshTokenExpiry == 0 {
		refreshTokenExpiry = 7 * 24 * time.Hour
	}

	st, err := storagefactory.NewStorage(context.Background(), &s.cfg.Storage)
	if err != nil {
		return err
	}
	log.Info().Str("type", st.GetStorageType()).Msg("storage backend ready")

	var stats service.StatsCache
	if s.redis != nil {
		stats = s.redis
	}

	authSvc := service.NewAuthService(users, refreshTokens, jwtSecret, accessTokenExpiry, refreshTokenExpiry)
	registrationSvc := service.NewRegistrationService(users, registrations, s.mongo)
	rosterSvc := service.NewRosterService(users, teams, s.mongo, stats,
		s.cfg.Roster.DemotePreviousOnReassign, s.cfg.Roster.StatsCacheTTL)
	memberSvc := service.NewMemberService(users, teams, refreshTokens, st, rosterSvc)

	authHdl := authHandler.NewHandler(authSvc)
	registrationHdl := registrationHandler.NewHandler(registrationSvc)
	teamHdl := teamHandler.NewHandler(rosterSvc)
	memberHdl := memberHandler.NewHandler(memberSvc)

	jwtUtil := jwt.NewJWT(jwtSecret, accessTokenExpiry)

	v1 := s.engine.Group("/api/v1")
	{
		// public endpoints
		v1.POST("/auth/register", authHdl.Register)
		v1.POST("/auth/login", authHdl.Login)
		v1.POST("/auth/refresh", authHdl.Refresh)
		v1.GET("/lookup", memberHdl.Lookup)

		// authenticated endpoints
		authed := v1.Group("")
		authed.Use(middleware.Auth(jwtUtil))
		{
			authed.POST("/auth/logout", authHdl.Logout)
			authed.GET("/auth/me", authHdl.GetMe)

			authed.POST("/registrations", registrationHdl.Submit)

			authed.POST("/me/avatar", memberHdl.UploadAvatar)
			authed.POST("/me/card", memberHdl.UploadCard)
			authed.GET("/me/card/url", memberHdl.CardURL)

			authed.GET("/teams", teamHdl.List)
			authed.GET("/teams/:id", teamHdl.Get)

			// team-scoped writes; the service enforces the own-team rule
			teamScoped := authed.Group("")
			teamScoped.Use(middleware.RequireRole(
				user.RoleTeamAdmin.String(), user.RoleSuperAdmin.String(),
			))
			{
				teamScoped.PATCH("/teams/:id", teamHdl.Rename)
				teamScoped.GET("/teams/:id/members", teamHdl.ListMembers)
				teamScoped.POST("/teams/:id/members", teamHdl.AddMember)
			}

			// org admin endpoints; the services re-check against the stored
			// record, the middleware only rejects obviously wrong claims
			admin := authed.Group("/admin")
			admin.Use(middleware.RequireRole(user.RoleSuperAdmin.String()))
			{
				admin.GET("/registrations", registrationHdl.List)
				admin.POST("/registrations/:id/approve", registrationHdl.Approve)
				admin.POST("/registrations/:id/reject", registrationHdl.Reject)

				admin.POST("/teams", teamHdl.Create)
				admin.PUT("/teams/:id/admins/:position", teamHdl.AssignAdmin)

				admin.GET("/users", memberHdl.ListUsers)
				admin.DELETE("/users/:id", memberHdl.RetireUser)
			}
		}
	}

	return nil
}

// Run starts the server and blocks until ctx is canceled or the listener
// fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine returns the gin engine, for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
