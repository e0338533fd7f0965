package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/darkhorse3pl/auth-service/internal/config"
	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/internal/handler"
	"github.com/darkhorse3pl/auth-service/internal/repository"
	"github.com/darkhorse3pl/auth-service/internal/service"
	"github.com/darkhorse3pl/auth-service/internal/token"
	"github.com/darkhorse3pl/auth-service/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

type handlers struct {
	auth       *handler.AuthHandler
	session    *handler.SessionHandler
	invitation *handler.InvitationHandler
	store      *handler.StoreHandler
	salla      *handler.SallaHandler
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	tokenManager := token.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
		cfg.JWT.NearExpiryWindow.Duration,
	)

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	sessionService := service.NewSessionService(repos.Session, tokenManager, infra.AuthMetrics(), infra.Logger())
	authService := service.NewAuthService(repos.User, sessionService, tokenManager, infra.AuthMetrics(), infra.Logger())
	invitationService := service.NewInvitationService(
		repos.Invitation,
		repos.User,
		repos.Store,
		sessionService,
		infra.Mailer(),
		infra.AuthMetrics(),
		infra.Logger(),
		cfg.Invitation.TTL.Duration,
		cfg.Security.BCryptCost,
		cfg.App.BaseURL,
	)
	storeService := service.NewStoreService(repos.Store, infra.Logger())
	sallaService := service.NewSallaService(repos.Store, infra.Mailer(), nil, cfg.Salla, infra.Logger())

	h := handlers{
		auth:       handler.NewAuthHandler(authService),
		session:    handler.NewSessionHandler(sessionService),
		invitation: handler.NewInvitationHandler(invitationService),
		store:      handler.NewStoreHandler(storeService),
		salla:      handler.NewSallaHandler(sallaService),
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("auth-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, h, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	h handlers,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	authenticated := handler.AuthMiddleware(authService)
	rateLimited := handler.RateLimitMiddleware(
		rateLimiter,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
		handler.IPBasedKey,
	)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", rateLimited, h.auth.Login)
			auth.POST("/refresh", h.auth.Refresh)
			auth.POST("/logout", authenticated, h.auth.Logout)
			auth.POST("/logout-all", authenticated, h.auth.LogoutAll)
			auth.GET("/me", authenticated, h.auth.Me)
			auth.GET("/sessions", authenticated, h.session.List)

			invitations := auth.Group("/invitations")
			{
				invitations.POST("/store-admin",
					authenticated,
					handler.RequireRoles(domain.RoleSuperAdmin),
					h.invitation.InviteStoreAdmin,
				)
				invitations.POST("", authenticated, h.invitation.Invite)
				invitations.POST("/:id/resend", authenticated, h.invitation.Resend)
				invitations.GET("/validate/:token", h.invitation.Validate)
				invitations.POST("/accept", rateLimited, h.invitation.Accept)
			}

			salla := auth.Group("/salla")
			{
				connectRoles := handler.RequireRoles(domain.RoleSuperAdmin, domain.RoleStoreAdmin)
				salla.POST("/connect", authenticated, connectRoles, h.salla.Connect)
				salla.GET("/connect", authenticated, connectRoles, h.salla.Connect)
				salla.GET("/callback", h.salla.Callback)
			}
		}

		stores := api.Group("/stores", authenticated)
		{
			superAdminOnly := handler.RequireRoles(domain.RoleSuperAdmin)

			stores.POST("", superAdminOnly, h.store.Create)
			stores.GET("", superAdminOnly, h.store.List)
			stores.GET("/:id", superAdminOnly, h.store.Get)
			stores.PUT("/:id", superAdminOnly, h.store.Update)
			stores.DELETE("/:id", superAdminOnly, h.store.Delete)

			storeStaff := handler.RequireRoles(domain.RoleSuperAdmin, domain.RoleStoreAdmin)
			stores.GET("/:id/users", storeStaff, h.store.ListUsers)
			stores.GET("/:id/warehouses", storeStaff, h.store.ListWarehouses)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
