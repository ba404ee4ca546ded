package pedidos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"

	"simblissima-pedidos/internal/pedidos/handlers"
	"simblissima-pedidos/internal/pedidos/middleware"
	"simblissima-pedidos/internal/pedidos/orderform"
	"simblissima-pedidos/internal/pedidos/render"
	"simblissima-pedidos/pkg/logging"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	Redirects       handlers.RedirectConfig
	SecureCookies   bool
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func NewServer(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	views handlers.ViewRegistry,
	creator orderform.Creator,
	renderer *render.Renderer,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           NewRouter(cfg, tokenAuth, views, creator, renderer, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	s.logger.InfoCtx(context.Background(), "Starting server", zap.String("address", s.cfg.ServerAddress))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func NewRouter(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	views handlers.ViewRegistry,
	creator orderform.Creator,
	renderer *render.Renderer,
	logger *logging.ZapLogger,
) *chi.Mux {
	loggerContext := middleware.NewLoggerContext()
	panicRecover := middleware.NewPanicRecover(logger)
	profile := middleware.NewProfile(cfg.SecureCookies)
	authenticator := middleware.NewAuthenticator(tokenAuth, cfg.Redirects.LoginURL, logger)

	ordersPageHandler := handlers.NewOrdersPageHandler(views, renderer, cfg.Redirects, logger)
	ordersListHandler := handlers.NewOrdersListHandler(views, logger)
	orderToggleHandler := handlers.NewOrderToggleHandler(views, logger)
	confirmHandler := handlers.NewFinalValueHandler(views, handlers.Confirm, logger)
	rejectHandler := handlers.NewFinalValueHandler(views, handlers.Reject, logger)
	orderCreationHandler := handlers.NewOrderCreationHandler(views, creator, renderer, logger)
	leaveHandler := handlers.NewLeaveHandler(views, cfg.Redirects.HomeURL, logger)
	liveUpdatesHandler := handlers.NewLiveUpdatesHandler(views, logger)

	router := chi.NewRouter()
	router.Use(loggerContext.CreateHandler, panicRecover.CreateHandler, profile.CreateHandler)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, render.OrdersPath, http.StatusSeeOther)
	})

	router.Route("/pedidos", func(router chi.Router) {
		router.Use(authenticator.CreateHandler)

		router.Get("/", ordersPageHandler.ServeHTTP)
		router.Get("/lista", ordersListHandler.ServeHTTP)
		router.Get("/ws", liveUpdatesHandler.ServeHTTP)
		router.Get("/novo", orderCreationHandler.ServeHTTP)
		router.Post("/novo", orderCreationHandler.ServeHTTP)
		router.Post("/sair", leaveHandler.ServeHTTP)

		router.Route("/{"+handlers.OrderIDParam+"}", func(router chi.Router) {
			router.Post("/alternar", orderToggleHandler.ServeHTTP)
			router.Post("/confirmar", confirmHandler.ServeHTTP)
			router.Post("/recusar", rejectHandler.ServeHTTP)
		})
	})

	return router
}
