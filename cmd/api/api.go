package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ratehub/docs" //this is required to generate swagger docs
	"ratehub/internal/auth"
	"ratehub/internal/domain/storage"
	"ratehub/internal/domain/users"
	"ratehub/internal/mailer"
	"ratehub/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	frontendURL string
	auth        authConfig
	mail        mailConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret string
	iss    string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	mailtrap  mailTrapConfig
}

type mailTrapConfig struct {
	apiKey string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(app.RateLimiterMiddleware)

	// Request-scoped timeout; persistence calls carry their own shorter ones.
	r.Use(middleware.Timeout(60 * time.Second))

	r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
	r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

	docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", app.registerUserHandler)
		r.Post("/login", app.loginHandler)
		r.Post("/reset-password", app.requestResetPasswordHandler)
		r.Patch("/reset-password", app.resetPasswordHandler)
		r.With(app.AuthTokenMiddleware).Put("/update-password", app.updatePasswordHandler)
	})

	r.Route("/ratings", func(r chi.Router) {
		r.Use(app.AuthTokenMiddleware)
		r.With(app.RequireRole(users.RoleUser)).Post("/{storeID}", app.submitRatingHandler)
		r.Get("/store/{storeID}", app.getStoreRatingsHandler)
		r.With(app.RequireRole(users.RoleStoreOwner)).Get("/owner", app.ownerDashboardHandler)
	})

	r.Route("/stores", func(r chi.Router) {
		r.Use(app.AuthTokenMiddleware)
		r.Get("/", app.listStoresHandler)
		r.Get("/{storeID}", app.getStoreHandler)
		r.With(app.RequireRole(users.RoleAdmin)).Post("/", app.createStoreHandler)
		r.With(app.RequireRole(users.RoleAdmin)).Put("/{storeID}", app.updateStoreHandler)
		r.With(app.RequireRole(users.RoleAdmin)).Delete("/{storeID}", app.deleteStoreHandler)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(app.AuthTokenMiddleware)
		r.Use(app.RequireRole(users.RoleAdmin))
		r.Get("/dashboard", app.adminDashboardHandler)
		r.Get("/users", app.adminListUsersHandler)
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
