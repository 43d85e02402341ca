package http

import (
	"log/slog"
	"net/http"

	"github.com/credinews/credinews-api/internal/application/article"
	"github.com/credinews/credinews-api/internal/application/otp"
	"github.com/credinews/credinews-api/internal/application/profile"
	"github.com/credinews/credinews-api/internal/application/registration"
	"github.com/credinews/credinews-api/internal/application/session"
	"github.com/credinews/credinews-api/internal/config"
	"github.com/credinews/credinews-api/internal/domain"
	"github.com/credinews/credinews-api/internal/infrastructure/dynamo"
	"github.com/credinews/credinews-api/internal/infrastructure/factcheck"
	"github.com/credinews/credinews-api/internal/infrastructure/google"
	jwtinfra "github.com/credinews/credinews-api/internal/infrastructure/jwt"
	"github.com/credinews/credinews-api/internal/infrastructure/mail"
	s3infra "github.com/credinews/credinews-api/internal/infrastructure/s3"
	"github.com/credinews/credinews-api/internal/infrastructure/sns"
	"github.com/credinews/credinews-api/internal/transport/http/handler"
	appmiddleware "github.com/credinews/credinews-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo       *dynamo.UserRepo
	SessionRepo    *dynamo.SessionRepo
	OTPRepo        *dynamo.OTPRepo
	PendingRepo    *dynamo.PendingRepo
	ProfileRepo    *dynamo.ProfileRepo
	ArticleRepo    *dynamo.ArticleRepo
	S3Store        *s3infra.Store
	Notifier       mail.Notifier
	SMSSender      sns.SMSSender
	FactChecker    *factcheck.Client
	GoogleVerifier *google.Verifier
	JWTProvider    *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10. Applied to the public endpoints that
	// issue codes or take guesses at them.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	codes := otp.NewManager(deps.OTPRepo, cfg.OTPExpiry, cfg.OTPMaxAttempts)

	regDeps := registration.ServiceDeps{
		UserRepo:       deps.UserRepo,
		PendingRepo:    deps.PendingRepo,
		ProfileRepo:    deps.ProfileRepo,
		Codes:          codes,
		Notifier:       deps.Notifier,
		ResendCooldown: cfg.ResendCooldown,
		MaxResends:     cfg.MaxResendPerFlow,
		PendingExpiry:  cfg.PendingExpiry,
	}
	if deps.SMSSender != nil {
		regDeps.SMS = deps.SMSSender
	}
	regSvc := registration.NewService(regDeps)

	sessDeps := session.ServiceDeps{
		UserRepo:          deps.UserRepo,
		SessionRepo:       deps.SessionRepo,
		ProfileRepo:       deps.ProfileRepo,
		Codes:             codes,
		Notifier:          deps.Notifier,
		RefreshRemembered: cfg.RefreshExpiryRemembered,
		RefreshSession:    cfg.RefreshExpirySession,
	}
	if deps.JWTProvider != nil {
		sessDeps.JWTProvider = deps.JWTProvider
	}
	if deps.GoogleVerifier != nil {
		sessDeps.GoogleVerifier = deps.GoogleVerifier
	}
	sessSvc := session.NewService(sessDeps)

	profileSvc := profile.NewService(deps.ProfileRepo, deps.S3Store)
	articleSvc := article.NewService(article.ServiceDeps{
		Articles: deps.ArticleRepo,
		Stats:    deps.ProfileRepo,
		Checker:  deps.FactChecker,
		Logger:   slog.Default(),
	})

	healthH := handler.NewHealthHandler()
	regH := handler.NewRegistrationHandler(regSvc)
	sessionH := handler.NewSessionHandler(sessSvc)
	pwH := handler.NewPasswordRecoveryHandler(sessSvc)
	profileH := handler.NewProfileHandler(profileSvc)
	articleH := handler.NewArticleHandler(articleSvc)
	modH := handler.NewModerationHandler(deps.UserRepo, deps.SessionRepo)

	r.Route("/v1", func(r chi.Router) {
		// Public routes (no auth)
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/registration/{action}", regH.Action)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Post("/sessions/google", sessionH.LoginWithGoogle)
		r.Post("/sessions/refresh", sessionH.Refresh)
		r.With(sensitiveRL.Limit).Post("/password-recovery/{action}", pwH.Action)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/profiles/me", profileH.Get)
			r.Put("/profiles/me", profileH.Update)
			r.Post("/profiles/me/avatar", profileH.UploadAvatar)
			r.Get("/profiles/me/avatar", profileH.AvatarURL)

			r.Post("/articles", articleH.Submit)
			r.Get("/articles", articleH.List)
			r.Get("/articles/{id}", articleH.Get)
			r.Post("/verify/{mode}", articleH.Verify)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users/{id}", modH.GetUser)
				r.Put("/users/{id}/block", modH.Block)
				r.Put("/users/{id}/unblock", modH.Unblock)
				r.Delete("/users/{id}", modH.Delete)
			})
		})
	})

	return r
}
