package api

import (
	"net/http"
	"time"

	"judgeboard/internal/api/handler"
	"judgeboard/internal/api/middleware"
	"judgeboard/internal/app/service"
	"judgeboard/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	teamService *service.TeamService,
	criteriaService *service.CriteriaService,
	scoreService *service.ScoreService,
	resultService *service.ResultService,
	feedbackService *service.FeedbackService,
	scope *service.ScopeResolver,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.RequestDuration)

	// JWT Auth Middleware Setup
	// It will search for a token in "Authorization: Bearer T".
	r.Use(jwtauth.Verifier(security.TokenAuth)) // Verifies token, puts claims in context

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(userService)
		v1.Route("/users", userHandler.RegisterRoutes)

		criteriaHandler := handler.NewCriteriaHandler(criteriaService, userService, scope)
		v1.Route("/criteria", criteriaHandler.RegisterRoutes)

		teamHandler := handler.NewTeamHandler(teamService, feedbackService)
		v1.Route("/teams", teamHandler.RegisterRoutes)

		scoreHandler := handler.NewScoreHandler(scoreService, userService)
		v1.Route("/scores", scoreHandler.RegisterRoutes)

		resultHandler := handler.NewResultHandler(resultService)
		v1.Route("/results", resultHandler.RegisterRoutes)
	})

	return r
}
