package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/medico-health/portal-api/internal/auth"
	"github.com/medico-health/portal-api/internal/config"
	"github.com/medico-health/portal-api/internal/handlers"
	"github.com/medico-health/portal-api/internal/middleware"
	"github.com/medico-health/portal-api/internal/profile"
	"github.com/medico-health/portal-api/internal/session"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	sessions *session.Manager,
	authHandler *handlers.AuthHandler,
	predictionHandler *handlers.PredictionHandler,
	pagesHandler *handlers.PagesHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)
	api.Get("/session", authHandler.Session)
	api.Get("/conditions", predictionHandler.Conditions)

	// Auth is public, with a stricter limit: 10 req/min per IP
	authGroup := api.Group("/auth")
	authGroup.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/social", authHandler.SocialSignIn)

	// Protected API (portal JWT required)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Put("/profile/doctor",
		middleware.JWTProtected(cfg),
		middleware.RequireRole(profile.RoleDoctor),
		authHandler.CompleteDoctorProfile)
	api.Post("/predict/:condition", middleware.JWTProtected(cfg), predictionHandler.Predict)

	// Navigation surface. Role-gated pages go through the guard
	// decision table against the live session state.
	patient := middleware.RoleOf(profile.RolePatient)
	doctor := middleware.RoleOf(profile.RoleDoctor)

	app.Get(auth.RouteHome, pagesHandler.Page("home", "Medico"))
	app.Get(auth.RouteLogin, pagesHandler.Page("login", "Sign In"))
	app.Get(auth.RouteRegister, pagesHandler.Page("register", "Create Account"))
	app.Get(auth.RoutePatientDashboard,
		middleware.PageGuard(sessions, patient),
		pagesHandler.Page("patient-dashboard", "Patient Dashboard"))
	app.Get(auth.RouteDoctorDashboard,
		middleware.PageGuard(sessions, doctor),
		pagesHandler.Page("doctor-dashboard", "Doctor Dashboard"))
	app.Get(auth.RouteDoctorProfileCompletion,
		middleware.PageGuard(sessions, doctor),
		pagesHandler.Page("doctor-profile-completion", "Complete Your Profile"))
	app.Get("/upload-report",
		middleware.PageGuard(sessions, nil),
		pagesHandler.Page("upload-report", "Upload Report"))
	app.Get("/prediction-results",
		middleware.PageGuard(sessions, nil),
		pagesHandler.Page("prediction-results", "Prediction Results"))
	app.Get("/medical-history",
		middleware.PageGuard(sessions, nil),
		pagesHandler.Page("medical-history", "Medical History"))
	app.Get("/nearby-services",
		middleware.PageGuard(sessions, nil),
		pagesHandler.Page("nearby-services", "Nearby Services"))

	app.Use(pagesHandler.NotFound)
}
