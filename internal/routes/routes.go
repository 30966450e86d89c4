package routes

import (
	"net/http"

	"github.com/habitloop/habitloop/internal/app"
	"github.com/habitloop/habitloop/internal/handler"
	"github.com/habitloop/habitloop/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg.JWTExpiry)
	recovery := handler.NewRecoveryHandler(app.RecoveryService, app.Cfg.JWTSecret, app.Cfg.RecoveryStateExpiry, app.Cfg.IsProduction())
	account := handler.NewAccountHandler(app.AuthService)
	habit := handler.NewHabitHandler(app.HabitService)
	goal := handler.NewGoalHandler(app.GoalService)
	notification := handler.NewNotificationHandler(app.NotificationService)
	file := handler.NewFileHandler(app.FileService, app.HabitService)
	dashboard := handler.NewDashboardHandler(app.HabitService, app.NotificationService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /auth/signup", rateLimiter(middleware.RequireGuest(auth.Signup)))
	mux.HandleFunc("POST /auth/login", rateLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// Account recovery - three steps, state carried in a signed cookie
	mux.HandleFunc("POST /auth/recover/identity", rateLimiter(middleware.RequireGuest(recovery.Identity)))
	mux.HandleFunc("POST /auth/recover/code", rateLimiter(middleware.RequireGuest(recovery.Code)))
	mux.HandleFunc("POST /auth/recover/password", rateLimiter(middleware.RequireGuest(recovery.Password)))

	// ============================================================================
	// PROTECTED ROUTES (/app/*)
	// ============================================================================

	// Dashboard
	mux.HandleFunc("GET /app/dashboard", middleware.RequireAuth(dashboard.Dashboard))

	// Habits
	mux.HandleFunc("GET /app/habits", middleware.RequireAuth(habit.List))
	mux.HandleFunc("POST /app/habits", middleware.RequireAuth(habit.Create))
	mux.HandleFunc("GET /app/habits/{id}", middleware.RequireAuth(habit.Get))
	mux.HandleFunc("PUT /app/habits/{id}", middleware.RequireAuth(habit.Update))
	mux.HandleFunc("DELETE /app/habits/{id}", middleware.RequireAuth(habit.Delete))
	mux.HandleFunc("POST /app/habits/{id}/complete", middleware.RequireAuth(habit.Complete))
	mux.HandleFunc("GET /app/habits/{id}/analytics", middleware.RequireAuth(habit.Analytics))
	mux.HandleFunc("GET /app/habits/{id}/completions", middleware.RequireAuth(habit.Completions))
	mux.HandleFunc("POST /app/habits/{id}/reset", middleware.RequireAuth(habit.ResetHistory))
	mux.HandleFunc("GET /app/habits/{id}/reminders", middleware.RequireAuth(habit.Reminders))
	mux.HandleFunc("POST /app/habits/{id}/reminders", middleware.RequireAuth(habit.AddReminder))

	// Goals - whole-category reads and replace-all saves
	mux.HandleFunc("GET /app/goals", middleware.RequireAuth(goal.ByCategory))
	mux.HandleFunc("PUT /app/goals", middleware.RequireAuth(goal.Save))
	mux.HandleFunc("POST /app/goals/reset", middleware.RequireAuth(goal.ResetAll))

	// Notifications
	mux.HandleFunc("GET /app/notifications", middleware.RequireAuth(notification.List))
	mux.HandleFunc("POST /app/notifications", middleware.RequireAuth(notification.Create))
	mux.HandleFunc("POST /app/notifications/{id}/read", middleware.RequireAuth(notification.MarkRead))
	mux.HandleFunc("DELETE /app/notifications", middleware.RequireAuth(notification.Clear))

	// Files
	mux.HandleFunc("GET /app/files", middleware.RequireAuth(file.List))
	mux.HandleFunc("POST /app/files", middleware.RequireAuth(file.Upload))
	mux.HandleFunc("DELETE /app/files/{id}", middleware.RequireAuth(file.Delete))

	// Account (Security & Identity)
	mux.HandleFunc("GET /app/account", middleware.RequireAuth(account.Me))
	mux.HandleFunc("POST /app/account/password", middleware.RequireAuth(account.ChangePassword))
	mux.HandleFunc("DELETE /app/account", middleware.RequireAuth(account.DeleteAccount))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (needed downstream for Secure cookie flags)
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService),
	)

	return handler
}
