package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/splitbook/splitbook/internal/api/handlers"
	"github.com/splitbook/splitbook/internal/api/middleware"
	"github.com/splitbook/splitbook/internal/service"
)

func NewRouter(services *service.Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS())

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	groupHandler := handlers.NewGroupHandler(services.Group)
	inviteHandler := handlers.NewInviteHandler(services.Invite, services.Auth)
	expenseHandler := handlers.NewExpenseHandler(services.Expense)
	transactionHandler := handlers.NewTransactionHandler(services.Transaction)
	goalHandler := handlers.NewGoalHandler(services.Goal)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
				r.Post("/logout-all", authHandler.LogoutAll)
				r.Get("/sessions", authHandler.ListSessions)
				r.Delete("/sessions/{id}", authHandler.RevokeSession)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", transactionHandler.Create)
				r.Get("/", transactionHandler.List)
				r.Get("/{id}", transactionHandler.Get)
				r.Put("/{id}", transactionHandler.Update)
				r.Delete("/{id}", transactionHandler.Delete)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Post("/", goalHandler.Create)
				r.Get("/", goalHandler.List)
				r.Get("/{id}", goalHandler.Get)
				r.Put("/{id}", goalHandler.Update)
				r.Post("/{id}/progress", goalHandler.AddProgress)
				r.Delete("/{id}", goalHandler.Delete)
			})

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", groupHandler.Create)
				r.Get("/", groupHandler.List)
				r.Get("/{id}", groupHandler.Get)
				r.Put("/{id}", groupHandler.Update)
				r.Delete("/{id}", groupHandler.Delete)

				// Membership
				r.Post("/{id}/members", groupHandler.AddMember)
				r.Delete("/{id}/members/{userId}", groupHandler.RemoveMember)
				r.Put("/{id}/members/{userId}/role", groupHandler.UpdateMemberRole)

				// Invites scoped to a group
				r.Post("/{id}/invites", inviteHandler.Create)
				r.Get("/{id}/invites", inviteHandler.ListForGroup)

				// Expenses
				r.Post("/{id}/expenses", expenseHandler.Create)
				r.Get("/{id}/expenses", expenseHandler.List)
				r.Get("/{id}/expenses/{expenseId}", expenseHandler.Get)
				r.Delete("/{id}/expenses/{expenseId}", expenseHandler.Delete)
				r.Put("/{id}/expenses/{expenseId}/payments/{userId}", expenseHandler.UpdatePayment)
			})

			// Invites addressed to the current user
			r.Route("/invites", func(r chi.Router) {
				r.Get("/", inviteHandler.ListMine)
				r.Post("/{id}/accept", inviteHandler.Accept)
				r.Post("/{id}/decline", inviteHandler.Decline)
				r.Delete("/{id}", inviteHandler.Cancel)
			})
		})
	})

	return r
}
