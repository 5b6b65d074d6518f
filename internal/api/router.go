package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/adverra/backoffice/internal/analytics"
	"github.com/adverra/backoffice/internal/api/handler"
	"github.com/adverra/backoffice/internal/api/middleware"
	"github.com/adverra/backoffice/internal/auth"
	"github.com/adverra/backoffice/internal/client"
	"github.com/adverra/backoffice/internal/lead"
	"github.com/adverra/backoffice/internal/payment"
	"github.com/adverra/backoffice/internal/production"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	AuthService    *auth.Service
	UserRepo       auth.UserRepository
	LeadRepo       lead.Repository
	NoteRepo       lead.NoteRepository
	ClientRepo     client.Repository
	ProductionRepo production.Repository
	PaymentRepo    payment.Repository
	AnalyticsRepo  analytics.Repository
	DBPinger       handler.DBPinger
	CachePinger    handler.CachePinger
	Version        string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
// Lead submission is public (it backs the marketing-site contact form);
// everything else requires an API key.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.CachePinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	leadHandler := handler.NewLeadHandler(deps.LeadRepo)
	r.Post("/leads", leadHandler.Submit)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.AuthService))

		noteHandler := handler.NewNoteHandler(deps.NoteRepo)
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", leadHandler.List)
			r.Get("/{id}", leadHandler.GetByID)
			r.Patch("/{id}/status", leadHandler.UpdateStatus)
			r.Post("/{id}/notes", noteHandler.Create)
			r.Get("/{id}/notes", noteHandler.List)
		})
		r.Patch("/notes/{id}", noteHandler.Update)
		r.Delete("/notes/{id}", noteHandler.Delete)

		userHandler := handler.NewUserHandler(deps.AuthService, deps.UserRepo)
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.List)
			r.Delete("/{id}", userHandler.Revoke)
		})

		clientHandler := handler.NewClientHandler(deps.ClientRepo)
		productionHandler := handler.NewProductionHandler(deps.ProductionRepo)
		paymentHandler := handler.NewPaymentHandler(deps.PaymentRepo)
		analyticsHandler := handler.NewAnalyticsHandler(deps.AnalyticsRepo)

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", clientHandler.Create)
			r.Get("/", clientHandler.List)
			r.Get("/{id}", clientHandler.GetByID)
			r.Patch("/{id}", clientHandler.Update)
			r.Delete("/{id}", clientHandler.Delete)

			r.Put("/{id}/team", clientHandler.SetTeam)
			r.Get("/{id}/team", clientHandler.GetTeam)

			r.Post("/{id}/scripts", productionHandler.CreateScript)
			r.Get("/{id}/scripts", productionHandler.ListScripts)
			r.Post("/{id}/shoots", productionHandler.CreateShoot)
			r.Get("/{id}/shoots", productionHandler.ListShoots)
			r.Post("/{id}/edits", productionHandler.CreateEdit)
			r.Get("/{id}/edits", productionHandler.ListEdits)
			r.Post("/{id}/publishes", productionHandler.CreatePublish)
			r.Get("/{id}/publishes", productionHandler.ListPublishes)

			r.Post("/{id}/payments", paymentHandler.Create)
			r.Get("/{id}/payments", paymentHandler.List)

			r.Put("/{id}/analytics", analyticsHandler.Upsert)
			r.Get("/{id}/analytics", analyticsHandler.List)
			r.Get("/{id}/analytics/summary", analyticsHandler.Summary)
		})

		r.Patch("/scripts/{id}", productionHandler.UpdateScript)
		r.Delete("/scripts/{id}", productionHandler.DeleteScript)
		r.Patch("/shoots/{id}", productionHandler.UpdateShoot)
		r.Delete("/shoots/{id}", productionHandler.DeleteShoot)
		r.Patch("/edits/{id}", productionHandler.UpdateEdit)
		r.Delete("/edits/{id}", productionHandler.DeleteEdit)
		r.Delete("/publishes/{id}", productionHandler.DeletePublish)

		r.Patch("/payments/{id}", paymentHandler.Update)
		r.Delete("/payments/{id}", paymentHandler.Delete)
	})

	return r
}
