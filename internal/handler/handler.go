package handler

import (
	"context"
	"net/http"

	"sweetshop/backend/internal/identity"
	"sweetshop/backend/internal/inventory"
	"sweetshop/backend/internal/model"
	"sweetshop/backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// IdentityProvider is the slice of the hosted auth client the handlers use.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, fullName string) (identity.Session, error)
	SignIn(ctx context.Context, email, password string) (identity.Session, error)
	ResolveToken(ctx context.Context, token string) (string, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (model.Profile, error)
	InsertProfile(ctx context.Context, p model.Profile) error
}

type Handler struct {
	router   *chi.Mux
	svc      *service.InventoryService
	identity IdentityProvider
	profiles ProfileStore
	logger   zerolog.Logger
}

func NewHandler(svc *service.InventoryService, idp IdentityProvider, profiles ProfileStore, logger zerolog.Logger) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	h := &Handler{
		router:   router,
		svc:      svc,
		identity: idp,
		profiles: profiles,
		logger:   logger,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Get("/health", h.HealthCheck)

	h.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		r.Route("/sweets", func(r chi.Router) {
			r.Use(h.authenticate)
			r.Get("/", h.require(inventory.OpListSweets, h.ListSweets))
			r.Get("/search", h.require(inventory.OpSearchSweets, h.SearchSweets))
			r.Post("/", h.require(inventory.OpCreateSweet, h.CreateSweet))
			r.Put("/{id}", h.require(inventory.OpUpdateSweet, h.UpdateSweet))
			r.Delete("/{id}", h.require(inventory.OpDeleteSweet, h.DeleteSweet))
			r.Post("/{id}/purchase", h.require(inventory.OpPurchase, h.PurchaseSweet))
			r.Post("/{id}/restock", h.require(inventory.OpRestock, h.RestockSweet))
		})
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
