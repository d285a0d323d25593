package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zaiko-app/zaiko/internal/core/service"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth        *service.AuthService
	Tenants     *service.TenantService
	Items       *service.ItemService
	Inventory   *service.InventoryService
	Coordinator *service.Coordinator
	Suppliers   *service.SupplierDirectory
}

// NewRouter wires the REST surface. Auth-only routes carry the
// principal; tenant routes additionally resolve the active team from
// the X-Team-ID hint or the default membership.
func NewRouter(s Services) http.Handler {
	auth := NewAuthHandler(s.Auth)
	teams := NewTeamHandler(s.Tenants)
	items := NewItemHandler(s.Items)
	inventory := NewInventoryHandler(s.Inventory)
	transactions := NewTransactionHandler(s.Coordinator)
	suppliers := NewSupplierHandler(s.Suppliers)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/auth/register", auth.Register)
	r.Post("/api/auth/login", auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(s.Auth))

		r.Get("/api/auth/me", auth.Me)
		r.Post("/api/teams", teams.Create)
		r.Get("/api/teams/my", teams.My)
		r.Post("/api/teams/{team_id}/join", teams.Join)

		r.Group(func(r chi.Router) {
			r.Use(ResolveTenant(s.Tenants))

			r.Get("/inventory", inventory.List)
			r.Get("/inventory/{item_code}", inventory.Get)

			r.Get("/item", items.List)
			r.Get("/item/{item_code}", items.Get)
			r.Post("/item", items.Create)
			r.Put("/item/{item_code}", items.Update)
			r.Delete("/item/{item_code}", items.Delete)

			r.Post("/transaction", transactions.Apply)
			r.Put("/transaction", transactions.Amend)
			r.Delete("/transaction/{id}", transactions.Retract)
			r.Get("/transaction", inventory.Transactions)
			r.Get("/transaction/id/{id}", inventory.Transaction)
			r.Get("/transaction/item/{item_code}", inventory.TransactionsByItem)
			r.Get("/transaction/supplier/{supplier_code}", inventory.TransactionsBySupplier)
			r.Get("/transaction/supplier/{supplier_code}/item/{item_code}", inventory.TransactionsBySupplier)

			r.Get("/supplier", suppliers.List)
			r.Get("/supplier/{supplier_code}", suppliers.Get)
		})
	})

	return r
}
