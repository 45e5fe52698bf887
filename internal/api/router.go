package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promokit/bogo-promo-service/internal/api/handlers"
	"github.com/promokit/bogo-promo-service/internal/config"
	"github.com/promokit/bogo-promo-service/internal/service"
)

// NewRouter builds the HTTP router for the bogo-service
func NewRouter(svc *service.PromoService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	cartHandler := handlers.NewCartHandler(svc)
	promoHandler := handlers.NewPromoHandler(svc, cfg)
	rulesHandler := handlers.NewRulesHandler(svc)

	// Customer cart endpoints
	r.Route("/cart", func(r chi.Router) {
		r.Post("/", cartHandler.CreateCart)
		r.Get("/{session}", cartHandler.GetCart)
		r.Post("/{session}/items", cartHandler.AddItem)
		r.Put("/{session}/items/{line}", cartHandler.UpdateItem)
		r.Delete("/{session}/items/{line}", cartHandler.RemoveItem)
	})

	// Promo endpoints
	r.Route("/promo", func(r chi.Router) {
		r.Post("/grab", promoHandler.GrabOffer)
		r.Get("/hint", promoHandler.Hint)
	})

	// Admin endpoints
	r.Route("/admin", func(r chi.Router) {
		r.Get("/rules", rulesHandler.List)
		r.Post("/rules", rulesHandler.Create)
		r.Put("/rules/{index}", rulesHandler.Update)
		r.Delete("/rules/{index}", rulesHandler.Delete)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
