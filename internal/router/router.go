package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/city-explorer-api/docs"
	"github.com/FACorreiaa/city-explorer-api/internal/api/city"
	"github.com/FACorreiaa/city-explorer-api/internal/api/favorites"
	"github.com/FACorreiaa/city-explorer-api/internal/api/places"
	"github.com/FACorreiaa/city-explorer-api/internal/api/plan"
	"github.com/FACorreiaa/city-explorer-api/internal/api/recents"
)

// Config contains dependencies needed for the router setup
type Config struct {
	PlacesHandler    *places.Handler
	CityHandler      *city.Handler
	FavoritesHandler *favorites.Handler
	PlanHandler      *plan.Handler
	RecentsHandler   *recents.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000", "capacitor://localhost"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/places/categories", cfg.PlacesHandler.GetCategories)
		r.Get("/places/search", cfg.PlacesHandler.SearchArea)
		r.Get("/places/{osmType}/{osmID}", cfg.PlacesHandler.GetPlace)

		r.Get("/cities/search", cfg.CityHandler.SearchCities)
		r.Get("/cities/reverse", cfg.CityHandler.ReverseCity)

		r.Get("/favorites", cfg.FavoritesHandler.ListFavorites)
		r.Post("/favorites", cfg.FavoritesHandler.AddFavorite)
		r.Delete("/favorites/{placeID}", cfg.FavoritesHandler.RemoveFavorite)

		r.Get("/plan", cfg.PlanHandler.GetPlan)
		r.Post("/plan/items", cfg.PlanHandler.AddItem)
		r.Delete("/plan/items/{itemID}", cfg.PlanHandler.RemoveItem)
		r.Patch("/plan/items/{itemID}/move", cfg.PlanHandler.MoveItem)

		r.Get("/recents/cities", cfg.RecentsHandler.ListRecentCities)
		r.Post("/recents/cities", cfg.RecentsHandler.RecordCity)
	})

	return r
}
