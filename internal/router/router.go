package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"agri-assist-api/internal/config"
	"agri-assist-api/internal/handler"
	"agri-assist-api/internal/middleware"
)

// Handlers bundles every handler the router mounts, so app wiring stays
// one struct literal instead of a dozen positional arguments.
type Handlers struct {
	Auth          *handler.AuthHandler
	Prices        *handler.PricesHandler
	Marketplace   *handler.MarketplaceHandler
	Superuser     *handler.SuperuserHandler
	Certification *handler.CertificationHandler
	Insight       *handler.InsightHandler
	Weather       *handler.WeatherHandler
	Advisor       *handler.AdvisorHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
			// Bootstrap routes gated by the admin secret, not a token.
			auth.Post("/set-role", h.Auth.SetRole)
			auth.Post("/su-login", h.Auth.SuLogin)
		})

		api.Route("/marketplace", func(market chi.Router) {
			market.Get("/", h.Marketplace.List)
			market.Get("/{id}", h.Marketplace.Get)
			market.With(authMiddleware.RequireAuth).Post("/", h.Marketplace.Create)
			market.With(authMiddleware.RequireAuth).Delete("/{id}", h.Marketplace.Delete)
		})

		api.Route("/superuser", func(su chi.Router) {
			su.Use(authMiddleware.RequireAuth, authMiddleware.RequireSuperuser)
			su.Post("/verify-crop/{id}", h.Superuser.VerifyListing)
			su.Delete("/delete-crop/{id}", h.Superuser.DeleteListing)
			su.Get("/equipment-requests", h.Superuser.ListEquipmentRequests)
			su.Post("/verify-equipment/{id}", h.Superuser.VerifyEquipment)
			su.Delete("/delete-equipment/{id}", h.Superuser.DeleteEquipment)
		})

		api.With(authMiddleware.RequireAuth).Post("/certification/equipment-requests", h.Certification.CreateEquipmentRequest)

		api.Post("/crop-prices", h.Prices.GetPrices)
		api.Get("/crop-prices/popular", h.Prices.PopularCrops)

		api.Get("/weather/forecast", h.Weather.Forecast)
		api.Post("/satellite-insight", h.Insight.Insight)

		api.Post("/chatbot", h.Advisor.Chat)
		api.Get("/tips", h.Advisor.Tips)
		api.Post("/crop-recommend", h.Advisor.CropRecommendation)
	})

	return r
}
