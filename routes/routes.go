package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/foosdev/foosball-tracker/handlers"
	"github.com/foosdev/foosball-tracker/middleware"
)

// SetupRoutes wires the full HTTP surface. Recording games and tournaments
// is open to the office; rewriting history (editing, deleting,
// recalculating) requires an admin token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	gameHandler *handlers.GameHandler,
	seasonHandler *handlers.SeasonHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	requireAdmin := middleware.RequireAdmin(jwtSecret)

	router.Post("/auth/login", authHandler.LoginHandler)

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListHandler)
		r.Post("/", playerHandler.CreateHandler)
		r.Get("/{playerID}", playerHandler.GetByIDHandler)
		r.Put("/{playerID}/avatar", playerHandler.UploadAvatarHandler)
		r.Get("/{playerID}/history", leaderboardHandler.PlayerHistoryHandler)
	})

	router.Route("/games", func(r chi.Router) {
		r.Get("/", gameHandler.ListHandler)
		r.Post("/", gameHandler.CreateHandler)
		r.Get("/{gameID}", gameHandler.GetByIDHandler)
		r.Get("/{gameID}/audit", gameHandler.AuditLogHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Put("/{gameID}", gameHandler.UpdateHandler)
			r.Delete("/{gameID}", gameHandler.DeleteHandler)
		})
	})

	router.Route("/seasons", func(r chi.Router) {
		r.Get("/", seasonHandler.ListHandler)
		r.Get("/current", seasonHandler.CurrentHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/recalculate", seasonHandler.RecalculateAllHandler)
			r.Post("/{seasonID}/recalculate", seasonHandler.RecalculateHandler)
		})
	})

	router.Get("/leaderboard", leaderboardHandler.SeasonLeaderboardHandler)
	router.Get("/leaderboard/all-time", leaderboardHandler.AllTimeLeaderboardHandler)
	router.Get("/cakes", leaderboardHandler.CakesHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Post("/", tournamentHandler.CreateHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Post("/{tournamentID}/matches/{matchID}/result", tournamentHandler.RecordMatchResultHandler)
	})

	router.Get("/ws/leaderboard", webSocketHandler.LeaderboardHandler)
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.TournamentHandler)

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
