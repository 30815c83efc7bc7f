package routes

import (
	"github.com/courtline/scoring-system/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	matchHandler *handlers.MatchHandler,
	playerHandler *handlers.PlayerHandler,
	summaryHandler *handlers.SummaryHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/games", func(r chi.Router) {
		r.Post("/", matchHandler.CreateHandler)
		r.Get("/", matchHandler.ListHandler)

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", matchHandler.GetByIDHandler)

			// State machine transitions
			r.Post("/points", matchHandler.RecordPointHandler)
			r.Post("/set-end", matchHandler.EndSetHandler)
			r.Post("/undo", matchHandler.UndoHandler)
			r.Patch("/end", matchHandler.EndMatchHandler)

			// Manual scorer corrections
			r.Patch("/score", matchHandler.UpdateScoreHandler)
			r.Patch("/sets", matchHandler.UpdateSetsHandler)

			// Read side
			r.Get("/summary", summaryHandler.GetSummaryHandler)
			r.Get("/export/sets", summaryHandler.ExportSetsHandler)
			r.Get("/export/stats", summaryHandler.ExportStatsHandler)

			// Roster
			r.Get("/players", playerHandler.ListByGameHandler)
			r.Post("/players/import", playerHandler.ImportRosterHandler)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Post("/", playerHandler.CreateHandler)
		r.Patch("/stats", playerHandler.UpdateStatsHandler)
		r.Delete("/{playerID}", playerHandler.DeleteHandler)
	})

	router.Get("/ws/games/{gameID}", webSocketHandler.ServeWs)
}
