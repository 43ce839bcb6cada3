package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"draftday/handlers"
	"draftday/middleware"
)

// SetupRoutes wires the full HTTP surface. Read endpoints are public (the
// shareable event code is the only thing a player needs); mutation endpoints
// other than full-record writes and match reports require a host token.
func SetupRoutes(
	router *chi.Mux,
	eventHandler *handlers.EventHandler,
	matchHandler *handlers.MatchHandler,
	authHandler *handlers.AuthHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret []byte,
	allowedOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/verify-password", authHandler.VerifyPasswordHandler)

	router.Route("/event", func(r chi.Router) {
		r.Post("/", eventHandler.CreateEventHandler)
		r.Get("/code/{code}", eventHandler.GetEventByCodeHandler)

		r.Route("/{eventID}", func(r chi.Router) {
			r.Get("/", eventHandler.GetEventHandler)
			r.Put("/", eventHandler.ReplaceEventHandler)

			r.Get("/stage", eventHandler.GetStageHandler)
			r.Get("/standings", eventHandler.StandingsHandler)
			r.Get("/match/{matchID}", matchHandler.GetMatchHandler)
			r.Put("/match/{matchID}", matchHandler.ReportResultHandler)

			// Admin controls: every endpoint below is one controller
			// operation behind a host token.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireHost(jwtSecret))

				r.Put("/code", eventHandler.ChangeEventCodeHandler)

				r.Post("/players", eventHandler.AddPlayerHandler)
				r.Post("/players/shuffle", eventHandler.ShufflePlayersHandler)
				r.Patch("/players/{playerID}", eventHandler.RenamePlayerHandler)
				r.Delete("/players/{playerID}", eventHandler.RemovePlayerHandler)

				r.Post("/start", eventHandler.StartEventHandler)
				r.Post("/phase", eventHandler.AdvanceToPhaseHandler)
				r.Post("/stage", eventHandler.SyncToStageHandler)

				r.Post("/draft/next-pack", eventHandler.DraftNextPackHandler)
				r.Post("/draft/complete", eventHandler.DraftCompleteHandler)
				r.Post("/draft/log", eventHandler.DraftLogHandler)

				r.Post("/timer/adjust", eventHandler.TimerAdjustHandler)
				r.Post("/timer/{action}", eventHandler.TimerActionHandler)

				r.Post("/deckbuilding/complete", eventHandler.DeckbuildingCompleteHandler(true))
				r.Post("/deckbuilding/incomplete", eventHandler.DeckbuildingCompleteHandler(false))

				r.Post("/rounds/{roundNumber}/pairings", eventHandler.GeneratePairingsHandler)
				r.Post("/rounds/finalize", eventHandler.FinalizeRoundHandler)
				r.Put("/rounds/match/{matchID}", eventHandler.SetMatchResultHandler)
			})
		})
	})

	router.Get("/ws/event/{eventID}", webSocketHandler.ServeWs)
}
