package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/courtside/pickleball-system/handlers"
	"github.com/courtside/pickleball-system/middleware"
)

// SetupRoutes mounts all HTTP routes on the router. Reads are public;
// every mutation requires an authenticated admin.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	participantHandler *handlers.ParticipantHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	optionalAuth := middleware.OptionalAuthenticate(jwtSecret)

	router.Post("/auth/register", authHandler.RegisterHandler)
	router.Post("/auth/login", authHandler.LoginHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.With(optionalAuth).Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/rounds", tournamentHandler.ListRoundsHandler)
		r.Get("/{tournamentID}/standings", tournamentHandler.StandingsHandler)
		r.Get("/{tournamentID}/standings/groups", tournamentHandler.GroupStandingsHandler)
		r.Get("/{tournamentID}/participants", participantHandler.ListHandler)
		r.Get("/{tournamentID}/matches", matchHandler.ListHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)

			r.Post("/", tournamentHandler.CreateHandler)
			r.Patch("/{tournamentID}", tournamentHandler.UpdateHandler)
			r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)
			r.Put("/{tournamentID}/banner", tournamentHandler.UploadBannerHandler)

			r.Post("/{tournamentID}/fixtures", tournamentHandler.GenerateFixturesHandler)

			r.Post("/{tournamentID}/participants", participantHandler.CreateHandler)
			r.Post("/{tournamentID}/participants/import", participantHandler.ImportCSVHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)

			r.Put("/{matchID}/score", matchHandler.UpdateScoreHandler)
			r.Post("/{matchID}/complete", matchHandler.CompleteHandler)
			r.Post("/{matchID}/cancel", matchHandler.CancelHandler)
			r.Post("/{matchID}/reactivate", matchHandler.ReactivateHandler)
			r.Delete("/{matchID}", matchHandler.DeleteHandler)
		})
	})

	router.Route("/participants", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireAdmin)

		r.Delete("/{participantID}", participantHandler.DeleteHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
