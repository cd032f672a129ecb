package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gpozzoni/tennis-academy-api/handlers"
	"github.com/gpozzoni/tennis-academy-api/middleware"
	"github.com/gpozzoni/tennis-academy-api/models"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes wires every handler into the router. Structure management
// and result recording are restricted to coaches and admins; reading is
// public so the academy site can embed brackets without a session.
func SetupRoutes(
	router *chi.Mux,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	participantHandler *handlers.ParticipantHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))
	staffOnly := middleware.Authorize(models.RoleCoach, models.RoleAdmin)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.Get)
		r.Get("/{tournamentID}/participants", participantHandler.List)
		r.Get("/{tournamentID}/matches", matchHandler.ListByTournament)
		r.Get("/{tournamentID}/standings", tournamentHandler.Standings)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{tournamentID}/participants", participantHandler.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", tournamentHandler.Create)
			r.Post("/{tournamentID}/generate", tournamentHandler.GenerateStructure)
			r.Post("/{tournamentID}/cancel", tournamentHandler.Cancel)
			r.Post("/{tournamentID}/poster", tournamentHandler.UploadPoster)
			r.Delete("/{tournamentID}/participants/{participantID}", participantHandler.Withdraw)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/{matchID}/result", matchHandler.RecordResult)
			r.Delete("/{matchID}/result", matchHandler.UnwindResult)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
