package routes

import (
	"github.com/courtside/tournament-engine/handlers"
	"github.com/courtside/tournament-engine/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Match      *handlers.MatchHandler
	Group      *handlers.GroupHandler
	Tournament *handlers.TournamentHandler
	WebSocket  *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, auth *middleware.Authenticator) *chi.Mux {
	router := chi.NewRouter()

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

	router.Post("/auth/login", h.Auth.LoginHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/{tournamentUUID}/overview", h.Tournament.OverviewHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Put("/{tournamentUUID}/groups", h.Group.SyncGroupsHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchUUID}/history", h.Match.ListHistoryHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Put("/{matchUUID}/score", h.Match.UpdateScoreHandler)
			r.Put("/{matchUUID}/next-round", h.Match.NextRoundHandler)
			r.Put("/{matchUUID}/status", h.Match.UpdateStatusHandler)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Put("/{teamUUID}/group", h.Group.UpdateTeamGroupHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentUUID}", h.WebSocket.ServeWs)

	return router
}
