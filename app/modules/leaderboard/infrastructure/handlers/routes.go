package leaderboardhandlers

import (
	"github.com/go-chi/chi/v5"
)

// BasePath is where the leaderboard API is mounted.
const BasePath = "/api/leaderboard"

// RegisterRoutes mounts the leaderboard API on r. Only refresh is rate limited
// since it is the one route that reaches ESPN.
func RegisterRoutes(r chi.Router, h Handlers, limiter *IPRateLimiter) {
	r.Route(BasePath, func(r chi.Router) {
		r.Get("/", h.HandleGetLeaderboard)
		r.Get("/chart.png", h.HandleChart)
		r.Get("/export.xlsx", h.HandleExport)
		r.Get("/frame.png", h.HandleFrame)

		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(RateLimitMiddleware(limiter))
			}
			r.Post("/refresh", h.HandleRefresh)
		})
	})
}
