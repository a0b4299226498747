package app

import (
	"github.com/go-chi/chi/v5"
)

func AuthRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/login", h.Login)
	r.Get("/callback", h.Callback)
	r.Post("/logout", h.Logout)

	return r
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/state", h.GetState)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireUser)

		r.Post("/onboarding", h.CompleteOnboarding)

		r.Post("/data/reload", h.ReloadData)
		r.Delete("/data", h.ResetData)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", h.CreateTask)
			r.Get("/stats", h.TaskStats)
			r.Patch("/{id}", h.UpdateTask)
			r.Delete("/{id}", h.DeleteTask)
			r.Post("/{id}/toggle", h.ToggleTask)
		})

		r.Route("/journal", func(r chi.Router) {
			r.Post("/", h.CreateJournalEntry)
			r.Post("/analyze", h.AnalyzeJournal)
			r.Patch("/{id}", h.UpdateJournalEntry)
		})

		r.Post("/habits/{id}/toggle", h.ToggleHabit)

		r.Route("/goals/{id}", func(r chi.Router) {
			r.Post("/suggestions", h.GenerateSuggestions)
			r.Post("/tasks", h.AcceptSuggestions)
			r.Put("/progress", h.UpdateGoalProgress)
			r.Get("/motivation", h.Motivation)
		})

		r.Post("/profile/refresh", h.RefreshProfile)
	})

	return r
}
