package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/saulo-duarte/swayami/internal/goal"
	"github.com/saulo-duarte/swayami/internal/journal"
	"github.com/saulo-duarte/swayami/internal/suggest"
	"github.com/saulo-duarte/swayami/internal/task"
)

type Handler struct {
	store    *Store
	sessions SessionWaiter
	oauth    OAuthSettings
}

func NewHandler(store *Store, sessions SessionWaiter, oauth OAuthSettings) *Handler {
	return &Handler{store: store, sessions: sessions, oauth: oauth}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := config.WithContext(r.Context())

	switch {
	case errors.Is(err, ErrNotAuthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrGoalNotFound), errors.Is(err, goal.ErrGoalNotFound), errors.Is(err, task.ErrTaskNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, task.ErrInvalidStatus), errors.Is(err, journal.ErrInvalidMood):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.WithError(err).Error("Request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// RequireUser answers 401 until someone is signed in.
func (h *Handler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.store.CurrentUser() == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) ReloadData(w http.ResponseWriter, r *http.Request) {
	if err := h.store.LoadUserData(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) ResetData(w http.ResponseWriter, r *http.Request) {
	h.store.ResetAllData()
	config.JSON(w, http.StatusOK, map[string]string{"message": "local data cleared"})
}

func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Goals []OnboardingGoal `json:"goals"`
	}
	if !decode(w, r, &payload) {
		return
	}
	if len(payload.Goals) == 0 {
		http.Error(w, "at least one goal is required", http.StatusBadRequest)
		return
	}

	goals, err := h.store.CompleteOnboarding(r.Context(), payload.Goals)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, map[string]interface{}{"goals": goals})
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var dto task.CreateTaskDTO
	if !decode(w, r, &dto) {
		return
	}
	if dto.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	t, err := h.store.AddTask(r.Context(), dto)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, t)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var dto task.UpdateTaskDTO
	if !decode(w, r, &dto) {
		return
	}
	if dto.Status != nil && !dto.Status.IsValid() {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	t, err := h.store.EditTask(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if t == nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.ToggleTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if t == nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) TaskStats(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, h.store.TaskStats())
}

func (h *Handler) CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var dto journal.CreateEntryDTO
	if !decode(w, r, &dto) {
		return
	}
	if dto.Content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	e, err := h.store.AddJournalEntry(r.Context(), dto)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, e)
}

func (h *Handler) UpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var dto journal.UpdateEntryDTO
	if !decode(w, r, &dto) {
		return
	}
	h.store.UpdateJournalEntry(r.Context(), chi.URLParam(r, "id"), dto)
	config.JSON(w, http.StatusAccepted, map[string]string{"message": "journal entry updates are not supported yet"})
}

func (h *Handler) AnalyzeJournal(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}
	if !decode(w, r, &payload) {
		return
	}
	config.JSON(w, http.StatusOK, h.store.AnalyzeJournal(r.Context(), payload.Content))
}

func (h *Handler) ToggleHabit(w http.ResponseWriter, r *http.Request) {
	if !h.store.ToggleHabit(chi.URLParam(r, "id")) {
		http.Error(w, "habit not found", http.StatusNotFound)
		return
	}
	config.JSON(w, http.StatusOK, h.store.Snapshot().Habits)
}

func (h *Handler) GenerateSuggestions(w http.ResponseWriter, r *http.Request) {
	gen, err := h.store.GenerateTaskSuggestions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, gen)
}

func (h *Handler) AcceptSuggestions(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Tasks []suggest.TaskSuggestion `json:"tasks"`
	}
	if !decode(w, r, &payload) {
		return
	}

	tasks, err := h.store.AcceptSuggestions(r.Context(), chi.URLParam(r, "id"), payload.Tasks)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, map[string]interface{}{"tasks": tasks})
}

func (h *Handler) UpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Progress *int `json:"progress"`
	}
	if !decode(w, r, &payload) {
		return
	}
	if payload.Progress == nil {
		http.Error(w, "progress is required", http.StatusBadRequest)
		return
	}

	g, err := h.store.UpdateGoalProgress(r.Context(), chi.URLParam(r, "id"), *payload.Progress)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, g)
}

func (h *Handler) Motivation(w http.ResponseWriter, r *http.Request) {
	msg, err := h.store.MotivationalMessage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (h *Handler) RefreshProfile(w http.ResponseWriter, r *http.Request) {
	res := h.store.RefreshProfile(r.Context())
	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	config.JSON(w, status, res)
}
