package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/api/middleware"
	"github.com/splitbook/splitbook/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

type GoalRequest struct {
	Name         string     `json:"name" validate:"omitempty,max=100"`
	TargetAmount int64      `json:"targetAmount"`
	Currency     string     `json:"currency" validate:"omitempty,len=3"`
	Deadline     *time.Time `json:"deadline"`
}

type GoalProgressRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req GoalRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	goal, err := h.goalService.Create(r.Context(), userID, service.GoalInput{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Currency:     req.Currency,
		Deadline:     req.Deadline,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	goals, err := h.goalService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	goalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid goal id")
		return
	}

	goal, err := h.goalService.Get(r.Context(), goalID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	goalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid goal id")
		return
	}

	var req GoalRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	goal, err := h.goalService.Update(r.Context(), goalID, userID, service.GoalInput{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Currency:     req.Currency,
		Deadline:     req.Deadline,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) AddProgress(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	goalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid goal id")
		return
	}

	var req GoalProgressRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	goal, err := h.goalService.AddProgress(r.Context(), goalID, userID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	goalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid goal id")
		return
	}

	if err := h.goalService.Delete(r.Context(), goalID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
