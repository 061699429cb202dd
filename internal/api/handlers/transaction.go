package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/api/middleware"
	"github.com/splitbook/splitbook/internal/domain"
	"github.com/splitbook/splitbook/internal/repository"
	"github.com/splitbook/splitbook/internal/service"
)

type TransactionHandler struct {
	txService *service.TransactionService
}

func NewTransactionHandler(txService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txService: txService}
}

type TransactionRequest struct {
	Type        string     `json:"type" validate:"omitempty,oneof=income expense"`
	Amount      int64      `json:"amount"`
	Currency    string     `json:"currency" validate:"omitempty,len=3"`
	Category    string     `json:"category" validate:"max=50"`
	Description string     `json:"description" validate:"max=200"`
	OccurredAt  *time.Time `json:"occurredAt"`
}

func (req *TransactionRequest) toInput() service.TransactionInput {
	input := service.TransactionInput{
		Type:        domain.TransactionType(req.Type),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.OccurredAt != nil {
		input.OccurredAt = *req.OccurredAt
	}
	return input
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req TransactionRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	tx, err := h.txService.Create(r.Context(), userID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	filter := repository.TransactionFilter{
		Type:     domain.TransactionType(r.URL.Query().Get("type")),
		Category: r.URL.Query().Get("category"),
	}
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = t
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	txs, err := h.txService.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, txs)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	txID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid transaction id")
		return
	}

	tx, err := h.txService.Get(r.Context(), txID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	txID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid transaction id")
		return
	}

	var req TransactionRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	tx, err := h.txService.Update(r.Context(), txID, userID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	txID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid transaction id")
		return
	}

	if err := h.txService.Delete(r.Context(), txID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
