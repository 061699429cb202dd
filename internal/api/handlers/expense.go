package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/api/middleware"
	"github.com/splitbook/splitbook/internal/domain"
	"github.com/splitbook/splitbook/internal/service"
)

type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

type ShareInputRequest struct {
	UserID     string  `json:"userId" validate:"required,uuid"`
	Amount     int64   `json:"amount"`
	Percentage float64 `json:"percentage"`
	Weight     int     `json:"weight"`
}

type CreateExpenseRequest struct {
	Description   string              `json:"description" validate:"required,max=200"`
	Amount        int64               `json:"amount" validate:"required,gt=0"`
	Currency      string              `json:"currency" validate:"omitempty,len=3"`
	Category      string              `json:"category" validate:"max=50"`
	SplitStrategy string              `json:"splitStrategy"`
	ExpenseDate   *time.Time          `json:"expenseDate"`
	PaidBy        string              `json:"paidBy" validate:"omitempty,uuid"`
	Participants  []ShareInputRequest `json:"participants" validate:"required,min=1,dive"`
}

type UpdatePaymentRequest struct {
	Status string     `json:"status" validate:"required,oneof=unpaid paid confirmed"`
	PaidAt *time.Time `json:"paidAt"`
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid group id")
		return
	}

	var req CreateExpenseRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	input := service.CreateExpenseInput{
		Description:   req.Description,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Category:      req.Category,
		SplitStrategy: domain.SplitStrategy(req.SplitStrategy),
	}
	if req.ExpenseDate != nil {
		input.ExpenseDate = *req.ExpenseDate
	}
	if req.PaidBy != "" {
		paidBy, err := uuid.Parse(req.PaidBy)
		if err != nil {
			writeBadRequest(w, "invalid payer id")
			return
		}
		input.PaidBy = paidBy
	}
	for _, p := range req.Participants {
		participantID, err := uuid.Parse(p.UserID)
		if err != nil {
			writeBadRequest(w, "invalid participant id")
			return
		}
		input.Participants = append(input.Participants, domain.ShareInput{
			UserID:     participantID,
			Amount:     p.Amount,
			Percentage: p.Percentage,
			Weight:     p.Weight,
		})
	}

	expense, err := h.expenseService.CreateExpense(r.Context(), groupID, userID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid group id")
		return
	}

	expenses, err := h.expenseService.ListExpenses(r.Context(), groupID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	expenseID, err := uuid.Parse(chi.URLParam(r, "expenseId"))
	if err != nil {
		writeBadRequest(w, "invalid expense id")
		return
	}

	expense, err := h.expenseService.GetExpense(r.Context(), expenseID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	expenseID, err := uuid.Parse(chi.URLParam(r, "expenseId"))
	if err != nil {
		writeBadRequest(w, "invalid expense id")
		return
	}
	memberID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		writeBadRequest(w, "invalid member id")
		return
	}

	var req UpdatePaymentRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	expense, err := h.expenseService.UpdatePaymentStatus(
		r.Context(), expenseID, userID, memberID, domain.PaymentStatus(req.Status), req.PaidAt)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	expenseID, err := uuid.Parse(chi.URLParam(r, "expenseId"))
	if err != nil {
		writeBadRequest(w, "invalid expense id")
		return
	}

	if err := h.expenseService.DeleteExpense(r.Context(), expenseID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
