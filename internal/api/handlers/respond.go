package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/splitbook/splitbook/internal/domain"
	"github.com/splitbook/splitbook/internal/service"
)

var validate = validator.New()

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service and domain errors onto the HTTP error taxonomy:
// validation 400, not found 404, forbidden 403, unauthenticated 401,
// conflict 409, everything else a generic 500 with the detail logged only.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionInvalid),
		errors.Is(err, service.ErrRefreshTokenInvalid),
		errors.Is(err, service.ErrUserDisabled):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrNotGroupCreator),
		errors.Is(err, service.ErrInviteForbidden),
		errors.Is(err, service.ErrNotExpenseOwner),
		errors.Is(err, domain.ErrCreatorImmutable):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrExpenseNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrGoalNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrDuplicateInvite),
		errors.Is(err, service.ErrGoalLimitReached),
		errors.Is(err, domain.ErrAlreadyMember):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrInviteNotActionable),
		errors.Is(err, service.ErrMemberNotInGroup),
		errors.Is(err, service.ErrMemberNotInSplit),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidTransaction),
		errors.Is(err, domain.ErrInvalidSplit),
		errors.Is(err, domain.ErrSplitMismatch),
		errors.Is(err, domain.ErrLastAdminRemoval):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	default:
		slog.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeValid decodes a JSON body and runs struct validation on it.
func decodeValid(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
