package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/api/middleware"
	"github.com/splitbook/splitbook/internal/domain"
	"github.com/splitbook/splitbook/internal/service"
)

type InviteHandler struct {
	inviteService *service.InviteService
	authService   *service.AuthService
}

func NewInviteHandler(inviteService *service.InviteService, authService *service.AuthService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		authService:   authService,
	}
}

type CreateInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"`
}

// InviteResponse is the client-facing invite record. CanAccept is derived:
// pending and not yet expired.
type InviteResponse struct {
	ID           string     `json:"id"`
	GroupID      string     `json:"groupId"`
	GroupName    string     `json:"groupName,omitempty"`
	InviterName  string     `json:"inviterName,omitempty"`
	InviterEmail string     `json:"inviterEmail,omitempty"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	RespondedAt  *time.Time `json:"respondedAt,omitempty"`
	CanAccept    bool       `json:"canAccept"`
}

func inviteResponse(invite *domain.Invite) InviteResponse {
	resp := InviteResponse{
		ID:          invite.ID.String(),
		GroupID:     invite.GroupID.String(),
		Email:       invite.Email,
		Role:        string(invite.Role),
		Status:      string(invite.Status),
		ExpiresAt:   invite.ExpiresAt,
		RespondedAt: invite.RespondedAt,
		CanAccept:   invite.CanAccept(time.Now()),
	}
	if invite.Group != nil {
		resp.GroupName = invite.Group.Name
	}
	if invite.Inviter != nil {
		resp.InviterName = invite.Inviter.DisplayName
		resp.InviterEmail = invite.Inviter.Email
	}
	return resp
}

func inviteResponses(invites []*domain.Invite) []InviteResponse {
	resps := make([]InviteResponse, 0, len(invites))
	for _, invite := range invites {
		resps = append(resps, inviteResponse(invite))
	}
	return resps
}

func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid group id")
		return
	}

	var req CreateInviteRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	invite, err := h.inviteService.CreateInvite(r.Context(), groupID, userID, req.Email, domain.MemberRole(req.Role))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, inviteResponse(invite))
}

func (h *InviteHandler) ListForGroup(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid group id")
		return
	}

	invites, err := h.inviteService.ListGroupInvites(r.Context(), groupID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, inviteResponses(invites))
}

func (h *InviteHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	invites, err := h.inviteService.ListInvitesForUser(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, inviteResponses(invites))
}

func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.inviteService.Accept)
}

func (h *InviteHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.inviteService.Decline)
}

func (h *InviteHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	inviteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid invite id")
		return
	}

	if err := h.inviteService.Cancel(r.Context(), inviteID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type inviteAction func(ctx context.Context, inviteID uuid.UUID, actor *domain.User) (*domain.Invite, error)

func (h *InviteHandler) respond(w http.ResponseWriter, r *http.Request, action inviteAction) {
	userID, _ := middleware.GetUserID(r.Context())

	inviteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid invite id")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	invite, err := action(r.Context(), inviteID, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, inviteResponse(invite))
}
