package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/api/middleware"
	"github.com/splitbook/splitbook/internal/domain"
	"github.com/splitbook/splitbook/internal/service"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type CreateGroupRequest struct {
	Name                 string `json:"name" validate:"required,max=100"`
	Description          string `json:"description" validate:"max=500"`
	Currency             string `json:"currency" validate:"omitempty,len=3"`
	DefaultSplitStrategy string `json:"defaultSplitStrategy"`
}

type UpdateGroupRequest struct {
	Name                 string `json:"name" validate:"omitempty,max=100"`
	Description          string `json:"description" validate:"max=500"`
	Currency             string `json:"currency" validate:"omitempty,len=3"`
	DefaultSplitStrategy string `json:"defaultSplitStrategy"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Role   string `json:"role"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req CreateGroupRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	group, err := h.groupService.CreateGroup(r.Context(), userID, service.CreateGroupInput{
		Name:                 req.Name,
		Description:          req.Description,
		Currency:             req.Currency,
		DefaultSplitStrategy: domain.SplitStrategy(req.DefaultSplitStrategy),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	groups, err := h.groupService.ListGroups(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid group id")
		return
	}

	group, err := h.groupService.GetGroup(r.Context(), groupID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid group id")
		return
	}

	var req UpdateGroupRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	group, err := h.groupService.UpdateGroup(r.Context(), groupID, userID, service.UpdateGroupInput{
		Name:                 req.Name,
		Description:          req.Description,
		Currency:             req.Currency,
		DefaultSplitStrategy: domain.SplitStrategy(req.DefaultSplitStrategy),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid group id")
		return
	}

	if err := h.groupService.DeleteGroup(r.Context(), groupID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid group id")
		return
	}

	var req AddMemberRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	memberID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	member, err := h.groupService.AddMember(r.Context(), groupID, actorID, memberID, domain.MemberRole(req.Role))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid group id")
		return
	}
	memberID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	if err := h.groupService.RemoveMember(r.Context(), groupID, actorID, memberID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *GroupHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid group id")
		return
	}
	memberID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	var req UpdateRoleRequest
	if err := decodeValid(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	member, err := h.groupService.UpdateMemberRole(r.Context(), groupID, actorID, memberID, domain.MemberRole(req.Role))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, member)
}
