package server_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/concordlabs/concord/internal/dtos/server_dto"
	app_error "github.com/concordlabs/concord/internal/errors"
	"github.com/concordlabs/concord/internal/handlers"
	"github.com/concordlabs/concord/internal/middleware"
	server_service "github.com/concordlabs/concord/internal/use-case/server-case"
	"github.com/concordlabs/concord/state"
)

type ServerHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  server_service.ServerServiceContract
}

func NewServerHandler(state *state.AppState) *ServerHandler {
	return &ServerHandler{
		State:    state,
		Validate: validator.New(),
		Service:  server_service.NewServerService(state),
	}
}

func (h *ServerHandler) CreateServer(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req server_dto.CreateServerRequest
	defer r.Body.Close()

	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.Validation("Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.Validation(fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.CreateServer(r.Context(), req, profile.ID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("server created", *resp, reqID))
	return nil
}

func (h *ServerHandler) UpdateServer(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req server_dto.UpdateServerRequest
	defer r.Body.Close()

	serverID := chi.URLParam(r, "serverId")

	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.Validation("Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.Validation(fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.UpdateServer(r.Context(), req, profile.ID, serverID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("server updated", *resp, reqID))
	return nil
}

func (h *ServerHandler) DeleteServer(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	serverID := chi.URLParam(r, "serverId")

	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	if err := h.Service.DeleteServer(r.Context(), profile.ID, serverID); err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("server deleted", "OK", reqID))
	return nil
}

func (h *ServerHandler) LeaveServer(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	serverID := chi.URLParam(r, "serverId")

	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	if err := h.Service.LeaveServer(r.Context(), profile.ID, serverID); err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("left server", "OK", reqID))
	return nil
}

func (h *ServerHandler) RegenerateInviteCode(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	serverID := chi.URLParam(r, "serverId")

	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	resp, err := h.Service.RegenerateInviteCode(r.Context(), profile.ID, serverID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("invite code regenerated", *resp, reqID))
	return nil
}

func (h *ServerHandler) JoinByInviteCode(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	inviteCode := chi.URLParam(r, "inviteCode")

	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	resp, err := h.Service.JoinByInviteCode(r.Context(), inviteCode, profile.ID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("joined server", *resp, reqID))
	return nil
}
