package server_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/concordlabs/concord/internal/dtos/server_dto"
	app_error "github.com/concordlabs/concord/internal/errors"
	"github.com/concordlabs/concord/internal/handlers"
	"github.com/concordlabs/concord/internal/middleware"
)

func (h *ServerHandler) CreateChannel(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req server_dto.CreateChannelRequest
	defer r.Body.Close()

	serverID := r.URL.Query().Get("serverId")
	if serverID == "" {
		return app_error.Validation("server id is required", "serverId")
	}

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

	resp, err := h.Service.CreateChannel(r.Context(), req, profile.ID, serverID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("channel created", *resp, reqID))
	return nil
}

func (h *ServerHandler) UpdateChannel(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req server_dto.UpdateChannelRequest
	defer r.Body.Close()

	channelID := chi.URLParam(r, "channelId")
	serverID := r.URL.Query().Get("serverId")
	if serverID == "" {
		return app_error.Validation("server id is required", "serverId")
	}

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

	resp, err := h.Service.UpdateChannel(r.Context(), req, profile.ID, serverID, channelID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("channel updated", *resp, reqID))
	return nil
}

func (h *ServerHandler) DeleteChannel(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	channelID := chi.URLParam(r, "channelId")
	serverID := r.URL.Query().Get("serverId")
	if serverID == "" {
		return app_error.Validation("server id is required", "serverId")
	}

	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	if err := h.Service.DeleteChannel(r.Context(), profile.ID, serverID, channelID); err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("channel deleted", "OK", reqID))
	return nil
}

func (h *ServerHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req server_dto.UpdateMemberRoleRequest
	defer r.Body.Close()

	memberID := chi.URLParam(r, "memberId")
	serverID := r.URL.Query().Get("serverId")
	if serverID == "" {
		return app_error.Validation("server id is required", "serverId")
	}

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

	resp, err := h.Service.UpdateMemberRole(r.Context(), req, profile.ID, serverID, memberID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("member role updated", *resp, reqID))
	return nil
}

func (h *ServerHandler) KickMember(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	memberID := chi.URLParam(r, "memberId")
	serverID := r.URL.Query().Get("serverId")
	if serverID == "" {
		return app_error.Validation("server id is required", "serverId")
	}

	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	if err := h.Service.KickMember(r.Context(), profile.ID, serverID, memberID); err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("member kicked", "OK", reqID))
	return nil
}

func (h *ServerHandler) GetOrCreateConversation(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	otherMemberID := chi.URLParam(r, "memberId")
	serverID := r.URL.Query().Get("serverId")
	if serverID == "" {
		return app_error.Validation("server id is required", "serverId")
	}

	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	resp, err := h.Service.GetOrCreateConversation(r.Context(), profile.ID, serverID, otherMemberID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("conversation resolved", *resp, reqID))
	return nil
}
