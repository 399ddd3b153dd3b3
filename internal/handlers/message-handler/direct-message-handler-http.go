package message_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/concordlabs/concord/internal/dtos/chat_dto"
	app_error "github.com/concordlabs/concord/internal/errors"
	"github.com/concordlabs/concord/internal/handlers"
	"github.com/concordlabs/concord/internal/middleware"
)

func (h *MessageHandler) ListDirectMessages(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	if _, ok := middleware.ProfileFromContext(r.Context()); !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		return app_error.Validation("conversation id is required", "conversationId")
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	resp, err := h.Service.ListDirectMessages(r.Context(), conversationID, cursor)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
	return nil
}

func (h *MessageHandler) CreateDirectMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req chat_dto.CreateMessageRequest
	defer r.Body.Close()

	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		return app_error.Validation("conversation id is required", "conversationId")
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

	resp, err := h.Service.CreateDirectMessage(r.Context(), req, profile.ID, conversationID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("message sent successfully", *resp, reqID))
	return nil
}

func (h *MessageHandler) UpdateDirectMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req chat_dto.UpdateMessageRequest
	defer r.Body.Close()

	messageID := chi.URLParam(r, "directMessageId")
	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		return app_error.Validation("conversation id is required", "conversationId")
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

	resp, err := h.Service.UpdateDirectMessage(r.Context(), req, profile.ID, conversationID, messageID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("message edited", *resp, reqID))
	return nil
}

func (h *MessageHandler) DeleteDirectMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	messageID := chi.URLParam(r, "directMessageId")
	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		return app_error.Validation("conversation id is required", "conversationId")
	}

	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	resp, err := h.Service.DeleteDirectMessage(r.Context(), profile.ID, conversationID, messageID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("message deleted", *resp, reqID))
	return nil
}
