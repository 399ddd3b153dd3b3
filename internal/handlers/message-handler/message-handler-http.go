package message_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/concordlabs/concord/config"
	"github.com/concordlabs/concord/internal/broker"
	"github.com/concordlabs/concord/internal/dtos/chat_dto"
	app_error "github.com/concordlabs/concord/internal/errors"
	"github.com/concordlabs/concord/internal/handlers"
	"github.com/concordlabs/concord/internal/middleware"
	message_service "github.com/concordlabs/concord/internal/use-case/message-case"
	"github.com/concordlabs/concord/state"
)

type MessageHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  message_service.MessageServiceContract
}

func NewMessageHandler(state *state.AppState, b broker.Broker) *MessageHandler {
	return &MessageHandler{
		State:    state,
		Validate: validator.New(),
		Service:  message_service.NewMessageService(state, b, config.Conf.CHAT.PageSize),
	}
}

func (h *MessageHandler) ListChannelMessages(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	if _, ok := middleware.ProfileFromContext(r.Context()); !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	channelID := r.URL.Query().Get("channelId")
	if channelID == "" {
		return app_error.Validation("channel id is required", "channelId")
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	resp, err := h.Service.ListChannelMessages(r.Context(), channelID, cursor)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
	return nil
}

func (h *MessageHandler) CreateChannelMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req chat_dto.CreateMessageRequest
	defer r.Body.Close()

	serverID := r.URL.Query().Get("serverId")
	channelID := r.URL.Query().Get("channelId")
	if serverID == "" {
		return app_error.Validation("server id is required", "serverId")
	}
	if channelID == "" {
		return app_error.Validation("channel id is required", "channelId")
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

	resp, err := h.Service.CreateChannelMessage(r.Context(), req, profile.ID, serverID, channelID)
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

func (h *MessageHandler) UpdateChannelMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req chat_dto.UpdateMessageRequest
	defer r.Body.Close()

	messageID := chi.URLParam(r, "messageId")
	serverID := r.URL.Query().Get("serverId")
	channelID := r.URL.Query().Get("channelId")
	if serverID == "" || channelID == "" {
		return app_error.Validation("server id and channel id are required", "params")
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

	resp, err := h.Service.UpdateChannelMessage(r.Context(), req, profile.ID, serverID, channelID, messageID)
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

func (h *MessageHandler) DeleteChannelMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	messageID := chi.URLParam(r, "messageId")
	serverID := r.URL.Query().Get("serverId")
	channelID := r.URL.Query().Get("channelId")
	if serverID == "" || channelID == "" {
		return app_error.Validation("server id and channel id are required", "params")
	}

	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	resp, err := h.Service.DeleteChannelMessage(r.Context(), profile.ID, serverID, channelID, messageID)
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
