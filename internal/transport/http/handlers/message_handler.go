package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/domain"
	"github.com/inkverse/clubchat/internal/service"
	"github.com/inkverse/clubchat/internal/transport/http/middleware"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// List serves recent channel history: newest page first, chronological
// within the page, older pages via ?before=<message id>.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	channelID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid channel ID")
		return
	}

	var before *uuid.UUID
	if beforeStr := r.URL.Query().Get("before"); beforeStr != "" {
		id, err := uuid.Parse(beforeStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid before cursor")
			return
		}
		before = &id
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	resp, err := h.messageService.List(r.Context(), userID, channelID, before, limit)
	if err != nil {
		h.writeServiceError(w, err, "list messages")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *MessageHandler) Pin(w http.ResponseWriter, r *http.Request) {
	h.setPinned(w, r, true)
}

func (h *MessageHandler) Unpin(w http.ResponseWriter, r *http.Request) {
	h.setPinned(w, r, false)
}

func (h *MessageHandler) setPinned(w http.ResponseWriter, r *http.Request, pinned bool) {
	userID := middleware.GetUserID(r.Context())
	messageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid message ID")
		return
	}

	msg, err := h.messageService.SetPinned(r.Context(), userID, messageID, pinned)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			writeError(w, http.StatusNotFound, "MESSAGE_NOT_FOUND", "Message not found")
		case errors.Is(err, service.ErrNotLeader):
			writeError(w, http.StatusForbidden, "PERMISSION_DENIED", "Only the group leader can pin messages")
		default:
			h.writeServiceError(w, err, "set pinned")
		}
		return
	}

	writeJSON(w, http.StatusOK, msg)
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	messageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid message ID")
		return
	}

	if err := h.messageService.Delete(r.Context(), userID, messageID); err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			writeError(w, http.StatusNotFound, "MESSAGE_NOT_FOUND", "Message not found")
		case errors.Is(err, service.ErrNotSender):
			writeError(w, http.StatusForbidden, "PERMISSION_DENIED", "You can only delete your own messages")
		default:
			h.writeServiceError(w, err, "delete message")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MessageHandler) writeServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrChannelNotFound), errors.Is(err, service.ErrChannelInactive):
		writeError(w, http.StatusNotFound, "CHANNEL_NOT_FOUND", "Channel not found")
	case errors.Is(err, service.ErrNotMember):
		writeError(w, http.StatusForbidden, "NOT_MEMBER", "You do not have access to this channel")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		log.Printf("ERROR %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "STORAGE_UNAVAILABLE", "Something went wrong")
	}
}
