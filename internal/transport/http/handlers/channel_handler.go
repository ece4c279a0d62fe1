package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/service"
	"github.com/inkverse/clubchat/internal/transport/http/middleware"
	"github.com/inkverse/clubchat/pkg/validator"
)

type ChannelHandler struct {
	channelService *service.ChannelService
}

func NewChannelHandler(channelService *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

func (h *ChannelHandler) List(w http.ResponseWriter, r *http.Request) {
	channels, err := h.channelService.ListActive(r.Context())
	if err != nil {
		log.Printf("ERROR list channels: %v", err)
		writeError(w, http.StatusInternalServerError, "STORAGE_UNAVAILABLE", "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, channels)
}

func (h *ChannelHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	channelID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid channel ID")
		return
	}

	ch, err := h.channelService.Get(r.Context(), userID, channelID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChannelNotFound), errors.Is(err, service.ErrChannelInactive):
			writeError(w, http.StatusNotFound, "CHANNEL_NOT_FOUND", "Channel not found")
		case errors.Is(err, service.ErrNotMember):
			writeError(w, http.StatusForbidden, "NOT_MEMBER", "You do not have access to this channel")
		default:
			log.Printf("ERROR get channel: %v", err)
			writeError(w, http.StatusInternalServerError, "STORAGE_UNAVAILABLE", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, ch)
}

func (h *ChannelHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	slug := r.PathValue("slug")
	if errs := validator.ValidateSlug(slug); errs.HasErrors() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", errs.Error())
		return
	}

	ch, err := h.channelService.GetBySlug(r.Context(), userID, slug)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChannelNotFound), errors.Is(err, service.ErrChannelInactive):
			writeError(w, http.StatusNotFound, "CHANNEL_NOT_FOUND", "Channel not found")
		case errors.Is(err, service.ErrNotMember):
			writeError(w, http.StatusForbidden, "NOT_MEMBER", "You do not have access to this channel")
		default:
			log.Printf("ERROR get channel by slug: %v", err)
			writeError(w, http.StatusInternalServerError, "STORAGE_UNAVAILABLE", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, ch)
}

func (h *ChannelHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *ChannelHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *ChannelHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	userID := middleware.GetUserID(r.Context())
	channelID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid channel ID")
		return
	}

	ch, err := h.channelService.SetActive(r.Context(), userID, channelID, active)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChannelNotFound):
			writeError(w, http.StatusNotFound, "CHANNEL_NOT_FOUND", "Channel not found")
		case errors.Is(err, service.ErrNotMember):
			writeError(w, http.StatusForbidden, "NOT_MEMBER", "You do not have access to this channel")
		case errors.Is(err, service.ErrNotLeader):
			writeError(w, http.StatusForbidden, "PERMISSION_DENIED", "Only the group leader can change channel state")
		default:
			log.Printf("ERROR set channel active: %v", err)
			writeError(w, http.StatusInternalServerError, "STORAGE_UNAVAILABLE", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, ch)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
