package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/room-booking/internal/application"
)

type roomService interface {
	ListRoomsWithStatus(ctx context.Context) ([]application.RoomWithStatus, error)
	GetRoomWithStatus(ctx context.Context, roomID string) (application.RoomWithStatus, error)
}

type RoomHandler struct {
	service   roomService
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	rooms, err := h.service.ListRoomsWithStatus(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rooms)).InfoContext(r.Context(), "rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	logger := h.log(r.Context(), "Get", "room_id", roomID)
	room, err := h.service.GetRoomWithStatus(r.Context(), roomID)
	if err != nil {
		logger.ErrorContext(r.Context(), "room fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type roomDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Capacity    *int    `json:"capacity,omitempty"`
	Features    *string `json:"features,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Status      string  `json:"status"`
	StatusInfo  string  `json:"status_info"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toRoomDTO(entry application.RoomWithStatus) roomDTO {
	room := entry.Room
	return roomDTO{
		ID:          room.ID,
		Name:        room.Name,
		Type:        room.Type,
		Capacity:    room.Capacity,
		Features:    room.Features,
		Description: room.Description,
		ImageURL:    room.ImageURL,
		Status:      string(entry.Status.Status),
		StatusInfo:  entry.Status.Info,
		CreatedAt:   room.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   room.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toRoomDTOs(entries []application.RoomWithStatus) []roomDTO {
	if len(entries) == 0 {
		return nil
	}
	out := make([]roomDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toRoomDTO(entry))
	}
	return out
}
