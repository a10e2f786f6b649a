package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/booking"
	"github.com/example/room-booking/internal/logging"
)

var (
	errBadRequestBody   = errors.New("Ugyldigt requestformat.")
	errInvalidRoomID    = errors.New("Ugyldigt lokale-id.")
	errInvalidBookingID = errors.New("Ugyldigt booking-id.")
	errMissingUserID    = errors.New("Angiv venligst en bruger.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Rejections carry their reason as a machine-readable error code; the
// message is the Danish text the booking forms display verbatim.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{
			Message: "Vi kunne ikke finde den valgte ressource. Prøv venligst igen.",
		})
	default:
		var rej *application.RejectionError
		if errors.As(err, &rej) {
			status := http.StatusUnprocessableEntity
			if rej.Reason == booking.ReasonRoomConflict {
				status = http.StatusConflict
			}
			r.writeJSON(ctx, w, status, errorResponse{
				ErrorCode: string(rej.Reason),
				Message:   rejectionMessage(rej.Reason),
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
			Message: "Der opstod en uventet fejl. Prøv venligst igen.",
		})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Anmodningen er ikke korrekt udformet."
	case http.StatusNotFound:
		return "Vi kunne ikke finde den valgte ressource. Prøv venligst igen."
	case http.StatusConflict:
		return "Lokalet er allerede booket i det valgte tidsrum. Prøv et andet tidspunkt."
	case http.StatusUnprocessableEntity:
		return "Der er fejl i de indtastede oplysninger."
	default:
		return "Der opstod en uventet fejl. Prøv venligst igen."
	}
}

func rejectionMessage(reason booking.Reason) string {
	switch reason {
	case booking.ReasonMissingDate:
		return "Vælg venligst en dato."
	case booking.ReasonMissingStartTime:
		return "Vælg venligst et starttidspunkt."
	case booking.ReasonMissingEndTime:
		return "Vælg venligst et sluttidspunkt."
	case booking.ReasonMissingRoom:
		return "Vælg venligst et lokale."
	case booking.ReasonInvalidTime:
		return "Ugyldigt tidspunkt. Prøv venligst igen."
	case booking.ReasonEndBeforeStart:
		return "Sluttidspunktet skal være efter starttidspunktet."
	case booking.ReasonOffGrid:
		return "Tidspunkterne skal passe med bookingintervallet."
	case booking.ReasonDurationExceeded:
		return "Bookingen overskrider den maksimale varighed."
	case booking.ReasonInPast:
		return "Du kan ikke booke et tidspunkt, der allerede er passeret."
	case booking.ReasonRoomConflict:
		return "Lokalet er allerede booket i det valgte tidsrum. Prøv et andet tidspunkt."
	default:
		return "Der er fejl i de indtastede oplysninger."
	}
}

type errorResponse struct {
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message"`
}
