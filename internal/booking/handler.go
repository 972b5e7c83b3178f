package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/drsayuj/intake-platform/internal/notify"
	"github.com/drsayuj/intake-platform/pkg/logging"
)

// Handler exposes the booking submission endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the submission HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type submitResponse struct {
	Booking             ValidatedBooking   `json:"booking"`
	ConfirmationMessage string             `json:"confirmationMessage"`
	EmailResult         notify.EmailResult `json:"emailResult"`
	UsedAI              bool               `json:"usedAI"`
}

// HandleSubmit accepts a finished booking payload, validates it and runs the
// submission pipeline. The x-booking-source header tags the persisted record
// and the CRM push.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	source := r.Header.Get("x-booking-source")
	if source == "" {
		source = "website"
	}

	result, err := h.service.Submit(r.Context(), payload, source)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Message)
			return
		}
		h.logger.Error("booking: submission failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to process appointment.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(submitResponse{
		Booking:             result.Booking,
		ConfirmationMessage: result.ConfirmationMessage,
		EmailResult:         result.EmailResult,
		UsedAI:              result.UsedAI,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
