package conversation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/drsayuj/intake-platform/pkg/logging"
)

const (
	maxMessageLength    = 2000
	maxDraftFieldLength = 100
)

// Handler exposes the conversation turn endpoint.
type Handler struct {
	orchestrator *Orchestrator
	clinic       ClinicInfo
	aiEnabled    bool
	logger       *logging.Logger
}

// NewHandler creates the HTTP handler for conversation turns.
func NewHandler(orchestrator *Orchestrator, clinic ClinicInfo, aiEnabled bool, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		orchestrator: orchestrator,
		clinic:       clinic,
		aiEnabled:    aiEnabled,
		logger:       logger,
	}
}

// HandleTurn processes one booking conversation turn.
func (h *Handler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateTurnRequest(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("conversation: panic during turn", "panic", rec)
			h.writeFailure(w)
		}
	}()

	result := h.orchestrator.ProcessTurn(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// HandleStatus reports whether the AI booking assistant is available.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "online",
		"aiEnabled": h.aiEnabled,
		"doctor":    h.clinic.DoctorName,
		"phone":     h.clinic.Phone,
	})
}

func (h *Handler) writeFailure(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":    "internal error",
		"response": fmt.Sprintf("I apologize, but I'm experiencing technical difficulties. Please call us directly at %s to book your appointment.", h.clinic.Phone),
	})
}

func validateTurnRequest(req TurnRequest) error {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return fmt.Errorf("message is required")
	}
	if len(req.Message) > maxMessageLength {
		return fmt.Errorf("message exceeds %d characters", maxMessageLength)
	}
	for name, v := range map[string]string{
		"name":              req.Draft.Name,
		"phone":             req.Draft.Phone,
		"email":             req.Draft.Email,
		"condition":         req.Draft.Condition,
		"urgency":           req.Draft.Urgency,
		"preferredDate":     req.Draft.PreferredDate,
		"preferredTime":     req.Draft.PreferredTime,
		"previousTreatment": req.Draft.PreviousTreatment,
		"insurance":         req.Draft.Insurance,
	} {
		if len(v) > maxDraftFieldLength {
			return fmt.Errorf("booking field %s exceeds %d characters", name, maxDraftFieldLength)
		}
	}
	for _, s := range req.Draft.Symptoms {
		if len(s) > maxDraftFieldLength {
			return fmt.Errorf("booking field symptoms exceeds %d characters", maxDraftFieldLength)
		}
	}
	return nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
