package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/drsayuj/intake-platform/internal/notify"
	"github.com/drsayuj/intake-platform/pkg/logging"
)

// WebhookPayload is the body POSTed to every subscriber.
type WebhookPayload struct {
	Event               string             `json:"event"`
	Timestamp           string             `json:"timestamp"`
	Booking             ValidatedBooking   `json:"booking"`
	ConfirmationMessage string             `json:"confirmationMessage"`
	EmailResult         notify.EmailResult `json:"emailResult"`
	UsedAI              bool               `json:"usedAI"`
	Source              string             `json:"source"`
}

// BuildWebhookPayload assembles the subscriber payload for one booking.
func BuildWebhookPayload(b ValidatedBooking, confirmation Confirmation, emailResult notify.EmailResult, source string) WebhookPayload {
	if source == "" {
		source = "website"
	}
	return WebhookPayload{
		Event:               "appointment.requested",
		Timestamp:           time.Now().UTC().Format(time.RFC3339),
		Booking:             b,
		ConfirmationMessage: confirmation.Message,
		EmailResult:         emailResult,
		UsedAI:              confirmation.UsedAI,
		Source:              source,
	}
}

// WebhookNotifier POSTs booking payloads to configured subscriber URLs.
// Errors are logged only; subscribers must never affect the booking outcome.
type WebhookNotifier struct {
	urls    []string
	client  *http.Client
	timeout time.Duration
	logger  *logging.Logger
}

// NewWebhookNotifier creates a notifier for the given subscriber URLs. An
// empty list yields a notifier whose Notify is a no-op.
func NewWebhookNotifier(urls []string, timeout time.Duration, logger *logging.Logger) *WebhookNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		urls:    urls,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		logger:  logger,
	}
}

// Notify delivers the payload to every subscriber, each with its own timeout.
// A failing subscriber does not stop delivery to the others.
func (n *WebhookNotifier) Notify(ctx context.Context, payload WebhookPayload) {
	if n == nil || len(n.urls) == 0 {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("booking: webhook payload marshal failed", "error", err)
		return
	}

	for _, url := range n.urls {
		if err := n.deliver(ctx, url, body); err != nil {
			n.logger.Warn("booking: webhook delivery failed", "url", url, "error", err)
		}
	}
}

func (n *WebhookNotifier) deliver(ctx context.Context, url string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("booking: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("booking: webhook post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("booking: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
