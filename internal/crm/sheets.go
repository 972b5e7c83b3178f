// Package crm pushes accepted leads into the practice's Google Sheets CRM.
package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/drsayuj/intake-platform/pkg/logging"
)

// Lead is one CRM row. Metadata carries the booking fields the sheet has no
// dedicated column for.
type Lead struct {
	FullName      string
	Email         string
	Phone         string
	Concern       string
	PreferredDate string
	PreferredTime string
	Source        string
	Metadata      map[string]any
}

// LeadSink accepts leads; the booking dispatcher depends on this, not on the
// sheets client, so tests can stub it.
type LeadSink interface {
	SubmitLead(ctx context.Context, lead Lead) error
}

// SheetsClient appends leads to a spreadsheet range.
type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
	writeRange    string
	logger        *logging.Logger
}

// SheetsConfig holds the spreadsheet coordinates and service-account
// credentials.
type SheetsConfig struct {
	SpreadsheetID   string
	WriteRange      string // e.g. "Leads!A:L"
	CredentialsJSON string
}

// NewSheetsClient builds the sheets-backed sink. Returns nil, nil when no
// spreadsheet is configured so callers can skip the channel.
func NewSheetsClient(ctx context.Context, cfg SheetsConfig, logger *logging.Logger) (*SheetsClient, error) {
	if cfg.SpreadsheetID == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.WriteRange == "" {
		cfg.WriteRange = "Leads!A:L"
	}

	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("crm: create sheets service: %w", err)
	}

	return &SheetsClient{
		service:       svc,
		spreadsheetID: cfg.SpreadsheetID,
		writeRange:    cfg.WriteRange,
		logger:        logger,
	}, nil
}

// SubmitLead appends one row to the configured range.
func (c *SheetsClient) SubmitLead(ctx context.Context, lead Lead) error {
	if c == nil || c.service == nil {
		return fmt.Errorf("crm: sheets client not configured")
	}

	metadata := "{}"
	if len(lead.Metadata) > 0 {
		raw, err := json.Marshal(lead.Metadata)
		if err != nil {
			return fmt.Errorf("crm: marshal lead metadata: %w", err)
		}
		metadata = string(raw)
	}

	row := []any{
		time.Now().UTC().Format(time.RFC3339),
		lead.FullName,
		lead.Email,
		lead.Phone,
		lead.Concern,
		lead.PreferredDate,
		lead.PreferredTime,
		lead.Source,
		metadata,
	}

	_, err := c.service.Spreadsheets.Values.
		Append(c.spreadsheetID, c.writeRange, &sheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("crm: append lead row: %w", err)
	}

	c.logger.Info("crm: lead appended", "full_name", lead.FullName, "source", lead.Source)
	return nil
}

var _ LeadSink = (*SheetsClient)(nil)
