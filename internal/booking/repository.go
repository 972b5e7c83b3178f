package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/drsayuj/intake-platform/pkg/logging"
)

// db is the narrow slice of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository persists appointment records.
type Repository struct {
	db     db
	logger *logging.Logger
}

// NewRepository creates a repository backed by a pgx pool or compatible mock.
func NewRepository(db db, logger *logging.Logger) *Repository {
	if logger == nil {
		logger = logging.Default()
	}
	return &Repository{db: db, logger: logger}
}

// Create inserts the appointment row and returns its id.
func (r *Repository) Create(ctx context.Context, rec AppointmentRecord) (uuid.UUID, error) {
	if r == nil || r.db == nil {
		return uuid.Nil, fmt.Errorf("booking: database not configured")
	}

	id := rec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (
			id, patient_name, age, gender,
			appointment_date, appointment_time, reason,
			email, phone, pain_score, mri_scan_available,
			confirmation_message, used_ai_confirmation, source, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		id, rec.PatientName, rec.Age, rec.Gender,
		rec.AppointmentDate, rec.AppointmentTime, rec.Reason,
		nullableString(rec.Email), nullableString(rec.Phone),
		rec.PainScore, rec.MRIScanAvailable,
		rec.ConfirmationMessage, rec.UsedAIConfirmation, rec.Source, createdAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("booking: insert appointment: %w", err)
	}

	r.logger.Info("booking: appointment persisted", "appointment_id", id, "source", rec.Source)
	return id, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
