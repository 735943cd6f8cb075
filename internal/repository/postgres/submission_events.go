package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/domain"
)

// Schema creates the table used by the submission event repository
const Schema = `
CREATE TABLE IF NOT EXISTS coupon_submission_events (
	id          UUID PRIMARY KEY,
	coupon_code TEXT NOT NULL,
	status      TEXT NOT NULL,
	message     TEXT NOT NULL DEFAULT '',
	request_id  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_coupon_submission_events_code
	ON coupon_submission_events (coupon_code, created_at DESC);
`

type submissionEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSubmissionEventRepository creates a new submission event repository
func NewSubmissionEventRepository(db *sql.DB, logger *zap.Logger) *submissionEventRepository {
	return &submissionEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *submissionEventRepository) Create(ctx context.Context, event *domain.SubmissionEvent) error {
	query := `
		INSERT INTO coupon_submission_events (id, coupon_code, status, message, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.CouponCode,
		string(event.Status),
		event.Message,
		event.RequestID,
		event.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create submission event", zap.Error(err))
		return err
	}

	return nil
}

func (r *submissionEventRepository) ListByCode(ctx context.Context, code string, limit int) ([]*domain.SubmissionEvent, error) {
	query := `
		SELECT id, coupon_code, status, message, request_id, created_at
		FROM coupon_submission_events
		WHERE coupon_code = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, code, limit)
	if err != nil {
		r.logger.Error("Failed to query submission events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []*domain.SubmissionEvent
	for rows.Next() {
		var event domain.SubmissionEvent
		var status string

		if err := rows.Scan(
			&event.ID,
			&event.CouponCode,
			&status,
			&event.Message,
			&event.RequestID,
			&event.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan submission event", zap.Error(err))
			return nil, err
		}

		event.Status = domain.SubmissionStatus(status)
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
