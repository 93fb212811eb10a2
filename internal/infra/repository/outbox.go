package repository

import (
	"context"
	"time"

	"localbiz-bookings/internal/infra/db"
	"localbiz-bookings/internal/pkg/pgconv"
	"localbiz-bookings/internal/usecase/shared"

	"github.com/google/uuid"
)

// OutboxRepository persists notification jobs in the same transaction as the
// state change they announce, so a crash between commit and dispatch can be
// replayed from the table.
type OutboxRepository struct{}

func NewOutboxRepository() shared.OutboxRepository {
	return &OutboxRepository{}
}

func (r *OutboxRepository) CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := dbtx.Exec(ctx,
		`INSERT INTO outbox_jobs (id, kind, topic, payload, run_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		pgconv.UUIDToPgtype(uuid.New()),
		kind,
		topic,
		payload,
		pgconv.TimeToPgtype(runAt),
		pgconv.TimeToPgtype(runAt))
	if err != nil {
		return wrapPgError("failed to create outbox job", err)
	}
	return nil
}
