package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"hash/fnv"
	"log/slog"
	"time"

	"localbiz-bookings/internal/domain/booking"
	"localbiz-bookings/internal/infra/db"
	"localbiz-bookings/internal/infra/readstore"
	"localbiz-bookings/internal/infra/repository"
	"localbiz-bookings/internal/pkg/errs"
	"localbiz-bookings/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errScopeLockFailed    = errs.New("failed to acquire waitlist scope lock")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool      *pgxpool.Pool
	snapshots *readstore.SnapshotReadStore
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{
		pool:      pool,
		snapshots: readstore.NewSnapshotReadStore(),
	}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// WithinScope serializes writers of one (business, date) waitlist queue with
// a transaction-scoped advisory lock. Position reads inside fn therefore see
// the queue as no other writer can change it until commit, which is what the
// read-max-then-insert and delete-then-compact sequences need.
func (u *PostgresUoW) WithinScope(ctx context.Context, businessID uuid.UUID, date booking.AppointmentDate, fn func(ctx context.Context, tx shared.Tx) error) error {
	key := scopeLockKey(businessID, date)
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.DB().Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, key); err != nil {
			return errs.Mark(err, errScopeLockFailed)
		}
		return fn(ctx, tx)
	})
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{uow: u, dbtx: u.pool}
}

// scopeLockKey hashes the scope identity into the int64 keyspace of
// pg_advisory_xact_lock. A hash collision only widens a lock's scope, never
// narrows it, so correctness is unaffected.
func scopeLockKey(businessID uuid.UUID, date booking.AppointmentDate) int64 {
	h := fnv.New64a()
	h.Write(businessID[:])
	h.Write([]byte(date.String()))
	return int64(h.Sum64()) // #nosec G115 -- wraparound is fine for a lock key
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{
			dbtx: pgxTx,
			uow:  u,
		}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a simple calculation if crypto/rand fails
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX
	uow  *PostgresUoW

	// Lazy-initialized repositories
	bookingRepo  shared.BookingRepository
	waitlistRepo shared.WaitlistRepository
	outboxRepo   shared.OutboxRepository
	commandReads shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository()
	}
	return t.bookingRepo
}

func (t *pgTx) Waitlist() shared.WaitlistRepository {
	if t.waitlistRepo == nil {
		t.waitlistRepo = repository.NewWaitlistRepository()
	}
	return t.waitlistRepo
}

func (t *pgTx) Outbox() shared.OutboxRepository {
	if t.outboxRepo == nil {
		t.outboxRepo = repository.NewOutboxRepository()
	}
	return t.outboxRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{
			uow:  t.uow,
			dbtx: t.dbtx,
		}
	}
	return t.commandReads
}

type commandReads struct {
	uow  *PostgresUoW
	dbtx db.DBTX
}

func (r *commandReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	return r.uow.snapshots.BookingByID(ctx, r.dbtx, id)
}

func (r *commandReads) WaitlistEntryByID(ctx context.Context, id uuid.UUID) (*shared.WaitlistEntrySnapshot, error) {
	return r.uow.snapshots.WaitlistEntryByID(ctx, r.dbtx, id)
}

func (r *commandReads) BusinessByID(ctx context.Context, id uuid.UUID) (*shared.BusinessSnapshot, error) {
	return r.uow.snapshots.BusinessByID(ctx, r.dbtx, id)
}

func (r *commandReads) StaffGrantFor(ctx context.Context, businessID, userID uuid.UUID) (*shared.StaffGrantSnapshot, error) {
	return r.uow.snapshots.StaffGrantFor(ctx, r.dbtx, businessID, userID)
}
