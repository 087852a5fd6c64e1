package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"turfbook/infras/otel"
	"turfbook/infras/postgres"
	bookingModel "turfbook/internal/domains/booking/model"
	"turfbook/internal/domains/reservation/model"
	"turfbook/shared/constant"
	"turfbook/shared/logger"
	"turfbook/shared/timezone"
	gModel "turfbook/shared/model"
	gRepo "turfbook/shared/repository"
)

type Reservation interface {
	// ReserveSlots atomically places a hold on every requested slot, or on
	// none of them. The customer's previous holds for the turf are
	// superseded in the same transaction. Conflicts surface as
	// *model.ConflictError.
	ReserveSlots(ctx context.Context, customerID, turfID string, slots []gModel.Slot, window time.Duration) (time.Time, error)
	Release(ctx context.Context, customerID, turfID string) error
	FindLive(ctx context.Context, turfID string, slots []gModel.Slot, now time.Time) ([]model.Reservation, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) ReserveSlots(ctx context.Context, customerID, turfID string, slots []gModel.Slot, window time.Duration) (expiresAt time.Time, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ReserveSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()

	// Snapshot isolation keeps the conflict checks and the inserts on one
	// consistent view; the unique index backstops whatever the snapshot
	// cannot see.
	tx, err := repo.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		logger.ErrorWithStack(err)

		return time.Time{}, fmt.Errorf("failed to begin reserve transaction: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck

	if err = repo.checkBookedTx(ctx, tx, turfID, slots); err != nil {
		return time.Time{}, err
	}

	if err = repo.checkForeignHoldsTx(ctx, tx, customerID, turfID, slots, now); err != nil {
		return time.Time{}, err
	}

	// A customer holds at most one slot set per turf; re-reserving
	// supersedes the previous set. Expired rows on the turf go too: the
	// conflict checks already ignore them, but left in place they would
	// trip the unique index and fail the insert with a phantom conflict.
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE turf_id = :turf_id AND (customer_id = :customer_id OR expires_at <= :now)", model.TableName)

	_, err = tx.NamedExecContext(ctx, deleteQuery, map[string]any{
		"turf_id":     turfID,
		"customer_id": customerID,
		"now":         now,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return time.Time{}, fmt.Errorf("failed to supersede previous holds: %w", err)
	}

	expiresAt = now.Add(window)

	rows := make([]model.Reservation, len(slots))
	for i, slot := range slots {
		rows[i] = model.Reservation{
			ID:         uuid.NewString(),
			CustomerID: customerID,
			TurfID:     turfID,
			Slot:       slot,
			ReservedAt: now,
			ExpiresAt:  expiresAt,
		}
	}

	if err = repo.InsertBulkTx(ctx, tx, rows); err != nil {
		if postgres.IsUniqueViolation(err) {
			// A rival insert slipped in between snapshot and write. Which
			// slot lost is unknown at this point, so report the first one
			// with the full window as the conservative upper bound.
			return time.Time{}, model.NewSlotReserved(slots[0], int(window/time.Minute))
		}

		return time.Time{}, err
	}

	if err = tx.Commit(); err != nil {
		if postgres.IsUniqueViolation(err) {
			return time.Time{}, model.NewSlotReserved(slots[0], int(window/time.Minute))
		}

		logger.ErrorWithStack(err)

		return time.Time{}, fmt.Errorf("failed to commit reserve transaction: %w", err)
	}

	return expiresAt, nil
}

func (repo *repositoryImpl) Release(ctx context.Context, customerID, turfID string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Release")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("DELETE FROM %s WHERE customer_id = :customer_id AND turf_id = :turf_id", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	// Releasing with nothing held is a no-op success.
	_, err = repo.db.Write.NamedExecContext(ctx, query, map[string]any{
		"customer_id": customerID,
		"turf_id":     turfID,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to release reservations: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) FindLive(ctx context.Context, turfID string, slots []gModel.Slot, now time.Time) (reservations []model.Reservation, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.FindLive")
	defer scope.End()
	defer scope.TraceIfError(err)

	tuples, args := gRepo.SlotTuplePredicate(slots)
	args["turf_id"] = turfID
	args["now"] = now

	query := fmt.Sprintf(
		"SELECT id, customer_id, turf_id, day, slot_date, start_time, end_time, reserved_at, expires_at FROM %s WHERE turf_id = :turf_id AND expires_at > :now AND %s",
		model.TableName, tuples,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows, err := sqlx.NamedQueryContext(ctx, repo.db.Read, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to find live reservations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reservation model.Reservation
		if err = rows.StructScan(&reservation); err != nil {
			logger.ErrorWithStack(err)

			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}

		reservations = append(reservations, reservation)
	}

	if err = rows.Err(); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}

	return reservations, nil
}

func (repo *repositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (removed int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.DeleteExpired")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("DELETE FROM %s WHERE expires_at <= :now", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{"now": now})
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to delete expired reservations: %w", err)
	}

	removed, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return removed, nil
}

func (repo *repositoryImpl) checkBookedTx(ctx context.Context, tx *sqlx.Tx, turfID string, slots []gModel.Slot) error {
	tuples, args := gRepo.SlotTuplePredicate(slots)
	args["turf_id"] = turfID
	args["status_pending"] = constant.BookingStatusPending
	args["status_confirmed"] = constant.BookingStatusConfirmed

	query := fmt.Sprintf(
		"SELECT day, slot_date, start_time, end_time FROM %s WHERE turf_id = :turf_id AND status IN (:status_pending, :status_confirmed) AND %s",
		bookingModel.TableName, tuples,
	)

	rows, err := sqlx.NamedQueryContext(ctx, tx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to check booked slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot gModel.Slot
		if err = rows.StructScan(&slot); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to scan booked slot: %w", err)
		}

		return model.NewSlotBooked(slot)
	}

	if err = rows.Err(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to iterate booked slots: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) checkForeignHoldsTx(ctx context.Context, tx *sqlx.Tx, customerID, turfID string, slots []gModel.Slot, now time.Time) error {
	tuples, args := gRepo.SlotTuplePredicate(slots)
	args["turf_id"] = turfID
	args["customer_id"] = customerID
	args["now"] = now

	// The requester's own holds never conflict; expired rows are invisible
	// even before the sweeper removes them.
	query := fmt.Sprintf(
		"SELECT id, customer_id, turf_id, day, slot_date, start_time, end_time, reserved_at, expires_at FROM %s WHERE turf_id = :turf_id AND customer_id != :customer_id AND expires_at > :now AND %s",
		model.TableName, tuples,
	)

	rows, err := sqlx.NamedQueryContext(ctx, tx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to check foreign holds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hold model.Reservation
		if err = rows.StructScan(&hold); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to scan foreign hold: %w", err)
		}

		return model.NewSlotReserved(hold.Slot, hold.TimeLeftMinutes(now))
	}

	if err = rows.Err(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to iterate foreign holds: %w", err)
	}

	return nil
}
