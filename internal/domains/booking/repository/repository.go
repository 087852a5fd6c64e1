package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"turfbook/infras/otel"
	"turfbook/infras/postgres"
	"turfbook/internal/domains/booking/model"
	reservationModel "turfbook/internal/domains/reservation/model"
	"turfbook/shared/constant"
	gDto "turfbook/shared/dto"
	"turfbook/shared/logger"
	gModel "turfbook/shared/model"
	gRepo "turfbook/shared/repository"
	"turfbook/shared/timezone"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// CreatePending inserts the pending rows and consumes the customer's
	// reservations for the turf in one transaction, re-running the
	// conflict checks first. Conflicts surface as
	// *reservationModel.ConflictError.
	CreatePending(ctx context.Context, bookings []model.Booking) error
	FindOccupied(ctx context.Context, turfID string, slots []gModel.Slot) ([]model.Booking, error)
	// UpdateStatusIfPending flips the status only when the booking is
	// still pending and reports how many rows changed.
	UpdateStatusIfPending(ctx context.Context, id, status, user string) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) CreatePending(ctx context.Context, bookings []model.Booking) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreatePending")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(bookings) == 0 {
		return nil
	}

	customerID := bookings[0].CustomerID
	turfID := bookings[0].TurfID
	slots := make([]gModel.Slot, len(bookings))

	for i := range bookings {
		slots[i] = bookings[i].Slot
	}

	now := timezone.Now()

	tx, err := repo.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin booking transaction: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck

	// Slots may have become unavailable during the payment flow; re-check
	// both stores before committing the booking.
	if err = repo.checkOccupiedTx(ctx, tx, turfID, slots); err != nil {
		return err
	}

	if err = repo.checkForeignHoldsTx(ctx, tx, customerID, turfID, slots, now); err != nil {
		return err
	}

	if err = repo.InsertBulkTx(ctx, tx, bookings); err != nil {
		if postgres.IsUniqueViolation(err) {
			// A rival booking committed between snapshot and write and took
			// the partial unique index. Which slot lost is unknown here, so
			// report the first one.
			return reservationModel.NewSlotBooked(slots[0])
		}

		return err
	}

	// The booking consumes the customer's holds on this turf.
	releaseQuery := fmt.Sprintf("DELETE FROM %s WHERE customer_id = :customer_id AND turf_id = :turf_id", reservationModel.TableName)

	_, err = tx.NamedExecContext(ctx, releaseQuery, map[string]any{
		"customer_id": customerID,
		"turf_id":     turfID,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to release consumed reservations: %w", err)
	}

	if err = tx.Commit(); err != nil {
		if postgres.IsUniqueViolation(err) {
			return reservationModel.NewSlotBooked(slots[0])
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) FindOccupied(ctx context.Context, turfID string, slots []gModel.Slot) (bookings []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindOccupied")
	defer scope.End()
	defer scope.TraceIfError(err)

	tuples, args := gRepo.SlotTuplePredicate(slots)
	args["turf_id"] = turfID
	args["status_pending"] = constant.BookingStatusPending
	args["status_confirmed"] = constant.BookingStatusConfirmed

	query := fmt.Sprintf(
		"SELECT id, customer_id, owner_id, turf_id, day, slot_date, start_time, end_time, status, total_amount FROM %s WHERE turf_id = :turf_id AND status IN (:status_pending, :status_confirmed) AND %s",
		model.TableName, tuples,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows, err := sqlx.NamedQueryContext(ctx, repo.db.Read, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to find occupied slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var booking model.Booking
		if err = rows.StructScan(&booking); err != nil {
			logger.ErrorWithStack(err)

			return nil, fmt.Errorf("failed to scan occupied slot: %w", err)
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to iterate occupied slots: %w", err)
	}

	return bookings, nil
}

func (repo *repositoryImpl) UpdateStatusIfPending(ctx context.Context, id, status, user string) (affected int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatusIfPending")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"UPDATE %s SET status = :status, modified_at = :modified_at, modified_by = :modified_by WHERE id = :id AND status = :pending",
		model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{
		"id":          id,
		"status":      status,
		"pending":     constant.BookingStatusPending,
		"modified_at": timezone.Now(),
		"modified_by": user,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to update booking status: %w", err)
	}

	affected, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}

func (repo *repositoryImpl) checkOccupiedTx(ctx context.Context, tx *sqlx.Tx, turfID string, slots []gModel.Slot) error {
	tuples, args := gRepo.SlotTuplePredicate(slots)
	args["turf_id"] = turfID
	args["status_pending"] = constant.BookingStatusPending
	args["status_confirmed"] = constant.BookingStatusConfirmed

	query := fmt.Sprintf(
		"SELECT day, slot_date, start_time, end_time FROM %s WHERE turf_id = :turf_id AND status IN (:status_pending, :status_confirmed) AND %s",
		model.TableName, tuples,
	)

	rows, err := sqlx.NamedQueryContext(ctx, tx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to check occupied slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot gModel.Slot
		if err = rows.StructScan(&slot); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to scan occupied slot: %w", err)
		}

		return reservationModel.NewSlotBooked(slot)
	}

	if err = rows.Err(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to iterate occupied slots: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) checkForeignHoldsTx(ctx context.Context, tx *sqlx.Tx, customerID, turfID string, slots []gModel.Slot, now time.Time) error {
	tuples, args := gRepo.SlotTuplePredicate(slots)
	args["turf_id"] = turfID
	args["customer_id"] = customerID
	args["now"] = now

	query := fmt.Sprintf(
		"SELECT id, customer_id, turf_id, day, slot_date, start_time, end_time, reserved_at, expires_at FROM %s WHERE turf_id = :turf_id AND customer_id != :customer_id AND expires_at > :now AND %s",
		reservationModel.TableName, tuples,
	)

	rows, err := sqlx.NamedQueryContext(ctx, tx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to check foreign holds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hold reservationModel.Reservation
		if err = rows.StructScan(&hold); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to scan foreign hold: %w", err)
		}

		return reservationModel.NewSlotReserved(hold.Slot, hold.TimeLeftMinutes(now))
	}

	if err = rows.Err(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to iterate foreign holds: %w", err)
	}

	return nil
}
