package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"turfbook/infras/otel/mocks"
	"turfbook/infras/postgres"
	"turfbook/internal/domains/reservation/model"
	"turfbook/internal/domains/reservation/repository"
	"turfbook/shared/constant"
	gModel "turfbook/shared/model"
)

const (
	reserveWindow = 10 * time.Minute

	bookedCheckQuery   = "SELECT day, slot_date, start_time, end_time FROM turf_bookings"
	holdCheckQuery     = "SELECT id, customer_id, turf_id, day, slot_date, start_time, end_time, reserved_at, expires_at FROM turf_reservations"
	supersedeQuery     = "DELETE FROM turf_reservations WHERE turf_id = $1 AND (customer_id = $2 OR expires_at <= $3)"
	insertHoldsQuery   = "INSERT INTO turf_reservations"
	releaseQuery       = "DELETE FROM turf_reservations WHERE customer_id = $1 AND turf_id = $2"
	deleteExpiredQuery = "DELETE FROM turf_reservations WHERE expires_at <= $1"
)

func newReservationRepository(t *testing.T) (repository.Reservation, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func reserveSlot(date, start, end string) gModel.Slot {
	return gModel.Slot{Day: "Saturday", Date: date, StartTime: start, EndTime: end}
}

func emptyBookedRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"day", "slot_date", "start_time", "end_time"})
}

func emptyHoldRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "customer_id", "turf_id", "day", "slot_date", "start_time", "end_time", "reserved_at", "expires_at"})
}

func TestReservationRepository_ReserveSlots(t *testing.T) {
	slots := []gModel.Slot{
		reserveSlot("2026-03-14", "10:00", "11:00"),
		reserveSlot("2026-03-14", "11:00", "12:00"),
	}

	t.Run("AtomicReserveCommitsAllHolds", func(t *testing.T) {
		repo, mock := newReservationRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(bookedCheckQuery).WillReturnRows(emptyBookedRows())
		mock.ExpectQuery(holdCheckQuery).WillReturnRows(emptyHoldRows())
		mock.ExpectExec(regexp.QuoteMeta(supersedeQuery)).
			WithArgs("turf-1", "customer-a", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(insertHoldsQuery).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		expiresAt, err := repo.ReserveSlots(context.Background(), "customer-a", "turf-1", slots, reserveWindow)

		assert.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(reserveWindow), expiresAt, 5*time.Second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LapsedHoldsArePurgedBeforeInsert", func(t *testing.T) {
		// A rival's expired row is invisible to the conflict checks but
		// still occupies the unique index until removed. The supersede
		// statement must clear it inside the same transaction, before the
		// insert, or the reserve fails with a phantom conflict.
		repo, mock := newReservationRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(bookedCheckQuery).WillReturnRows(emptyBookedRows())
		mock.ExpectQuery(holdCheckQuery).WillReturnRows(emptyHoldRows())
		mock.ExpectExec(regexp.QuoteMeta(supersedeQuery)).
			WithArgs("turf-1", "customer-b", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(insertHoldsQuery).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		_, err := repo.ReserveSlots(context.Background(), "customer-b", "turf-1", slots, reserveWindow)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BookedSlotAbortsBeforeAnyWrite", func(t *testing.T) {
		repo, mock := newReservationRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(bookedCheckQuery).WillReturnRows(
			emptyBookedRows().AddRow("Saturday", "2026-03-14", "10:00", "11:00"),
		)
		mock.ExpectRollback()

		_, err := repo.ReserveSlots(context.Background(), "customer-a", "turf-1", slots, reserveWindow)

		var conflict *model.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, constant.ConflictCodeSlotBooked, conflict.Code)
		assert.Equal(t, "2026-03-14", conflict.Slot.Date)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LiveForeignHoldAbortsWithTimeLeft", func(t *testing.T) {
		repo, mock := newReservationRepository(t)

		reservedAt := time.Now().Add(-5 * time.Minute)
		expiresAt := time.Now().Add(4*time.Minute + 30*time.Second)

		mock.ExpectBegin()
		mock.ExpectQuery(bookedCheckQuery).WillReturnRows(emptyBookedRows())
		mock.ExpectQuery(holdCheckQuery).WillReturnRows(
			emptyHoldRows().AddRow("hold-1", "customer-z", "turf-1", "Saturday", "2026-03-14", "10:00", "11:00", reservedAt, expiresAt),
		)
		mock.ExpectRollback()

		_, err := repo.ReserveSlots(context.Background(), "customer-a", "turf-1", slots, reserveWindow)

		var conflict *model.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, constant.ConflictCodeSlotReserved, conflict.Code)
		assert.Equal(t, 5, conflict.TimeLeftMinutes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UniqueViolationOnInsertBecomesConflict", func(t *testing.T) {
		repo, mock := newReservationRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(bookedCheckQuery).WillReturnRows(emptyBookedRows())
		mock.ExpectQuery(holdCheckQuery).WillReturnRows(emptyHoldRows())
		mock.ExpectExec(regexp.QuoteMeta(supersedeQuery)).
			WithArgs("turf-1", "customer-a", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(insertHoldsQuery).
			WillReturnError(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})
		mock.ExpectRollback()

		_, err := repo.ReserveSlots(context.Background(), "customer-a", "turf-1", slots, reserveWindow)

		var conflict *model.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, constant.ConflictCodeSlotReserved, conflict.Code)
		assert.Equal(t, 10, conflict.TimeLeftMinutes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsertFailureRollsBackWithoutConflict", func(t *testing.T) {
		repo, mock := newReservationRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(bookedCheckQuery).WillReturnRows(emptyBookedRows())
		mock.ExpectQuery(holdCheckQuery).WillReturnRows(emptyHoldRows())
		mock.ExpectExec(regexp.QuoteMeta(supersedeQuery)).
			WithArgs("turf-1", "customer-a", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(insertHoldsQuery).WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := repo.ReserveSlots(context.Background(), "customer-a", "turf-1", slots, reserveWindow)

		assert.Error(t, err)

		var conflict *model.ConflictError
		assert.False(t, errors.As(err, &conflict))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_Release(t *testing.T) {
	repo, mock := newReservationRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(releaseQuery)).
		WithArgs("customer-a", "turf-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Release(context.Background(), "customer-a", "turf-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_DeleteExpired(t *testing.T) {
	repo, mock := newReservationRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteExpiredQuery)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := repo.DeleteExpired(context.Background(), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
