package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"turfbook/infras/otel/mocks"
	"turfbook/infras/postgres"
	"turfbook/internal/domains/booking/model"
	"turfbook/internal/domains/booking/repository"
	reservationModel "turfbook/internal/domains/reservation/model"
	"turfbook/shared/constant"
	gModel "turfbook/shared/model"
	"turfbook/shared/timezone"
)

const (
	occupiedCheckQuery    = "SELECT day, slot_date, start_time, end_time FROM turf_bookings"
	foreignHoldCheckQuery = "SELECT id, customer_id, turf_id, day, slot_date, start_time, end_time, reserved_at, expires_at FROM turf_reservations"
	insertBookingsQuery   = "INSERT INTO turf_bookings"
	consumeHoldsQuery     = "DELETE FROM turf_reservations WHERE customer_id = $1 AND turf_id = $2"
	statusUpdateQuery     = "UPDATE turf_bookings SET status = $1, modified_at = $2, modified_by = $3 WHERE id = $4 AND status = $5"
)

func newBookingRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func pendingBooking(customer, turf, date, start, end string) model.Booking {
	return model.Booking{
		ID:          uuid.NewString(),
		CustomerID:  customer,
		OwnerID:     "owner-1",
		TurfID:      turf,
		Slot:        gModel.Slot{Day: "Saturday", Date: date, StartTime: start, EndTime: end},
		Status:      constant.BookingStatusPending,
		TotalAmount: 150,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  customer,
			ModifiedBy: customer,
		},
	}
}

func noOccupiedRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"day", "slot_date", "start_time", "end_time"})
}

func noForeignHoldRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "customer_id", "turf_id", "day", "slot_date", "start_time", "end_time", "reserved_at", "expires_at"})
}

func TestBookingRepository_CreatePending(t *testing.T) {
	bookings := []model.Booking{
		pendingBooking("customer-a", "turf-1", "2026-03-14", "10:00", "11:00"),
		pendingBooking("customer-a", "turf-1", "2026-03-14", "11:00", "12:00"),
	}

	t.Run("CommitsRowsAndConsumesHolds", func(t *testing.T) {
		repo, mock := newBookingRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(occupiedCheckQuery).WillReturnRows(noOccupiedRows())
		mock.ExpectQuery(foreignHoldCheckQuery).WillReturnRows(noForeignHoldRows())
		mock.ExpectExec(insertBookingsQuery).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(consumeHoldsQuery)).
			WithArgs("customer-a", "turf-1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := repo.CreatePending(context.Background(), bookings)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OccupiedSlotAbortsBeforeInsert", func(t *testing.T) {
		repo, mock := newBookingRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(occupiedCheckQuery).WillReturnRows(
			noOccupiedRows().AddRow("Saturday", "2026-03-14", "10:00", "11:00"),
		)
		mock.ExpectRollback()

		err := repo.CreatePending(context.Background(), bookings)

		var conflict *reservationModel.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, constant.ConflictCodeSlotBooked, conflict.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LiveForeignHoldAborts", func(t *testing.T) {
		repo, mock := newBookingRepository(t)

		reservedAt := time.Now().Add(-2 * time.Minute)
		expiresAt := time.Now().Add(8 * time.Minute)

		mock.ExpectBegin()
		mock.ExpectQuery(occupiedCheckQuery).WillReturnRows(noOccupiedRows())
		mock.ExpectQuery(foreignHoldCheckQuery).WillReturnRows(
			noForeignHoldRows().AddRow("hold-1", "customer-z", "turf-1", "Saturday", "2026-03-14", "10:00", "11:00", reservedAt, expiresAt),
		)
		mock.ExpectRollback()

		err := repo.CreatePending(context.Background(), bookings)

		var conflict *reservationModel.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, constant.ConflictCodeSlotReserved, conflict.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RivalCommitHitsUniqueIndexAsBooked", func(t *testing.T) {
		// Two customers racing for the same slot both pass the snapshot
		// re-check; the loser's insert trips the partial unique index and
		// must surface as a booked conflict, not a bare storage error.
		repo, mock := newBookingRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(occupiedCheckQuery).WillReturnRows(noOccupiedRows())
		mock.ExpectQuery(foreignHoldCheckQuery).WillReturnRows(noForeignHoldRows())
		mock.ExpectExec(insertBookingsQuery).
			WillReturnError(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})
		mock.ExpectRollback()

		err := repo.CreatePending(context.Background(), bookings)

		var conflict *reservationModel.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, constant.ConflictCodeSlotBooked, conflict.Code)
		assert.Equal(t, "2026-03-14", conflict.Slot.Date)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_UpdateStatusIfPending(t *testing.T) {
	t.Run("PendingRowFlipsOnce", func(t *testing.T) {
		repo, mock := newBookingRepository(t)

		mock.ExpectExec(regexp.QuoteMeta(statusUpdateQuery)).
			WithArgs(constant.BookingStatusConfirmed, sqlmock.AnyArg(), "owner-1", "booking-1", constant.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		affected, err := repo.UpdateStatusIfPending(context.Background(), "booking-1", constant.BookingStatusConfirmed, "owner-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(1), affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ProcessedRowReportsZeroAffected", func(t *testing.T) {
		repo, mock := newBookingRepository(t)

		mock.ExpectExec(regexp.QuoteMeta(statusUpdateQuery)).
			WithArgs(constant.BookingStatusRejected, sqlmock.AnyArg(), "owner-1", "booking-1", constant.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		affected, err := repo.UpdateStatusIfPending(context.Background(), "booking-1", constant.BookingStatusRejected, "owner-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(0), affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
