package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"turfbook/config"
	"turfbook/infras/otel"
	bookingRepo "turfbook/internal/domains/booking/repository"
	"turfbook/internal/domains/reservation/model"
	"turfbook/internal/domains/reservation/model/dto"
	"turfbook/internal/domains/reservation/repository"
	turfModel "turfbook/internal/domains/turf/model"
	turfRepo "turfbook/internal/domains/turf/repository"
	"turfbook/shared"
	"turfbook/shared/constant"
	"turfbook/shared/failure"
	gModel "turfbook/shared/model"
	"turfbook/shared/timezone"
)

type Reservation interface {
	Reserve(ctx context.Context, req dto.ReserveRequest) (dto.ReserveResponse, error)
	Release(ctx context.Context, turfID string) error
	Verify(ctx context.Context, req dto.VerifyRequest) (dto.VerifyResponse, error)
}

type serviceImpl struct {
	repo     repository.Reservation
	bookings bookingRepo.Booking
	turfs    turfRepo.Turf
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Reservation, bookings bookingRepo.Booking, turfs turfRepo.Turf, cfg *config.Config, otel otel.Otel) Reservation {
	return &serviceImpl{
		repo:     repo,
		bookings: bookings,
		turfs:    turfs,
		cfg:      cfg,
		otel:     otel,
	}
}

func (s *serviceImpl) Reserve(ctx context.Context, req dto.ReserveRequest) (res dto.ReserveResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reserve")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = gModel.ValidateSlots(req.Slots); err != nil {
		return res, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	if err = s.requireTurf(ctx, req.TurfID); err != nil {
		return res, err
	}

	window := s.holdWindow()

	expiresAt, err := s.repo.ReserveSlots(ctx, customer, req.TurfID, req.Slots, window)
	if err != nil {
		var conflict *model.ConflictError
		if errors.As(err, &conflict) {
			log.Info().
				Str("turfID", req.TurfID).
				Str("code", conflict.Code).
				Str("date", conflict.Slot.Date).
				Msg("reservation rejected on conflict")

			return res, err
		}

		log.Error().Err(err).Msg("failed to reserve slots")

		return res, fmt.Errorf("failed to reserve slots: %w", err)
	}

	res.FromExpiry(expiresAt, int(window/time.Minute))

	return res, nil
}

func (s *serviceImpl) Release(ctx context.Context, turfID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Release")
	defer scope.End()
	defer scope.TraceIfError(err)

	if turfID == constant.Empty {
		return failure.BadRequestFromString("turfId is required") // nolint:wrapcheck
	}

	customer, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Release(ctx, customer, turfID); err != nil {
		log.Error().Err(err).Msg("failed to release reservations")

		return fmt.Errorf("failed to release reservations: %w", err)
	}

	return nil
}

func (s *serviceImpl) Verify(ctx context.Context, req dto.VerifyRequest) (res dto.VerifyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Verify")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = gModel.ValidateSlots(req.Slots); err != nil {
		return res, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	now := timezone.Now()

	occupied, err := s.bookings.FindOccupied(ctx, req.TurfID, req.Slots)
	if err != nil {
		log.Error().Err(err).Msg("failed to check booked slots")

		return res, fmt.Errorf("failed to check booked slots: %w", err)
	}

	for _, booking := range occupied {
		res.BookedSlots = append(res.BookedSlots, booking.Slot)
	}

	holds, err := s.repo.FindLive(ctx, req.TurfID, req.Slots, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to check reserved slots")

		return res, fmt.Errorf("failed to check reserved slots: %w", err)
	}

	for _, hold := range holds {
		// The requester's own holds never count against them.
		if hold.CustomerID == customer {
			continue
		}

		res.ReservedSlots = append(res.ReservedSlots, dto.ReservedSlot{
			Slot:     hold.Slot,
			TimeLeft: hold.TimeLeftMinutes(now),
		})
	}

	res.Available = len(res.BookedSlots) == 0 && len(res.ReservedSlots) == 0

	return res, nil
}

func (s *serviceImpl) requireTurf(ctx context.Context, turfID string) error {
	exists, err := s.turfs.Exist(ctx, shared.FilterByID(turfID, turfModel.FieldID, turfModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if turf exists")

		return fmt.Errorf("failed to check if turf exists: %w", err)
	}

	if !exists {
		return failure.BadRequestFromString("turf does not exist") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) holdWindow() time.Duration {
	minutes := s.cfg.Reservation.HoldMinutes
	if minutes <= 0 {
		minutes = 10
	}

	return time.Duration(minutes) * time.Minute
}
