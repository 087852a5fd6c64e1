package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"turfbook/config"
	"turfbook/infras/otel"
	"turfbook/internal/domains/booking/model"
	"turfbook/internal/domains/booking/model/dto"
	"turfbook/internal/domains/booking/repository"
	notificationModel "turfbook/internal/domains/notification/model"
	notificationService "turfbook/internal/domains/notification/service"
	turfModel "turfbook/internal/domains/turf/model"
	turfRepo "turfbook/internal/domains/turf/repository"
	"turfbook/shared"
	"turfbook/shared/cache"
	"turfbook/shared/constant"
	gDto "turfbook/shared/dto"
	"turfbook/shared/failure"
	gModel "turfbook/shared/model"
	"turfbook/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	SetStatus(ctx context.Context, id string, req dto.UpdateBookingStatusRequest) error
}

type serviceImpl struct {
	repo     repository.Booking
	turfs    turfRepo.Turf
	notifier notificationService.Notifier
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Booking, turfs turfRepo.Turf, notifier notificationService.Notifier, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:     repo,
		turfs:    turfs,
		notifier: notifier,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = gModel.ValidateSlots(req.Slots); err != nil {
		return failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	turf, err := s.turfs.Get(ctx, shared.FilterByID(req.TurfID, turfModel.FieldID, turfModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get turf for booking")

		return fmt.Errorf("failed to get turf for booking: %w", err)
	}

	if turf.ID == constant.Empty {
		return failure.BadRequestFromString("turf does not exist") // nolint:wrapcheck
	}

	if !turf.Active {
		return failure.BadRequestFromString("turf is not accepting bookings") // nolint:wrapcheck
	}

	if err = s.repo.CreatePending(ctx, req.ToModels(customer, turf.OwnerID, turf.PricePerSlot)); err != nil {
		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err = s.authorizeRead(ctx, booking); err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return s.GetAll(ctx, req, shared.FilterByID(customer, model.FieldCustomerID, model.TableName))
}

// SetStatus moves a pending booking to confirmed or rejected. The
// transition happens exactly once: a second attempt finds no pending row
// and fails with a conflict, whatever the second caller asked for.
func (s *serviceImpl) SetStatus(ctx context.Context, id string, req dto.UpdateBookingStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.SetStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking for status update")

		return fmt.Errorf("failed to get booking for status update: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if role != constant.RoleAdmin && booking.OwnerID != user {
		return failure.Forbidden("only the turf owner can decide this booking") // nolint:wrapcheck
	}

	affected, err := s.repo.UpdateStatusIfPending(ctx, id, req.Status, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if affected == 0 {
		// The row exists but is no longer pending: someone got there first.
		return failure.Conflict("booking already processed") // nolint:wrapcheck
	}

	s.enqueueNotification(ctx, booking, req.Status)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

func (s *serviceImpl) authorizeRead(ctx context.Context, booking model.Booking) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleAdmin || booking.CustomerID == user || booking.OwnerID == user {
		return nil
	}

	return failure.Forbidden("you are not allowed to view this booking") // nolint:wrapcheck
}

// enqueueNotification is best effort. The status transition already
// committed; a queue outage must not undo or surface it.
func (s *serviceImpl) enqueueNotification(ctx context.Context, booking model.Booking, status string) {
	event := notificationModel.EventBookingRejected
	if status == constant.BookingStatusConfirmed {
		event = notificationModel.EventBookingConfirmed
	}

	job := notificationModel.Job{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		TurfID:     booking.TurfID,
		Event:      event,
		Slot:       booking.Slot,
		EnqueuedAt: timezone.Now(),
	}

	if err := s.notifier.Enqueue(ctx, job); err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to enqueue booking notification")
	}
}
