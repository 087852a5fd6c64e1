//go:build wireinject
// +build wireinject

package di

import (
	"turfbook/config"
	"turfbook/infras/jwt"
	"turfbook/infras/kafka"
	"turfbook/infras/otel"
	"turfbook/infras/postgres"
	"turfbook/infras/redis"
	"turfbook/permissions"
	"turfbook/shared/cache"
	"turfbook/transport/http"
	"turfbook/transport/http/middleware"
	"turfbook/transport/http/router"

	bookingRepository "turfbook/internal/domains/booking/repository"
	bookingService "turfbook/internal/domains/booking/service"
	notificationService "turfbook/internal/domains/notification/service"
	notificationWorker "turfbook/internal/domains/notification/worker"
	reservationRepository "turfbook/internal/domains/reservation/repository"
	reservationService "turfbook/internal/domains/reservation/service"
	turfRepository "turfbook/internal/domains/turf/repository"
	turfService "turfbook/internal/domains/turf/service"

	bookingHandler "turfbook/internal/handlers/booking"
	reservationHandler "turfbook/internal/handlers/reservation"
	turfHandler "turfbook/internal/handlers/turf"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var turfDomain = wire.NewSet(
	turfRepository.New,
	turfService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var notificationDomain = wire.NewSet(
	notificationService.New,
)

var domains = wire.NewSet(
	turfDomain,
	reservationDomain,
	bookingDomain,
	notificationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	turfHandler.New,
	bookingHandler.New,
	reservationHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *notificationWorker.Worker {
	wire.Build(
		configurations,
		infrastructures,
		notificationWorker.NewLogEmailSender,
		notificationWorker.NewLogSMSSender,
		notificationWorker.New,
	)

	return &notificationWorker.Worker{}
}

func InitializeSweeper() *reservationService.Sweeper {
	wire.Build(
		configurations,
		infrastructures,
		reservationRepository.New,
		reservationService.NewSweeper,
	)

	return &reservationService.Sweeper{}
}
