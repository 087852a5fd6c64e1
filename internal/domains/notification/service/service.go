package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"turfbook/config"
	"turfbook/infras/kafka"
	"turfbook/infras/otel"
	"turfbook/internal/domains/notification/model"
	"turfbook/shared/constant"
)

// Notifier hands notification jobs to the queue. Delivery happens in a
// separate worker so a slow or failing provider never blocks the
// request path.
type Notifier interface {
	Enqueue(ctx context.Context, job model.Job) error
}

type notifierImpl struct {
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
}

func New(kafkaClient kafka.Client, cfg *config.Config, otel otel.Otel) Notifier {
	return &notifierImpl{
		kafka: kafkaClient,
		cfg:   cfg,
		otel:  otel,
	}
}

func (n *notifierImpl) Enqueue(ctx context.Context, job model.Job) (err error) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.Enqueue")
	defer scope.End()
	defer scope.TraceIfError(err)

	topic := n.cfg.Kafka.Topic.Notifications

	err = n.kafka.SendMessages(ctx, topic, kafka.Message{
		Key:   job.BookingID,
		Value: job,
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", job.BookingID).Msg("failed to enqueue notification job")

		return fmt.Errorf("failed to enqueue notification job: %w", err)
	}

	log.Info().
		Str("bookingID", job.BookingID).
		Str("event", job.Event).
		Msg("notification job enqueued")

	return nil
}
