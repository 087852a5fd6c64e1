package worker

//go:generate go run go.uber.org/mock/mockgen -source=./worker.go -destination=../mocks/worker_mock.go -package=mocks

import (
	"context"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/rs/zerolog/log"

	"turfbook/config"
	"turfbook/infras/kafka"
	"turfbook/infras/otel"
	"turfbook/internal/domains/notification/model"
	"turfbook/shared/constant"
)

// EmailSender delivers a notification over the customer's registered
// email channel. Content rendering lives with the provider.
type EmailSender interface {
	Send(ctx context.Context, job model.Job) error
}

// SMSSender delivers a notification over the customer's registered
// phone channel.
type SMSSender interface {
	Send(ctx context.Context, job model.Job) error
}

// Worker consumes notification jobs from the queue and fans them out to
// the delivery channels. Delivery failures are logged and dropped; the
// booking status transition they follow is already the source of truth.
type Worker struct {
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
	email EmailSender
	sms   SMSSender
}

func New(kafkaClient kafka.Client, cfg *config.Config, otel otel.Otel, email EmailSender, sms SMSSender) *Worker {
	return &Worker{
		kafka: kafkaClient,
		cfg:   cfg,
		otel:  otel,
		email: email,
		sms:   sms,
	}
}

func (w *Worker) Run(ctx context.Context) {
	topic := w.cfg.Kafka.Topic.Notifications

	log.Info().Str("topic", topic).Msg("Notification worker started")

	w.kafka.Consume(ctx, w.cfg.Kafka.ConsumerGroup, topic, w.handle)
}

func (w *Worker) handle(msg kafkaGo.Message) {
	ctx, scope := w.otel.NewScope(context.Background(), constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".notification.handle")
	defer scope.End()

	decoded, err := kafka.DecodeKafkaMessage[model.Job](msg)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode notification job")

		return
	}

	job, ok := decoded.Value.(model.Job)
	if !ok {
		log.Error().Str("key", decoded.Key).Msg("unexpected notification payload type")

		return
	}

	if err := w.email.Send(ctx, job); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("bookingID", job.BookingID).Msg("failed to deliver email notification")
	}

	if err := w.sms.Send(ctx, job); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("bookingID", job.BookingID).Msg("failed to deliver sms notification")
	}
}
