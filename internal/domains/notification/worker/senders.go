package worker

import (
	"context"

	"github.com/rs/zerolog/log"

	"turfbook/internal/domains/notification/model"
)

// The shipped senders record the dispatch; real providers plug in behind
// the same interfaces.

type logEmailSender struct{}

func NewLogEmailSender() EmailSender {
	return &logEmailSender{}
}

func (s *logEmailSender) Send(_ context.Context, job model.Job) error {
	log.Info().
		Str("channel", "email").
		Str("bookingID", job.BookingID).
		Str("customerID", job.CustomerID).
		Str("event", job.Event).
		Msg("notification dispatched")

	return nil
}

type logSMSSender struct{}

func NewLogSMSSender() SMSSender {
	return &logSMSSender{}
}

func (s *logSMSSender) Send(_ context.Context, job model.Job) error {
	log.Info().
		Str("channel", "sms").
		Str("bookingID", job.BookingID).
		Str("customerID", job.CustomerID).
		Str("event", job.Event).
		Msg("notification dispatched")

	return nil
}
