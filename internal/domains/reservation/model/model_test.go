package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"turfbook/internal/domains/reservation/model"
	"turfbook/shared/constant"
	gModel "turfbook/shared/model"
)

func TestReservationLive(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	live := model.Reservation{ExpiresAt: now.Add(time.Second)}
	assert.True(t, live.Live(now))

	expired := model.Reservation{ExpiresAt: now}
	assert.False(t, expired.Live(now), "a hold expiring exactly now is no longer live")

	past := model.Reservation{ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, past.Live(now))
}

func TestTimeLeftMinutes(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		remaining time.Duration
		want      int
	}{
		{name: "whole minutes", remaining: 10 * time.Minute, want: 10},
		{name: "partial minute rounds up", remaining: 9*time.Minute + time.Second, want: 10},
		{name: "under a minute floors at one", remaining: 30 * time.Second, want: 1},
		{name: "one second left still reports one", remaining: time.Second, want: 1},
		{name: "already expired reports one", remaining: -time.Second, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := model.Reservation{ExpiresAt: now.Add(tt.remaining)}

			assert.Equal(t, tt.want, r.TimeLeftMinutes(now))
		})
	}
}

func TestConflictError(t *testing.T) {
	slot := gModel.Slot{Date: "2026-03-14", StartTime: "18:00", EndTime: "19:00"}

	booked := model.NewSlotBooked(slot)

	var conflict *model.ConflictError
	assert.True(t, errors.As(booked, &conflict))
	assert.Equal(t, constant.ConflictCodeSlotBooked, conflict.Code)
	assert.Contains(t, booked.Error(), "already booked")

	reserved := model.NewSlotReserved(slot, 7)
	assert.True(t, errors.As(reserved, &conflict))
	assert.Equal(t, constant.ConflictCodeSlotReserved, conflict.Code)
	assert.Equal(t, 7, conflict.TimeLeftMinutes)
	assert.Contains(t, reserved.Error(), "7 minute")
}
