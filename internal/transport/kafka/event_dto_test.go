package kafka_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-dispatch/internal/service/orders"
	"service-dispatch/internal/transport/kafka"
)

func TestToDomain_TrimsAndCopiesFields(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	dto := kafka.EventDTO{
		OrderID:     17,
		Status:      "  placed  ",
		ServiceArea: " 560001 ",
		Reason:      " ",
		CreatedAt:   ts,
	}

	got := kafka.ToDomain(dto)

	require.Equal(t, orders.Event{
		OrderID:     17,
		Status:      "placed",
		ServiceArea: "560001",
		CreatedAt:   ts,
	}, got)
}

func TestPermanent(t *testing.T) {
	t.Parallel()

	base := errors.New("bad payload")
	err := kafka.Permanent(base)

	require.True(t, kafka.IsPermanent(err))
	require.ErrorIs(t, err, base)
	require.Equal(t, "permanent: bad payload", err.Error())
	require.False(t, kafka.IsPermanent(base))
	require.Equal(t, "permanent error", kafka.PermanentError{}.Error())
}
