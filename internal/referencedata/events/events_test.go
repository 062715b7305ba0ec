package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absences/internal/platform/kafka/consumer"
)

type recordingInvalidator struct {
	triggers []string
	err      error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, trigger string) error {
	r.triggers = append(r.triggers, trigger)
	return r.err
}

func message(value string) *consumer.Message {
	return &consumer.Message{
		Topic:     "reference-data.changed",
		Partition: 0,
		Offset:    42,
		Value:     []byte(value),
	}
}

func TestChangeHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("change event invalidates the catalogue", func(t *testing.T) {
		inv := &recordingInvalidator{}
		var logs bytes.Buffer
		h := NewChangeHandler(inv, slog.New(slog.NewJSONHandler(&logs, nil)))

		err := h.Handle(ctx, message(`{"eventType":"reference-data.changed","domain":"ABSENCE_REASON","code":"AGRI"}`))

		require.NoError(t, err)
		assert.Equal(t, []string{TriggerEvent}, inv.triggers)
		assert.Contains(t, logs.String(), `"code":"AGRI"`)
	})

	t.Run("malformed payload still invalidates and is logged", func(t *testing.T) {
		inv := &recordingInvalidator{}
		var logs bytes.Buffer
		h := NewChangeHandler(inv, slog.New(slog.NewJSONHandler(&logs, nil)))

		err := h.Handle(ctx, message(`not json`))

		require.NoError(t, err)
		assert.Len(t, inv.triggers, 1)
		assert.Contains(t, logs.String(), "malformed reference data change event")
	})

	t.Run("unknown domain is logged", func(t *testing.T) {
		inv := &recordingInvalidator{}
		var logs bytes.Buffer
		h := NewChangeHandler(inv, slog.New(slog.NewJSONHandler(&logs, nil)))

		err := h.Handle(ctx, message(`{"eventType":"reference-data.changed","domain":"WIDGETS"}`))

		require.NoError(t, err)
		assert.Len(t, inv.triggers, 1)
		assert.Contains(t, logs.String(), "unknown domain")
	})

	t.Run("invalidation failure is returned for retry", func(t *testing.T) {
		inv := &recordingInvalidator{err: errors.New("redis down")}
		h := NewChangeHandler(inv, nil)

		err := h.Handle(ctx, message(`{"eventType":"reference-data.changed"}`))

		require.Error(t, err)
	})
}

func TestChangeHandlerBehindRouter(t *testing.T) {
	inv := &recordingInvalidator{}
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	router := consumer.NewRouter(logger, nil)
	router.Register("reference-data.changed", NewChangeHandler(inv, logger))

	require.NoError(t, router.Handle(context.Background(), message(`{}`)))
	require.NoError(t, router.Handle(context.Background(), &consumer.Message{Topic: "other"}))

	assert.Len(t, inv.triggers, 1)
}
