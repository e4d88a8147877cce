package auth

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordActivityStampsEvents(t *testing.T) {
	var got []ActivityEvent
	sink := ActivitySinkFunc(func(_ context.Context, event ActivityEvent) error {
		got = append(got, event)
		return nil
	})

	RecordActivity(context.Background(), sink, nil, ActivityEvent{EventType: ActivityEventAccountCreated})

	require.Len(t, got, 1)
	assert.Equal(t, ActivityEventAccountCreated, got[0].EventType)
	assert.NotNil(t, got[0].Metadata)
	assert.WithinDuration(t, time.Now(), got[0].OccurredAt, time.Minute)
}

func TestRecordActivityLogsSinkErrors(t *testing.T) {
	logger := &captureLogger{}
	sink := ActivitySinkFunc(func(context.Context, ActivityEvent) error {
		return stderrors.New("sink down")
	})

	RecordActivity(context.Background(), sink, logger, ActivityEvent{EventType: ActivityEventLoginFailure})

	require.Len(t, logger.calls, 1)
	assert.Equal(t, "warn", logger.calls[0].level)
}

func TestNormalizeActivitySink(t *testing.T) {
	sink := NormalizeActivitySink(nil)
	require.NotNil(t, sink)
	assert.NoError(t, sink.Record(context.Background(), ActivityEvent{}))

	var nilFunc ActivitySinkFunc
	assert.NoError(t, nilFunc.Record(context.Background(), ActivityEvent{}))
}
