package activitymap_test

import (
	"context"
	"testing"
	"time"

	auth "github.com/goliatone/go-auth-fogbugz"
	"github.com/goliatone/go-auth-fogbugz/activitymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	event := auth.ActivityEvent{
		EventType: auth.ActivityEventAccountRoleChanged,
		Provider:  "fogbugz",
		AccountID: "account-100",
		Username:  "jdoe",
		Metadata: map[string]any{
			"is_superuser": true,
		},
		OccurredAt: ts,
	}

	out := activitymap.Normalize(event)

	assert.Equal(t, "account-100", out.ActorID)
	assert.Equal(t, string(auth.ActivityEventAccountRoleChanged), out.Verb)
	assert.Equal(t, "account", out.ObjectType)
	assert.Equal(t, "account-100", out.ObjectID)
	assert.Equal(t, "auth", out.Channel)
	assert.True(t, out.OccurredAt.Equal(ts))
	assert.Equal(t, map[string]any{
		"is_superuser": true,
		"provider":     "fogbugz",
		"username":     "jdoe",
	}, out.Metadata)

	event.Metadata["is_superuser"] = false
	assert.Equal(t, true, out.Metadata["is_superuser"])
}

func TestNormalizeFailedLoginUsesFallbackActor(t *testing.T) {
	t.Parallel()

	out := activitymap.Normalize(auth.ActivityEvent{
		EventType: auth.ActivityEventLoginFailure,
		Username:  "ghost",
	}, activitymap.WithActorFallback("fogbugz-bridge"), activitymap.WithDefaultChannel("security"))

	assert.Equal(t, "fogbugz-bridge", out.ActorID)
	assert.Empty(t, out.ObjectID)
	assert.Equal(t, "security", out.Channel)
	assert.False(t, out.OccurredAt.IsZero())
	assert.Equal(t, "ghost", out.Metadata[activitymap.MetadataKeyUsername])
}

func TestNewSinkForwardsNormalizedEvents(t *testing.T) {
	t.Parallel()

	var got []activitymap.Normalized
	sink := activitymap.NewSink(func(_ context.Context, n activitymap.Normalized) error {
		got = append(got, n)
		return nil
	}, activitymap.WithDefaultObjectType("directory_account"))

	require.NoError(t, sink.Record(context.Background(), auth.ActivityEvent{
		EventType: auth.ActivityEventAccountCreated,
		AccountID: "account-1",
	}))

	require.Len(t, got, 1)
	assert.Equal(t, "directory_account", got[0].ObjectType)
	assert.Equal(t, string(auth.ActivityEventAccountCreated), got[0].Verb)

	assert.NoError(t, activitymap.NewSink(nil).Record(context.Background(), auth.ActivityEvent{}))
}
