package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

type publishCall struct {
	channel string
	message []byte
}

// recordingRedis overrides Publish; any other call panics on the nil embed.
type recordingRedis struct {
	redis.UniversalClient
	calls []publishCall
	err   error
}

func (r *recordingRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	r.calls = append(r.calls, publishCall{channel: channel, message: message.([]byte)})
	cmd := redis.NewIntCmd(ctx)
	if r.err != nil {
		cmd.SetErr(r.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisPublisherEncodesEvent(t *testing.T) {
	client := &recordingRedis{}
	publisher := NewRedisPublisher(client, "msp:ticket-events")
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	event := NewEvent(EventTicketStatusChanged, "t-1", Actor{Role: domain.RoleExpert, UserID: "u-1"}, at, TicketStatusChangedPayload{
		OldStatus: domain.TicketStatusOpen,
		NewStatus: domain.TicketStatusInProgress,
	})

	require.NoError(t, publisher.Handle(context.Background(), event))
	require.Len(t, client.calls, 1)
	assert.Equal(t, "msp:ticket-events", client.calls[0].channel)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(client.calls[0].message, &decoded))
	assert.Equal(t, "ticket_status_changed", decoded["type"])
	assert.Equal(t, "t-1", decoded["ticket_id"])
	payload := decoded["payload"].(map[string]any)
	assert.Equal(t, "IN_PROGRESS", payload["new_status"])
}

func TestRedisPublisherWrapsFailure(t *testing.T) {
	cause := errors.New("connection refused")
	publisher := NewRedisPublisher(&recordingRedis{err: cause}, "ch")
	err := publisher.Handle(context.Background(), NewEvent(EventTicketCreated, "t-1", Actor{}, time.Now(), nil))
	assert.ErrorIs(t, err, cause)
}
