package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pardismasoud-hue/pishgam/internal/config"
	"github.com/pardismasoud-hue/pishgam/internal/events"
)

func newObservedNotifications(t *testing.T) (events.Dispatcher, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/msp",
	}).RegisterHandlers()
	return dispatcher, logs
}

func TestNotificationSkipsInternalNotes(t *testing.T) {
	dispatcher, logs := newObservedNotifications(t)
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventTicketMessageAdded, "t-1", events.Actor{}, time.Now(),
		events.TicketMessageAddedPayload{MessageID: "m-1", IsInternal: true})))
	assert.Zero(t, logs.FilterMessage("email notification").Len())

	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventTicketMessageAdded, "t-1", events.Actor{}, time.Now(),
		events.TicketMessageAddedPayload{MessageID: "m-2"})))
	assert.Equal(t, 1, logs.FilterMessage("email notification").Len())
}

func TestNotificationBreachIsWarning(t *testing.T) {
	dispatcher, logs := newObservedNotifications(t)

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventTicketSLABreached, "t-9", events.Actor{}, time.Now(),
		events.TicketSLABreachedPayload{Kind: events.BreachResolution})))

	breaches := logs.FilterMessage("TicketSLABreached").All()
	require.Len(t, breaches, 1)
	assert.Equal(t, zapcore.WarnLevel, breaches[0].Level)
	assert.Equal(t, 1, logs.FilterMessage("webhook notification").Len())
}

func TestEngineEventsReachNotifications(t *testing.T) {
	f := newFixture(t)
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{}).RegisterHandlers()
	f.svc.dispatcher = dispatcher

	f.createTicket()
	assert.Equal(t, 1, logs.FilterMessage("TicketCreated").Len())
	assert.Equal(t, 1, logs.FilterMessage("TicketAssigned").Len())
}
