package worker

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pardismasoud-hue/pishgam/internal/events"
	"github.com/pardismasoud-hue/pishgam/internal/service"
)

// StartNotificationWorker registers notification handlers and, when a Redis
// client is available, forwards every ticket event onto channel.
func StartNotificationWorker(notificationService *service.NotificationService, dispatcher events.Dispatcher, client redis.UniversalClient, channel string, logger *zap.Logger) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if dispatcher == nil || client == nil || channel == "" {
		return
	}
	dispatcher.SubscribeAll(events.NewRedisPublisher(client, channel).Handle)
	logger.Info("forwarding ticket events to redis", zap.String("channel", channel))
}
