package services

import (
	"encoding/json"

	"storefront/internal/logger"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// Routing keys for published store events.
const (
	RoutingKeyOrderCreated = "order.created"
	RoutingKeyStoreChanged = "store.changed"
)

// EventPublisher sends store events to a message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// publishEvent marshals payload and publishes it. Broker failures never fail
// the operation that produced the event.
func publishEvent(publisher EventPublisher, routingKey string, payload any) {
	if publisher == nil {
		logger.Logger.Debug("event publisher not configured, skipping event", zap.String("routing_key", routingKey))
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Logger.Warn("failed to marshal event", zap.String("routing_key", routingKey), zap.Error(err))
		return
	}
	if err := publisher.Publish(routingKey, body); err != nil {
		logger.Logger.Warn("failed to publish event", zap.String("routing_key", routingKey), zap.Error(err))
		return
	}
	logger.Logger.Debug("published event", zap.String("routing_key", routingKey))
}

// PublishStoreChange announces a committed record store write so other
// processes serving the same store can refresh.
func PublishStoreChange(publisher EventPublisher, ev repositories.ChangeEvent) {
	publishEvent(publisher, RoutingKeyStoreChanged, ev)
}
