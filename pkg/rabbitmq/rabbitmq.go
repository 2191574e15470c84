package rabbitmq

import (
	"fmt"
	"sync"
	"time"

	"storefront/internal/logger"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// ExchangeName is the fanout exchange store events are published to. Every
// queue bound to it gets its own copy of each event.
const ExchangeName = "storefront_events"

// QueueName is the durable queue bound to the exchange that keeps events for
// offline consumers such as an audit job.
const QueueName = "storefront_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string // defaults to ExchangeName
	Queue    string // durable queue bound to the exchange, defaults to QueueName
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ and declares the exchange and its durable queue.
func NewClient(cfg Config) (*Client, error) {
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = ExchangeName
	}
	queue := cfg.Queue
	if queue == "" {
		queue = QueueName
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, exchange, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Logger.Info("RabbitMQ client connected", zap.String("exchange", exchange), zap.String("queue", queue))

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

func declareTopology(ch *amqp.Channel, exchange, queue string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		"fanout", // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	q, err := ch.QueueDeclare(
		queue, // name
		true,  // durable (persists messages across broker restarts)
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", queue, err)
	}
	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s to %s: %w", q.Name, exchange, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a JSON body to the events exchange. The routing key travels
// as the message type since a fanout exchange ignores routing keys.
func (c *Client) Publish(routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.channel.Publish(
		c.exchange, // exchange
		"",         // routing key: ignored by fanout
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         routingKey,
			Body:         body,
			DeliveryMode: amqp.Persistent, // Make message persistent
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Consume delivers every event published after the call to handler on a
// background goroutine. Each consuming process gets its own exclusive queue,
// so running several instances does not split the stream between them. A
// handler error nacks the message without requeueing it.
func (c *Client) Consume(handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	c.mu.Lock()
	queue, err := c.channel.QueueDeclare(
		"",    // name: server generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive to this connection
		false, // no-wait
		nil,   // arguments
	)
	if err == nil {
		err = c.channel.QueueBind(queue.Name, "", c.exchange, false, nil)
	}
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack: set to false to manually acknowledge messages
		true,       // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logger.Logger.Info("waiting for store events", zap.String("exchange", c.exchange), zap.String("queue", queue.Name))

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				logger.Logger.Warn("failed to process event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
				if nackErr := msg.Nack(false, false); nackErr != nil {
					logger.Logger.Warn("failed to nack event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				logger.Logger.Warn("failed to ack event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
			}
		}
	}()

	return nil
}

// LogEvent is a Consume handler that records each event at info level.
func LogEvent(msg amqp.Delivery) error {
	logger.Logger.Info("store event received",
		zap.String("type", msg.Type),
		zap.ByteString("body", msg.Body),
	)
	return nil
}
