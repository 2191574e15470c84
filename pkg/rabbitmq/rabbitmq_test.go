package rabbitmq_test

import (
	"os"
	"testing"
	"time"

	"storefront/pkg/rabbitmq"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to the broker named by RABBITMQ_TEST_URL on a
// throwaway exchange and queue.
func newTestClient(t *testing.T, exchange string) *rabbitmq.Client {
	t.Helper()
	url := os.Getenv("RABBITMQ_TEST_URL")
	if url == "" {
		t.Skip("RABBITMQ_TEST_URL not set")
	}
	client, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:      url,
		Exchange: exchange,
		Queue:    exchange + ".audit",
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestEveryConsumerReceivesEachEvent(t *testing.T) {
	exchange := "storefront_test_" + uuid.New().String()
	first := newTestClient(t, exchange)
	second := newTestClient(t, exchange)

	received := make(chan string, 4)
	forward := func(name string) func(amqp.Delivery) error {
		return func(msg amqp.Delivery) error {
			received <- name + ":" + msg.Type
			return nil
		}
	}
	require.NoError(t, first.Consume(forward("first")))
	require.NoError(t, second.Consume(forward("second")))

	require.NoError(t, first.Publish("order.created", []byte(`{"orderId":"ORD-1"}`)))

	var got []string
	timeout := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case msg := <-received:
			got = append(got, msg)
		case <-timeout:
			t.Fatalf("received %v before timing out", got)
		}
	}
	assert.ElementsMatch(t, []string{"first:order.created", "second:order.created"}, got)
}
