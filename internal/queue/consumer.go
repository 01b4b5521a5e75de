package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one decoded user.created event. A returned error means
// the event is dropped (rejected without requeue); enrichment has no retry
// pipeline, so a failed job simply leaves the user un-enriched.
type Handler func(ctx context.Context, ev UserCreatedEvent) error

// StartConsumer connects to RabbitMQ, declares the user.created queue
// (durable), and consumes messages, dispatching each to the handler. It
// runs a reconnect loop with capped exponential backoff and keeps running
// across broker outages; processing errors are logged and the offending
// message rejected so the worker never wedges on a bad event.
func StartConsumer(url string, handle Handler) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("enrich-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, handle); err != nil {
			log.Printf("enrich-consumer: consume loop ended: %v; reconnecting", err)
		}
		_ = conn.Close()
		time.Sleep(2 * time.Second)
	}
}

func consumeLoop(conn *amqp.Connection, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Printf("enrich-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(UserCreatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(UserCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := dispatch(d.Body, handle); err != nil {
			log.Printf("enrich-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func dispatch(body []byte, handle Handler) error {
	var ev UserCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	// Bound each job so a stuck upstream call cannot occupy the worker
	// indefinitely.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return handle(ctx, ev)
}
