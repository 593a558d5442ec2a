package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"

	"fittrack/mq"
	"fittrack/services"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// RunLedgerWorker consumes activity events from RabbitMQ and applies them to
// the ledger. It returns when the context is cancelled or the broker
// connection drops.
func RunLedgerWorker(ctx context.Context, activities *services.ActivityService) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	prefetch, _ := strconv.Atoi(os.Getenv("RABBITMQ_PREFETCH"))
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(
		mq.QueueActivity,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	log.Info().Str("queue", mq.QueueActivity).Msg("ledger worker started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("ledger worker: delivery channel closed")
			}
			handleLedgerMessage(ctx, activities, delivery)
		}
	}
}

func handleLedgerMessage(ctx context.Context, activities *services.ActivityService, delivery amqp.Delivery) {
	var event services.ActivityEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		log.Error().Err(err).Msg("ledger worker: invalid message")
		_ = delivery.Ack(false)
		return
	}
	if err := activities.Apply(ctx, &event); err != nil {
		// One requeue per event: a redelivered message that fails again is
		// dropped instead of spinning through the queue forever.
		requeue := !delivery.Redelivered
		if requeue {
			log.Error().Err(err).Str("event_id", event.EventID).Msg("ledger worker: apply failed, requeueing")
		} else {
			log.Error().Err(err).Str("event_id", event.EventID).Msg("ledger worker: apply failed on redelivery, dropping")
		}
		_ = delivery.Nack(false, requeue)
		return
	}
	_ = delivery.Ack(false)
}
