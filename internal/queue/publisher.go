// Package queue exports fetched snapshots to a Kafka topic for
// downstream consumers. This is a data feed, not an alert channel; the
// email remains the only notification transport.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/pmehta/ratewatch/internal/rates"
)

// NewWriter builds a producer for the snapshot feed. Topics are created
// on first write so a one-shot run needs no broker admin step.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           100 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// feedMessage is the wire payload: one rate option with its snapshot
// timestamp.
type feedMessage struct {
	CheckedAt string           `json:"checked_at"`
	Option    rates.RateOption `json:"option"`
}

// PublishSnapshot emits one message per rate option in the snapshot.
func PublishSnapshot(ctx context.Context, writer *kafka.Writer, snap rates.Snapshot) error {
	if writer == nil || len(snap.Rates) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(snap.Rates))
	for i, r := range snap.Rates {
		payload, err := json.Marshal(feedMessage{CheckedAt: snap.CheckedAt, Option: r})
		if err != nil {
			return fmt.Errorf("marshal feed message %s: %w", r.Product, err)
		}
		key := fmt.Sprintf("%s-%s-%d", snap.CheckedAt, r.Product, i)
		msgs = append(msgs, kafka.Message{Key: []byte(key), Value: payload})
	}
	return writer.WriteMessages(ctx, msgs...)
}
