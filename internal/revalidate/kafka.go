package revalidate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink publishes one message per view, keyed by view name so that
// consumers see changes to a view in order.
type KafkaSink struct {
	writer MessageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaSink(writer MessageWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, sig Signal) error {
	msgs := make([]kafka.Message, 0, len(sig.Views))
	for _, view := range sig.Views {
		body, err := json.Marshal(Signal{Views: []string{view}, Source: sig.Source, At: sig.At})
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(view),
			Value: body,
			Time:  sig.At,
			Headers: []kafka.Header{
				{Key: "source", Value: []byte(sig.Source)},
			},
		})
	}
	return s.writer.WriteMessages(ctx, msgs...)
}
