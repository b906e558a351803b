// Package kafka publishes notification tasks to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"savannah/internal/core/domain/model/notification"
	"savannah/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTopic = "order.notifications"

	// KindHeader lets consumers filter tasks without decoding the payload.
	KindHeader = "task_kind"
)

var producerTracer = otel.Tracer("savannah/kafka/producer")

// MessageWriter is the subset of *kafka.Writer used by TaskProducer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TaskProducer implements ports.TaskQueue on top of a Kafka topic. Tasks are
// keyed by order id so that the tasks of one order stay in one partition.
type TaskProducer struct {
	writer MessageWriter
	topic  string
}

func NewTaskProducer(brokers []string, topic string) *TaskProducer {
	if topic == "" {
		topic = DefaultTopic
	}
	return NewTaskProducerWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           100 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
	}, topic)
}

func NewTaskProducerWithWriter(writer MessageWriter, topic string) *TaskProducer {
	return &TaskProducer{writer: writer, topic: topic}
}

func (p *TaskProducer) Enqueue(ctx context.Context, task notification.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}

	key := task.OrderID.String()
	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: KindHeader, Value: []byte(task.Kind)},
		},
	}

	ctx, span := producerTracer.Start(ctx, "send "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingKafkaMessageKey(key),
			semconv.MessagingMessageID(task.ID.String()),
			attribute.String("notification.kind", string(task.Kind)),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, NewMessageCarrier(&msg))

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errs.NewDependencyUnavailableError("kafka", err)
	}
	return nil
}

func (p *TaskProducer) Close() error {
	return p.writer.Close()
}
