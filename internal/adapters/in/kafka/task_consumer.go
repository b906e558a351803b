// Package kafka consumes notification tasks from a Kafka consumer group.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	kafka_out "savannah/internal/adapters/out/kafka"
	"savannah/internal/core/domain/model/notification"
	"savannah/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const DefaultGroupID = "savannah-notifications"

var consumerTracer = otel.Tracer("savannah/kafka/consumer")

// MessageReader is the subset of *kafka.Reader used by TaskConsumer.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ConsumerOption func(*kafka.ReaderConfig)

func WithStartOffset(offset int64) ConsumerOption {
	return func(cfg *kafka.ReaderConfig) {
		cfg.StartOffset = offset
	}
}

// TaskConsumer feeds tasks from a topic to a ports.TaskHandler. Offsets are
// committed only after the handler returns, so a crash mid-task leads to a
// redelivery. A task whose handler fails is logged and committed: retrying is
// the handler's job.
type TaskConsumer struct {
	reader  MessageReader
	handler ports.TaskHandler
	topic   string
	groupID string
	logger  *slog.Logger
}

func NewTaskConsumer(
	brokers []string,
	topic, groupID string,
	handler ports.TaskHandler,
	logger *slog.Logger,
	opts ...ConsumerOption,
) *TaskConsumer {
	if topic == "" {
		topic = kafka_out.DefaultTopic
	}
	if groupID == "" {
		groupID = DefaultGroupID
	}

	cfg := kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return NewTaskConsumerWithReader(kafka.NewReader(cfg), topic, groupID, handler, logger)
}

func NewTaskConsumerWithReader(
	reader MessageReader,
	topic, groupID string,
	handler ports.TaskHandler,
	logger *slog.Logger,
) *TaskConsumer {
	return &TaskConsumer{
		reader:  reader,
		handler: handler,
		topic:   topic,
		groupID: groupID,
		logger:  logger.With("component", "task_consumer", "topic", topic),
	}
}

// Run blocks until ctx is cancelled or the reader fails. Cancellation is a
// clean stop and returns nil.
func (c *TaskConsumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "task consumer started", "group_id", c.groupID)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.InfoContext(ctx, "task consumer stopped")
				return nil
			}
			return err
		}

		c.process(ctx, msg)

		// Shutdown interrupted the handler: leave the offset for the next member.
		if ctx.Err() != nil {
			c.logger.InfoContext(ctx, "task consumer stopped before commit", "offset", msg.Offset)
			return nil
		}

		if err = c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func (c *TaskConsumer) process(ctx context.Context, msg kafka.Message) {
	parentCtx := otel.GetTextMapPropagator().Extract(ctx, kafka_out.NewMessageCarrier(&msg))

	spanCtx, span := consumerTracer.Start(parentCtx, "process "+c.topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("process"),
			semconv.MessagingOperationTypeDeliver,
			semconv.MessagingDestinationName(c.topic),
			semconv.MessagingKafkaConsumerGroup(c.groupID),
			semconv.MessagingKafkaMessageOffset(int(msg.Offset)),
			semconv.MessagingDestinationPartitionID(strconv.Itoa(msg.Partition)),
			semconv.MessagingKafkaMessageKey(string(msg.Key)),
		),
	)
	defer span.End()

	var task notification.Task
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "undecodable task")
		c.logger.ErrorContext(spanCtx, "dropping undecodable task",
			"partition", msg.Partition, "offset", msg.Offset, "error", err)
		return
	}

	if err := c.handler.Handle(spanCtx, task); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.ErrorContext(spanCtx, "dropping failed task",
			"task_id", task.ID.String(), "kind", string(task.Kind), "order_id", task.OrderID.String(), "error", err)
	}
}

func (c *TaskConsumer) Close() error {
	return c.reader.Close()
}
