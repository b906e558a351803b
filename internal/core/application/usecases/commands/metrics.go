package commands

import (
	"context"
	"errors"

	"savannah/internal/core/domain/model/notification"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics holds the business counters recorded by command handlers.
type Metrics struct {
	ordersCreated       metric.Int64Counter
	notificationsSent   metric.Int64Counter
	notificationsFailed metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	ordersCreated, err1 := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Orders persisted by the create command"))
	sent, err2 := meter.Int64Counter("notifications_sent_total",
		metric.WithDescription("SMS notifications accepted by the provider"))
	failed, err3 := meter.Int64Counter("notifications_failed_total",
		metric.WithDescription("SMS notifications that could not be delivered"))
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, err
	}

	return &Metrics{
		ordersCreated:       ordersCreated,
		notificationsSent:   sent,
		notificationsFailed: failed,
	}, nil
}

// NopMetrics discards every measurement.
func NopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter("commands"))
	return m
}

func (m *Metrics) orderCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.ordersCreated.Add(ctx, 1)
}

func (m *Metrics) notificationSent(ctx context.Context, kind notification.Kind) {
	if m == nil {
		return
	}
	m.notificationsSent.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))
}

func (m *Metrics) notificationFailed(ctx context.Context, kind notification.Kind) {
	if m == nil {
		return
	}
	m.notificationsFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))
}
