package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/fjod/aquago-storefront/internal/checkout"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTopic   = "payment-returns"
	DefaultGroupID = "storefront"
)

// PaymentReturnedEvent is published when a payment gateway redirects a
// customer back to the merchant.
type PaymentReturnedEvent struct {
	OrderID string `json:"order_id"`
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Returner interface {
	Return(ctx context.Context, orderID string) checkout.Outcome
}

type Consumer struct {
	reader messageReader
	flow   Returner
	log    logrus.FieldLogger
}

func NewConsumer(flow Returner, log logrus.FieldLogger, topic, groupID string, brokers ...string) *Consumer {
	if topic == "" {
		topic = DefaultTopic
	}
	if groupID == "" {
		groupID = DefaultGroupID
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 1e6,
	})
	return newConsumer(reader, flow, log.WithField("topic", topic))
}

func newConsumer(reader messageReader, flow Returner, log logrus.FieldLogger) *Consumer {
	return &Consumer{reader: reader, flow: flow, log: log.WithField("component", "payment_consumer")}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.WithError(err).Error("error closing kafka reader")
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		c.log.WithError(err).Error("error reading message")
		return
	}

	log := c.log.WithField("offset", m.Offset)

	var event PaymentReturnedEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.WithError(err).Warn("skipping malformed payment event")
		return
	}
	orderID := strings.TrimSpace(event.OrderID)
	if orderID == "" {
		log.Warn("skipping payment event without order id")
		return
	}

	out := c.flow.Return(ctx, orderID)
	log.WithFields(logrus.Fields{
		"order_id":  orderID,
		"refreshed": out.Order != nil,
	}).Info("payment return processed")
}
