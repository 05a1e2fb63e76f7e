// Package publisher forwards decoded packets to a Kafka topic.
package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/NotCoffee418/p1_decoder/pkg/dsmr"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	log := logrus.WithField("component", "publisher")
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: time.Second,
			RequiredAcks: kafka.RequireAll,
			ErrorLogger:  kafka.LoggerFunc(log.Errorf),
		},
	}
}

// Publish sends one packet. Packets of one meter share a key so they stay
// ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, packet *dsmr.ParsedPacket) error {
	if err := p.writer.WriteMessages(ctx, buildMessage(packet)); err != nil {
		return fmt.Errorf("failed to publish packet: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func buildMessage(packet *dsmr.ParsedPacket) kafka.Message {
	key := packet.MeterType
	if packet.EquipmentID != nil {
		key = *packet.EquipmentID
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: packet.ToJsonBytes(),
	}
	if packet.Timestamp != nil {
		if t, err := time.Parse(time.RFC3339, *packet.Timestamp); err == nil {
			msg.Time = t
		}
	}
	return msg
}
