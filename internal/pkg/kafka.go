package pkg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// NotifyMessage 投递到 kafka 的通知载荷，下游推送服务消费
type NotifyMessage struct {
	RecipientID uint64            `json:"recipient_id"`
	Audience    string            `json:"audience"`
	Subject     string            `json:"subject"`
	Body        string            `json:"body"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type NotifyProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewNotifyProducer(cfg KafkaConfig) (*NotifyProducer, error) {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{}, // 按收件人分区，保证同一用户的通知有序
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &NotifyProducer{writer: w, topic: cfg.Topic}, nil
}

func (p *NotifyProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *NotifyProducer) Send(ctx context.Context, msg *NotifyMessage) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", msg.RecipientID)),
		Value: value,
	})
}
