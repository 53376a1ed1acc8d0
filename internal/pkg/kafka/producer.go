package kafka

import (
	"time"

	"realdeal/internal/api/config"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// 互动事件类型
const (
	EventLevelUp    = "level_up"
	EventReaction   = "reaction"
	EventDailyBonus = "daily_bonus"
)

// EngagementEvent 投递到互动事件主题的消息体，供下游统计消费
type EngagementEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	EntityID   string    `json:"entity_id,omitempty"`
	Level      int       `json:"level,omitempty"`
	ExpDelta   int64     `json:"exp_delta,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventProducer 互动事件生产者
type EventProducer interface {
	Publish(event EngagementEvent) error
	Close() error
}

type syncProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewEventProducer 创建同步生产者；kafka 未启用时返回空实现
func NewEventProducer(cfg config.KafkaConfig) (EventProducer, error) {
	if !cfg.Enable {
		return noopProducer{}, nil
	}

	p, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}

	return &syncProducer{producer: p, topic: cfg.Topic}, nil
}

func (p *syncProducer) Publish(event EngagementEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal engagement event")
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.UserID),
		Value: sarama.ByteEncoder(payload),
	}

	if _, _, err = p.producer.SendMessage(msg); err != nil {
		return errors.Wrapf(err, "send %s event", event.Type)
	}
	return nil
}

func (p *syncProducer) Close() error {
	return p.producer.Close()
}

type noopProducer struct{}

func (noopProducer) Publish(EngagementEvent) error { return nil }
func (noopProducer) Close() error                  { return nil }
