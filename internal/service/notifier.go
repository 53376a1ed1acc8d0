package service

import (
	"context"
	log "log/slog"
	"time"

	"realdeal/internal/pkg/consts"
	"realdeal/internal/pkg/kafka"
	"realdeal/internal/pkg/redis"

	"github.com/goccy/go-json"
)

// LevelNotifier 等级变动通知钩子
type LevelNotifier interface {
	LevelChanged(ctx context.Context, userID string, from, to int)
}

// LevelChangeMessage 推送给客户端的等级变动消息
type LevelChangeMessage struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	FromLevel int    `json:"from_level"`
	ToLevel   int    `json:"to_level"`
}

type engagementNotifier struct {
	producer kafka.EventProducer
}

// NewEngagementNotifier 把等级变动同时推到用户通知频道和互动事件主题。
// 两路都是尽力而为，失败只记日志。
func NewEngagementNotifier(producer kafka.EventProducer) LevelNotifier {
	return &engagementNotifier{producer: producer}
}

func (s *engagementNotifier) LevelChanged(ctx context.Context, userID string, from, to int) {
	msg := LevelChangeMessage{
		Type:      "level_change",
		UserID:    userID,
		FromLevel: from,
		ToLevel:   to,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.ErrorContext(ctx, "等级变动消息序列化失败", "userID", userID, "err", err)
		return
	}

	if err = redis.Publish(ctx, consts.UserNotifyChannelPrefix+userID, payload); err != nil {
		log.WarnContext(ctx, "等级变动推送失败", "userID", userID, "err", err)
	}

	if err = s.producer.Publish(kafka.EngagementEvent{
		Type:       kafka.EventLevelUp,
		UserID:     userID,
		Level:      to,
		OccurredAt: time.Now(),
	}); err != nil {
		log.WarnContext(ctx, "等级变动事件投递失败", "userID", userID, "err", err)
	}
}
