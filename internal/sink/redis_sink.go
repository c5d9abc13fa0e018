package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	cfgpkg "github.com/taoyao-code/scale-server/internal/config"
	redisstorage "github.com/taoyao-code/scale-server/internal/storage/redis"
)

// RedisSink 将事件追加到 Redis Stream，消费方用 XREADGROUP 拉取
type RedisSink struct {
	client *redisstorage.Client
	stream string
	maxLen int64
}

// NewRedisSink 创建 Redis Stream 出口
func NewRedisSink(client *redisstorage.Client, cfg cfgpkg.RedisSinkConfig) *RedisSink {
	stream := cfg.Stream
	if stream == "" {
		stream = "scale:readings"
	}
	return &RedisSink{client: client, stream: stream, maxLen: cfg.MaxLen}
}

// Name 返回出口名
func (s *RedisSink) Name() string { return "redis" }

// Publish XADD 单条事件，流长度按 MaxLen 近似截断
func (s *RedisSink) Publish(ctx context.Context, e *Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"event_id":   e.EventID,
			"event_type": string(e.EventType),
			"scale_id":   e.ScaleID,
			"payload":    payload,
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
