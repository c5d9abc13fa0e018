package sink

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taoyao-code/scale-server/internal/protocol/ws16"
)

// EventType 事件类型
type EventType string

const (
	// EventReadingCaptured 采集到一次有效读数
	EventReadingCaptured EventType = "reading.captured"
	// EventScaleOffline 秤的桥接连接断开
	EventScaleOffline EventType = "scale.offline"
)

// Event 下发给消费方的标准事件
type Event struct {
	EventID   string        `json:"event_id"` // 唯一ID，消费方据此去重
	EventType EventType     `json:"event_type"`
	ScaleID   string        `json:"scale_id"`
	Timestamp int64         `json:"timestamp"` // Unix秒
	Reading   *ws16.Reading `json:"reading,omitempty"`
}

// NewReadingEvent 构造读数事件
func NewReadingEvent(scaleID string, r *ws16.Reading) *Event {
	return &Event{
		EventID:   uuid.NewString(),
		EventType: EventReadingCaptured,
		ScaleID:   scaleID,
		Timestamp: time.Now().Unix(),
		Reading:   r,
	}
}

// NewOfflineEvent 构造离线事件
func NewOfflineEvent(scaleID string) *Event {
	return &Event{
		EventID:   uuid.NewString(),
		EventType: EventScaleOffline,
		ScaleID:   scaleID,
		Timestamp: time.Now().Unix(),
	}
}

// Sink 读数出口。实现必须可并发调用
type Sink interface {
	Name() string
	Publish(ctx context.Context, e *Event) error
}

// Nop 丢弃一切事件（未配置出口时使用）
type Nop struct{}

// Name 返回出口名
func (Nop) Name() string { return "nop" }

// Publish 丢弃事件
func (Nop) Publish(ctx context.Context, e *Event) error { return nil }
