package sink

import (
	"context"

	"go.uber.org/zap"

	"github.com/taoyao-code/scale-server/internal/metrics"
)

// Multi 将事件扇出到多个出口
// 单个出口失败只计数与记日志，不影响其他出口，也不回传给采集路径
type Multi struct {
	sinks  []Sink
	appm   *metrics.AppMetrics
	logger *zap.Logger
}

// NewMulti 创建扇出出口
func NewMulti(appm *metrics.AppMetrics, logger *zap.Logger, sinks ...Sink) *Multi {
	return &Multi{sinks: sinks, appm: appm, logger: logger}
}

// Name 返回出口名
func (m *Multi) Name() string { return "multi" }

// Publish 依次投递到每个出口
func (m *Multi) Publish(ctx context.Context, e *Event) error {
	for _, s := range m.sinks {
		err := s.Publish(ctx, e)
		result := "ok"
		if err != nil {
			result = "error"
			if m.logger != nil {
				m.logger.Warn("sink publish failed",
					zap.String("sink", s.Name()),
					zap.String("event_id", e.EventID),
					zap.String("scale_id", e.ScaleID),
					zap.Error(err))
			}
		}
		if m.appm != nil {
			m.appm.SinkPushTotal.WithLabelValues(s.Name(), result).Inc()
		}
	}
	return nil
}
