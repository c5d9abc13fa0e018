package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/scale-server/internal/app"
	"github.com/taoyao-code/scale-server/internal/metrics"
	"github.com/taoyao-code/scale-server/internal/protocol/adapter"
	"github.com/taoyao-code/scale-server/internal/protocol/ws16"
	"github.com/taoyao-code/scale-server/internal/session"
	"github.com/taoyao-code/scale-server/internal/sink"
	"github.com/taoyao-code/scale-server/internal/tcpserver"
)

// NewConnHandler 构建TCP连接处理器：组帧解码、会话绑定、读数落缓存并下发出口
// WS16帧不携带设备ID，秤以桥接连接的远端地址标识（一连接一秤）
func NewConnHandler(
	sess *session.Manager,
	latest *app.LatestStore,
	out sink.Sink,
	appm *metrics.AppMetrics,
	logger *zap.Logger,
) func(*tcpserver.ConnContext) {
	return func(cc *tcpserver.ConnContext) {
		scaleID := cc.RemoteAddr().String()

		wsAdapter := ws16.NewAdapter()
		if logger != nil {
			wsAdapter.SetLogger(logger)
		}

		var bound bool
		wsAdapter.OnReading(func(r *ws16.Reading) {
			now := time.Now()
			if !bound {
				bound = true
				sess.Bind(scaleID, cc)
				if logger != nil {
					logger.Info("scale online",
						zap.String("scale_id", scaleID),
						zap.Uint64("conn_id", cc.ID()))
				}
			}
			sess.OnReading(scaleID, now)
			latest.Put(scaleID, r, now)

			if appm != nil {
				appm.FrameTotal.WithLabelValues("ok").Inc()
				appm.ReadingTotal.Inc()
				appm.OnlineGauge.Set(float64(sess.OnlineCount(now)))
			}
			if logger != nil {
				logger.Debug("reading captured",
					zap.String("scale_id", scaleID),
					zap.String("weight", r.Weight),
					zap.String("units", r.Units),
					zap.String("status", r.Status.String()))
			}
			if out != nil {
				if err := out.Publish(context.Background(), sink.NewReadingEvent(scaleID, r)); err != nil && logger != nil {
					logger.Warn("reading event publish failed",
						zap.String("scale_id", scaleID),
						zap.Error(err))
				}
			}
		})

		wsAdapter.OnDecodeError(func(frame []byte, err error) {
			// 坏帧只计数，不中断连接；最坏情况是丢一次读数
			if appm != nil {
				appm.FrameTotal.WithLabelValues("error").Inc()
				appm.DecodeErrorTotal.WithLabelValues(ws16.Reason(err)).Inc()
			}
		})

		var adapters []adapter.Adapter
		adapters = append(adapters, wsAdapter)
		mux := tcpserver.NewMux(adapters...)
		if logger != nil {
			mux.SetLogger(logger)
		}
		mux.BindToConn(cc)

		go func() {
			<-cc.Done()
			if bound {
				sess.Unbind(scaleID)
				if appm != nil {
					appm.OnlineGauge.Set(float64(sess.OnlineCount(time.Now())))
				}
				if logger != nil {
					logger.Info("scale offline", zap.String("scale_id", scaleID))
				}
				if out != nil {
					_ = out.Publish(context.Background(), sink.NewOfflineEvent(scaleID))
				}
			}
		}()
	}
}
