package ws16

import "go.uber.org/zap"

// ReadingHandler 解码成功回调
type ReadingHandler func(*Reading)

// DecodeErrorHandler 候选帧被拒绝回调，err为本包的分类错误
type DecodeErrorHandler func(frame []byte, err error)

// Adapter WS16 协议适配器：组帧 + 解码 + 回调分发
// 组帧器从不报错，坏帧只触发错误回调，不中断字节流
type Adapter struct {
	asm       *Assembler
	onReading ReadingHandler
	onError   DecodeErrorHandler
	logger    *zap.Logger
}

// NewAdapter 创建适配器
func NewAdapter() *Adapter {
	return &Adapter{asm: NewAssembler()}
}

// SetLogger 注入日志器（可选）
func (a *Adapter) SetLogger(l *zap.Logger) { a.logger = l }

// OnReading 安装读数回调
func (a *Adapter) OnReading(h ReadingHandler) { a.onReading = h }

// OnDecodeError 安装坏帧回调
func (a *Adapter) OnDecodeError(h DecodeErrorHandler) { a.onError = h }

// Sniff 初判是否为WS16协议（检查SOH/STX前缀）
func (a *Adapter) Sniff(prefix []byte) bool {
	if len(prefix) == 0 {
		return false
	}
	if prefix[0] != SOH {
		return false
	}
	return len(prefix) < 2 || prefix[1] == STX
}

// ProcessBytes 处理来自连接的原始字节流
func (a *Adapter) ProcessBytes(p []byte) error {
	for _, frame := range a.asm.Ingest(p) {
		reading, err := Decode(frame)
		if err != nil {
			if a.logger != nil {
				a.logger.Debug("ws16 frame rejected",
					zap.String("reason", Reason(err)),
					zap.Binary("frame", frame))
			}
			if a.onError != nil {
				a.onError(frame, err)
			}
			continue
		}
		if a.onReading != nil {
			a.onReading(reading)
		}
	}
	return nil
}
