package tcpserver

import (
	"go.uber.org/zap"

	padapter "github.com/taoyao-code/scale-server/internal/protocol/adapter"
)

// Mux 协议复用器：首包前缀初判 -> 绑定适配器 -> 直通处理
// 当前只有WS16一种秤协议，保留复用器以便接入其他仪表协议
type Mux struct {
	adapters []padapter.Adapter
	logger   *zap.Logger
}

// NewMux 创建复用器
func NewMux(adapters ...padapter.Adapter) *Mux { return &Mux{adapters: adapters} }

// SetLogger 注入日志器（可选）
func (m *Mux) SetLogger(l *zap.Logger) { m.logger = l }

// BindToConn 为连接安装onRead，按首包前缀确定处理路径
func (m *Mux) BindToConn(cc *ConnContext) {
	var decided bool
	var handler func([]byte)

	cc.SetOnRead(func(p []byte) {
		if !decided {
			pref := p
			if len(pref) > 8 {
				pref = pref[:8]
			}
			for _, a := range m.adapters {
				if a.Sniff(pref) {
					aa := a
					handler = func(b []byte) { _ = aa.ProcessBytes(b) }
					decided = true
					break
				}
			}
			if !decided {
				// 首包可能以线路噪声开头，全部投递一次容错；
				// 适配器内部的组帧器会自行丢弃垃圾并重新同步
				if m.logger != nil {
					m.logger.Debug("protocol not identified on first packet",
						zap.String("remote_addr", cc.RemoteAddr().String()),
						zap.Int("data_len", len(p)))
				}
				for _, a := range m.adapters {
					_ = a.ProcessBytes(p)
				}
				return
			}
		}
		if handler != nil {
			handler(p)
		}
	})
}
