package adapter

// Adapter 统一协议适配器接口：供网关复用器绑定连接
// 要求：
// - Sniff 用首包前缀初判协议归属
// - ProcessBytes 消费连接的原始字节流（内部自行处理半包/粘包与再同步）
type Adapter interface {
	Sniff(prefix []byte) bool
	ProcessBytes(p []byte) error
}
