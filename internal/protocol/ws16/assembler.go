package ws16

import "bytes"

// Assembler 处理半包/粘包/夹噪的流式组帧器
// 单个实例只能由一条连接的读循环顺序驱动，Ingest同步返回、不阻塞
type Assembler struct {
	buf []byte
}

// NewAssembler 创建组帧器
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Buffered 返回当前未消费的字节数
func (a *Assembler) Buffered() int { return len(a.buf) }

// Ingest 追加一段原始字节并尽可能切出候选帧
// 候选帧为16字节拷贝，与内部缓冲不共享底层数组。
// 本方法从不报错：无法组帧的字节被丢弃并继续重新同步
func (a *Assembler) Ingest(chunk []byte) [][]byte {
	if len(chunk) > 0 {
		a.buf = append(a.buf, chunk...)
	}
	var frames [][]byte

	for len(a.buf) >= FrameLen {
		// 查找SOH；没有起始标记的字节不可能组成帧，整体丢弃
		start := bytes.IndexByte(a.buf, SOH)
		if start < 0 {
			a.buf = a.buf[:0]
			break
		}
		if start > 0 {
			// 丢弃SOH之前的无效前缀
			a.buf = a.buf[start:]
		}
		if len(a.buf) < FrameLen {
			// 半包，等待后续字节，不丢弃
			break
		}
		if a.buf[offSTX] != STX {
			// 伪起始：只滑过这一个SOH字节，继续同步
			a.buf = a.buf[1:]
			continue
		}
		frame := make([]byte, FrameLen)
		copy(frame, a.buf[:FrameLen])
		frames = append(frames, frame)
		a.buf = a.buf[FrameLen:]
	}
	return frames
}
