package ws16

import "errors"

// WS16 称重仪表串口协议：固定16字节帧
// 布局：SOH(1) | STX(1) | status(1) | sign(1) | weight[6] ASCII | units[2] ASCII | BCC(1) | ETX(1) | EOT(1) | status2(1)
const (
	SOH = 0x01 // 帧起始
	STX = 0x02 // 次起始
	ETX = 0x03 // 帧结束
	EOT = 0x04 // 传输结束

	SignNegative = 0x2D // '-'
	SignPositive = 0x20 // ' '

	// FrameLen 帧总长度（固定）
	FrameLen = 16
)

// 字段偏移
const (
	offSOH     = 0
	offSTX     = 1
	offStatus  = 2
	offSign    = 3
	offWeight  = 4 // 4..9，6字节ASCII数字
	offUnits   = 10 // 10..11，2字节ASCII
	offBCC     = 12
	offETX     = 13
	offEOT     = 14
	offStatus2 = 15

	weightLen = 6
	unitsLen  = 2
)

var (
	// ErrBadWeight 构帧时重量字段不是6字节
	ErrBadWeight = errors.New("weight must be exactly 6 bytes")
	// ErrBadUnits 构帧时单位字段不是2字节
	ErrBadUnits = errors.New("units must be exactly 2 bytes")
)

// Checksum 计算BCC：对 bytes[0..12) 逐字节异或，再与ETX异或
func Checksum(frame []byte) byte {
	var bcc byte
	for _, b := range frame[:offBCC] {
		bcc ^= b
	}
	return bcc ^ ETX
}

// BuildFrame 按字段值构造一帧合法报文（测试与模拟器使用）
// weight 6字节ASCII数字，units 2字节ASCII，negative 为真时符号位为'-'
func BuildFrame(status byte, negative bool, weight, units []byte, status2 byte) ([]byte, error) {
	if len(weight) != weightLen {
		return nil, ErrBadWeight
	}
	if len(units) != unitsLen {
		return nil, ErrBadUnits
	}
	f := make([]byte, FrameLen)
	f[offSOH] = SOH
	f[offSTX] = STX
	f[offStatus] = status
	f[offSign] = SignPositive
	if negative {
		f[offSign] = SignNegative
	}
	copy(f[offWeight:offWeight+weightLen], weight)
	copy(f[offUnits:offUnits+unitsLen], units)
	f[offBCC] = Checksum(f)
	f[offETX] = ETX
	f[offEOT] = EOT
	f[offStatus2] = status2
	return f, nil
}
