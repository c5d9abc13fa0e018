package ws16

import "errors"

var (
	// ErrMalformedLength 帧长度不是16字节
	ErrMalformedLength = errors.New("malformed frame length")
	// ErrInvalidMarkers SOH/STX/ETX/EOT 不在约定位置
	ErrInvalidMarkers = errors.New("invalid frame markers")
	// ErrInvalidSign 符号位不是'-'或' '
	ErrInvalidSign = errors.New("invalid sign byte")
	// ErrInvalidUnits 单位字段不是2字节可解码ASCII
	ErrInvalidUnits = errors.New("invalid units field")
	// ErrChecksumMismatch BCC校验失败
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Reason 返回解码错误的指标标签，非本包错误返回"other"
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedLength):
		return "malformed_length"
	case errors.Is(err, ErrInvalidMarkers):
		return "invalid_markers"
	case errors.Is(err, ErrInvalidSign):
		return "invalid_sign"
	case errors.Is(err, ErrInvalidUnits):
		return "invalid_units"
	case errors.Is(err, ErrChecksumMismatch):
		return "checksum_mismatch"
	default:
		return "other"
	}
}

// Decode 校验一帧候选报文并解码为Reading
// 纯函数，无共享状态，可并发调用。校验顺序固定：
// 长度 -> 标记字节 -> 符号位 -> 单位 -> BCC，首个失败即返回
func Decode(frame []byte) (*Reading, error) {
	if len(frame) != FrameLen {
		return nil, ErrMalformedLength
	}
	if frame[offSOH] != SOH || frame[offSTX] != STX || frame[offETX] != ETX || frame[offEOT] != EOT {
		return nil, ErrInvalidMarkers
	}
	sign := frame[offSign]
	if sign != SignNegative && sign != SignPositive {
		return nil, ErrInvalidSign
	}
	units := frame[offUnits : offUnits+unitsLen]
	if units[0] > 0x7F || units[1] > 0x7F {
		return nil, ErrInvalidUnits
	}
	if Checksum(frame) != frame[offBCC] {
		return nil, ErrChecksumMismatch
	}

	weight := string(frame[offWeight : offWeight+weightLen])
	if sign == SignNegative {
		weight = "-" + weight
	}
	return &Reading{
		Status:     statusOf(frame[offStatus]),
		Weight:     weight,
		Units:      string(units),
		Status2:    status2Of(frame[offStatus2]),
		IsPositive: sign != SignNegative,
	}, nil
}
