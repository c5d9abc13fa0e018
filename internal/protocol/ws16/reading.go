package ws16

// Status 仪表主状态（帧偏移2）
type Status uint8

const (
	StatusUnknown  Status = iota // 未识别的状态码
	StatusStable                 // 'S' 稳定
	StatusUnstable               // 'U' 不稳定
	StatusOverload               // 'F' 超载
)

// String 返回状态名
func (s Status) String() string {
	switch s {
	case StatusStable:
		return "stable"
	case StatusUnstable:
		return "unstable"
	case StatusOverload:
		return "overload"
	default:
		return "unknown"
	}
}

// statusOf 状态码映射，未识别一律归Unknown，不报错
func statusOf(b byte) Status {
	switch b {
	case 'S':
		return StatusStable
	case 'U':
		return StatusUnstable
	case 'F':
		return StatusOverload
	default:
		return StatusUnknown
	}
}

// Status2 仪表副状态位（帧偏移15）
type Status2 uint8

const (
	Status2Unknown  Status2 = iota // 未识别的副状态
	Status2None                    // 0x00 无
	Status2Zero                    // 0x10 置零
	Status2Tare                    // 0x20 去皮
	Status2Overload                // 0x40 超载
)

// String 返回副状态名
func (s Status2) String() string {
	switch s {
	case Status2None:
		return "none"
	case Status2Zero:
		return "zero"
	case Status2Tare:
		return "tare"
	case Status2Overload:
		return "overload"
	default:
		return "unknown"
	}
}

func status2Of(b byte) Status2 {
	switch b {
	case 0x00:
		return Status2None
	case 0x10:
		return Status2Zero
	case 0x20:
		return Status2Tare
	case 0x40:
		return Status2Overload
	default:
		return Status2Unknown
	}
}

// Reading 一次通过校验的称重读数，解码成功后不再修改
// Weight 保留仪表原始数字格式（含前导零），负数带'-'前缀
type Reading struct {
	Status     Status  `json:"status"`
	Weight     string  `json:"weight"`
	Units      string  `json:"units"`
	Status2    Status2 `json:"status2"`
	IsPositive bool    `json:"isPositive"`
}
