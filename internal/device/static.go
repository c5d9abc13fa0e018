package device

import "context"

// StaticLister 基于配置的固定设备清单
// TCP桥接部署下设备不可枚举，由运维在配置中登记已知秤
type StaticLister struct {
	devices []Descriptor
}

// NewStaticLister 创建固定清单
func NewStaticLister(devices []Descriptor) *StaticLister {
	return &StaticLister{devices: devices}
}

// ListDevices 返回配置的设备清单副本
func (l *StaticLister) ListDevices(ctx context.Context) ([]Descriptor, error) {
	out := make([]Descriptor, len(l.devices))
	copy(out, l.devices)
	return out, nil
}
