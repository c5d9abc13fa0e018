package device

import (
	"context"
	"errors"
	"io"
)

// 串口设备生命周期边界：枚举、打开、关闭由外部传输层实现
// 组帧/解码核心只消费字节流，不关心设备来自USB还是TCP桥接

var (
	// ErrPermissionDenied 打开设备被系统拒绝
	ErrPermissionDenied = errors.New("device permission denied")
	// ErrNotFound 设备不存在或已拔出
	ErrNotFound = errors.New("device not found")
)

// Descriptor 称重设备描述符
type Descriptor struct {
	Name      string `json:"name"`
	VendorID  int    `json:"vendorId"`
	ProductID int    `json:"productId"`
}

// Connection 一条已打开的设备字节流
type Connection interface {
	io.ReadCloser
}

// Lister 枚举可用设备
type Lister interface {
	ListDevices(ctx context.Context) ([]Descriptor, error)
}

// Opener 按描述符打开设备连接
type Opener interface {
	Open(ctx context.Context, d Descriptor) (Connection, error)
}
