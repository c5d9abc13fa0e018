package ws16

import (
	"errors"
	"testing"
)

func TestAdapter_Sniff(t *testing.T) {
	a := NewAdapter()
	if !a.Sniff([]byte{SOH, STX, 'S'}) {
		t.Error("valid prefix rejected")
	}
	if !a.Sniff([]byte{SOH}) {
		t.Error("single SOH prefix should pass sniff")
	}
	if a.Sniff([]byte{0xFC, 0xFE}) {
		t.Error("foreign magic accepted")
	}
	if a.Sniff(nil) {
		t.Error("empty prefix accepted")
	}
}

func TestAdapter_Callbacks(t *testing.T) {
	a := NewAdapter()
	var readings []*Reading
	var rejects []error
	a.OnReading(func(r *Reading) { readings = append(readings, r) })
	a.OnDecodeError(func(frame []byte, err error) { rejects = append(rejects, err) })

	good, _ := BuildFrame('S', false, []byte("001000"), []byte("kg"), 0x00)
	bad := append([]byte{}, good...)
	bad[12]++ // BCC损坏

	stream := append(append([]byte{}, good...), bad...)
	if err := a.ProcessBytes(stream); err != nil {
		t.Fatalf("process error: %v", err)
	}

	if len(readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(readings))
	}
	if readings[0].Weight != "001000" {
		t.Errorf("unexpected weight %s", readings[0].Weight)
	}
	if len(rejects) != 1 || !errors.Is(rejects[0], ErrChecksumMismatch) {
		t.Fatalf("expected 1 checksum reject, got %v", rejects)
	}
}

// 坏帧不得中断后续帧的处理
func TestAdapter_ContinuesAfterReject(t *testing.T) {
	a := NewAdapter()
	var count int
	a.OnReading(func(*Reading) { count++ })

	good, _ := BuildFrame('U', false, []byte("000500"), []byte("kg"), 0x10)
	bad := append([]byte{}, good...)
	bad[5] ^= 0xFF

	var stream []byte
	stream = append(stream, bad...)
	stream = append(stream, good...)
	_ = a.ProcessBytes(stream)

	if count != 1 {
		t.Fatalf("expected 1 reading after bad frame, got %d", count)
	}
}
