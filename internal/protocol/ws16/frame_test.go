package ws16

import (
	"encoding/hex"
	"testing"
)

// 协议文档示例帧：状态'S'，符号' '，重量"001000"，单位"kg"，status2=0x00
const goldenFrameHex = "010253203030313030306b677e030400"

func goldenFrame(t *testing.T) []byte {
	t.Helper()
	f, err := hex.DecodeString(goldenFrameHex)
	if err != nil {
		t.Fatalf("hex decode error: %v", err)
	}
	return f
}

func TestChecksum_Golden(t *testing.T) {
	f := goldenFrame(t)
	if got := Checksum(f); got != 0x7E {
		t.Errorf("expected BCC 0x7E, got 0x%02X", got)
	}
	if f[12] != 0x7E {
		t.Errorf("golden frame carries BCC 0x%02X", f[12])
	}
}

func TestBuildFrame_MatchesGolden(t *testing.T) {
	f, err := BuildFrame('S', false, []byte("001000"), []byte("kg"), 0x00)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if hex.EncodeToString(f) != goldenFrameHex {
		t.Errorf("built frame %x, want %s", f, goldenFrameHex)
	}
}

func TestBuildFrame_Negative(t *testing.T) {
	f, err := BuildFrame('S', true, []byte("001000"), []byte("kg"), 0x00)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if f[3] != SignNegative {
		t.Errorf("expected sign byte 0x2D, got 0x%02X", f[3])
	}
	// 符号位参与BCC计算
	if f[12] != Checksum(f) {
		t.Errorf("BCC not recomputed for negative sign")
	}
}

func TestBuildFrame_FieldLengths(t *testing.T) {
	if _, err := BuildFrame('S', false, []byte("1000"), []byte("kg"), 0); err != ErrBadWeight {
		t.Errorf("expected ErrBadWeight, got %v", err)
	}
	if _, err := BuildFrame('S', false, []byte("001000"), []byte("kgs"), 0); err != ErrBadUnits {
		t.Errorf("expected ErrBadUnits, got %v", err)
	}
}
