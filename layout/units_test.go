package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

func TestFontSizePt(t *testing.T) {
	// 72pt 恰为 25.4mm，即 25.4 像素
	if got := FontSizePt(25.4); math.Abs(got-72) > 1e-9 {
		t.Fatalf("25.4px 应对应 72pt，实际 %g", got)
	}
}

func TestPixelsToMM(t *testing.T) {
	if got := PixelsToMM(72, 72); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("72px@72dpi 应为 25.4mm，实际 %g", got)
	}
	if got := PixelsToMM(96, 0); math.Abs(got-96*25.4/72) > 1e-9 {
		t.Fatalf("dpi<=0 应回退到 72，实际 %g", got)
	}
}

func TestLineHeight(t *testing.T) {
	if got := LineHeight(40, 1.45); math.Abs(got-58) > 1e-9 {
		t.Fatalf("40px × 1.45 期望 58，实际 %g", got)
	}
	if got := LineHeight(10, 0); math.Abs(got-10*DefaultLineSpacing) > 1e-9 {
		t.Fatalf("未指定行距应回退到默认值，实际 %g", got)
	}
}
