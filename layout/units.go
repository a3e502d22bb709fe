package layout

// 画布以 1 单位 = 1 像素光栅化（canvas.DPMM(1)），而字体面的字号以 pt 计。
// 这里集中维护 pt、mm 与像素之间的换算。

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 1.0 / PtToMm
)

// DefaultLineSpacing 是未指定行距系数时的回退值。
const DefaultLineSpacing = 1.4

// FontSizePt 将像素字号换算为创建字体面所需的 pt 字号。
func FontSizePt(px float64) float64 { return px * MmToPt }

// PixelsToMM 将给定 DPI 下的像素长度换算为毫米（PDF 页面尺寸使用）。
func PixelsToMM(px, dpi float64) float64 {
	if dpi <= 0 {
		dpi = 72
	}
	return px * 25.4 / dpi
}

// LineHeight 返回字号与行距系数对应的基线间距。
func LineHeight(fontSize, spacing float64) float64 {
	if spacing <= 0 {
		spacing = DefaultLineSpacing
	}
	return fontSize * spacing
}
