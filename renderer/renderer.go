package renderer

import (
	"github.com/ShivaSingh9927/Market-carousal/layout"
	"github.com/ShivaSingh9927/Market-carousal/slides"
)

// SlideRenderer 将一张幻灯片合成为图像文件。
// total 为整套幻灯片的张数（页脚模板 ${total} 使用）；返回标题与正文的排版结果。
// 背景图缺失不视为错误；其余绘制或写入失败对该张幻灯片是致命的，由调用方决定跳过或中止。
type SlideRenderer interface {
	RenderSlide(rec slides.SlideRecord, total int, outPath string) (layout.SlideLayout, error)
}
