package deck

import (
	"image"
	"io"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ShivaSingh9927/Market-carousal/layout"
)

// PDFOptions 控制页面尺寸换算与文档信息。
type PDFOptions struct {
	DPI  float64 // 像素按此分辨率换算为页面尺寸，<=0 时取 72
	Meta Meta
}

// Meta 写入 PDF 文档信息。
type Meta struct {
	Title    string
	Subject  string
	Keywords []string
	Author   string
	Creator  string
}

// PDFDocument 以 github.com/tdewolff/canvas 的 PDF 渲染器输出，每页恰好容纳一张图像。
type PDFDocument struct {
	out    io.Writer
	opts   PDFOptions
	writer *pdf.PDF
}

// NewPDFDocument 创建写入 w 的 PDF 文档；首页尺寸在第一次 AddPage 时确定。
func NewPDFDocument(w io.Writer, opts PDFOptions) *PDFDocument {
	if opts.DPI <= 0 {
		opts.DPI = 72
	}
	return &PDFDocument{out: w, opts: opts}
}

// AddPage 新增与图像等大的一页并以原始分辨率铺满，不做缩放或旋转。
func (d *PDFDocument) AddPage(img image.Image) error {
	b := img.Bounds()
	width := layout.PixelsToMM(float64(b.Dx()), d.opts.DPI)
	height := layout.PixelsToMM(float64(b.Dy()), d.opts.DPI)

	if d.writer == nil {
		d.writer = pdf.New(d.out, width, height, nil)
		meta := d.opts.Meta
		d.writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)
	} else {
		d.writer.NewPage(width, height)
	}

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.DrawImage(0, 0, img, canvas.DPI(d.opts.DPI))
	c.RenderTo(d.writer)
	return nil
}

// Close 完成文档；没有任何页面时返回 ErrEmptyDeck。
func (d *PDFDocument) Close() error {
	if d.writer == nil {
		return ErrEmptyDeck
	}
	return d.writer.Close()
}
