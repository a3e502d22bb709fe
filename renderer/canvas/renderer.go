package canvasrenderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ShivaSingh9927/Market-carousal/binding"
	"github.com/ShivaSingh9927/Market-carousal/fonts"
	"github.com/ShivaSingh9927/Market-carousal/layout"
	"github.com/ShivaSingh9927/Market-carousal/renderer"
	"github.com/ShivaSingh9927/Market-carousal/slides"
	"github.com/ShivaSingh9927/Market-carousal/theme"
)

// Renderer 按主题合成幻灯片：位图底层（背景、遮罩、色条、logo）之上叠加
// github.com/tdewolff/canvas 绘制的矢量层（字标、标题、正文、页脚）。
// 画布以 1 单位 = 1 像素光栅化，原点在左上角，y 轴向下。
type Renderer struct {
	theme   theme.Theme
	baseDir string
	logo    image.Image

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var (
	_ renderer.SlideRenderer = (*Renderer)(nil)
	_ layout.Metrics         = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string // 解析相对的字体与 logo 路径
}

// NewRenderer 创建合成器。主题在此处校验，字体在此处加载，之后测量不会失败。
func NewRenderer(th theme.Theme, opts Options) (*Renderer, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{
		theme:        th,
		baseDir:      opts.BaseDir,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	if _, err := r.ensureFontFamily(); err != nil {
		return nil, err
	}
	if th.Brand.Logo != "" {
		r.logo = r.loadLogo(th.Brand.Logo)
	}
	return r, nil
}

// Theme 返回合成器使用的主题。
func (r *Renderer) Theme() theme.Theme { return r.theme }

// RenderSlide 合成幻灯片并写入 PNG。
func (r *Renderer) RenderSlide(rec slides.SlideRecord, total int, outPath string) (layout.SlideLayout, error) {
	img, slideLayout, err := r.Compose(rec, total)
	if err != nil {
		return slideLayout, err
	}
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return slideLayout, fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := imaging.Save(img, outPath); err != nil {
		return slideLayout, fmt.Errorf("写入幻灯片 %d 失败: %w", rec.Index, err)
	}
	return slideLayout, nil
}

// Compose 按固定层序在内存中合成一张幻灯片：
// 背景 → 遮罩 → 色条 → 品牌（logo、字标）→ 标题 → 正文 → 页脚。
func (r *Renderer) Compose(rec slides.SlideRecord, total int) (*image.NRGBA, layout.SlideLayout, error) {
	th := r.theme
	slideLayout := layout.SlideLayout{Index: rec.Index}

	base, err := r.paintBackground(rec)
	if err != nil {
		return nil, slideLayout, err
	}
	base = r.paintScrim(base)
	r.paintStrip(base)
	if r.logo != nil {
		base = imaging.Overlay(base, r.logo, image.Pt(round(th.Brand.LogoX), round(th.Brand.LogoY)), 1.0)
	}

	c := canvas.New(float64(th.Width), float64(th.Height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点

	r.drawBrand(ctx)

	slideLayout.Title = layout.Layout(rec.Title, layout.Options{
		MaxWidth:    th.Title.Width,
		FontSize:    th.Title.Size,
		LineSpacing: th.Title.LineSpacing,
		StartY:      th.Title.Y,
		SafeBottom:  th.SafeBottomY(),
		ForceBold:   th.Title.ForceBold,
	}, r)
	r.drawBlock(ctx, slideLayout.Title, th.Title, false)

	slideLayout.Body = layout.Layout(rec.Body, layout.Options{
		MaxWidth:    th.Body.Width,
		FontSize:    th.Body.Size,
		LineSpacing: th.Body.LineSpacing,
		StartY:      bodyStartY(slideLayout.Title, th.Body),
		SafeBottom:  th.SafeBottomY(),
		ForceBold:   th.Body.ForceBold,
	}, r)
	r.drawBlock(ctx, slideLayout.Body, th.Body, th.Body.Highlight)

	r.drawFooter(ctx, rec.Index, total)

	if slideLayout.Title.Truncated() || slideLayout.Body.Truncated() {
		log.Debug().
			Int("slide", rec.Index).
			Int("titleDropped", slideLayout.Title.Dropped).
			Int("bodyDropped", slideLayout.Body.Dropped).
			Msg("文字越过安全底线，已截断")
	}

	overlay := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	return imaging.Overlay(base, overlay, image.Pt(0, 0), 1.0), slideLayout, nil
}

// Advance 实现 layout.Metrics。
func (r *Renderer) Advance(text string, bold bool, size float64) float64 {
	return r.fontFace(bold, size, color.Black).TextWidth(text)
}

// Extents 实现 layout.Metrics。
func (r *Renderer) Extents(bold bool, size float64) (ascent, descent float64) {
	metrics := r.fontFace(bold, size, color.Black).Metrics()
	return metrics.Ascent, math.Abs(metrics.Descent)
}

// paintBackground 以 max(宽比, 高比) 等比缩放背景图铺满画布并锚定在原点，超出部分裁掉。
// 背景图缺失时保留空白画布；文件存在但无法解码则返回错误。
func (r *Renderer) paintBackground(rec slides.SlideRecord) (*image.NRGBA, error) {
	th := r.theme
	base := imaging.New(th.Width, th.Height, th.Background.Color.NRGBA())
	if rec.BackgroundPath == "" {
		return base, nil
	}
	if _, err := os.Stat(rec.BackgroundPath); errors.Is(err, os.ErrNotExist) {
		log.Warn().Int("slide", rec.Index).Str("path", rec.BackgroundPath).Msg("背景图不存在，使用空白背景")
		return base, nil
	}

	src, err := imaging.Open(rec.BackgroundPath)
	if err != nil {
		return nil, fmt.Errorf("解码幻灯片 %d 的背景图 %s 失败: %w", rec.Index, rec.BackgroundPath, err)
	}
	if th.Background.Blur > 0 {
		src = imaging.Blur(src, th.Background.Blur)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("幻灯片 %d 的背景图 %s 尺寸为空", rec.Index, rec.BackgroundPath)
	}
	scale := math.Max(float64(th.Width)/float64(b.Dx()), float64(th.Height)/float64(b.Dy()))
	w := int(math.Ceil(float64(b.Dx()) * scale))
	h := int(math.Ceil(float64(b.Dy()) * scale))
	scaled := imaging.Resize(src, w, h, imaging.Lanczos)
	return imaging.Paste(base, scaled, image.Pt(0, 0)), nil
}

// paintScrim 绘制平铺或左向右渐变的半透明遮罩。
func (r *Renderer) paintScrim(base *image.NRGBA) *image.NRGBA {
	s := r.theme.Scrim
	switch s.Kind {
	case theme.ScrimFlat:
		if s.Opacity <= 0 {
			return base
		}
		layer := imaging.New(base.Bounds().Dx(), base.Bounds().Dy(), s.Color.WithAlpha(1).NRGBA())
		return imaging.Overlay(base, layer, image.Pt(0, 0), s.Opacity)
	case theme.ScrimGradient:
		h := base.Bounds().Dy()
		for x := 0; x < base.Bounds().Dx(); x++ {
			alpha := s.AlphaAt(float64(x) + 0.5)
			if alpha <= 0 {
				continue
			}
			col := image.NewUniform(s.Color.WithAlpha(alpha).NRGBA())
			draw.Draw(base, image.Rect(x, 0, x+1, h), col, image.Point{}, draw.Over)
		}
	}
	return base
}

func (r *Renderer) paintStrip(base *image.NRGBA) {
	strip := r.theme.Strip
	if strip.Width <= 0 {
		return
	}
	rect := image.Rect(0, 0, round(strip.Width), base.Bounds().Dy())
	draw.Draw(base, rect, image.NewUniform(strip.Color.NRGBA()), image.Point{}, draw.Over)
}

func (r *Renderer) drawBrand(ctx *canvas.Context) {
	brand := r.theme.Brand
	if brand.Name == "" {
		return
	}
	face := r.fontFace(brand.Bold, brand.Size, brand.Color.NRGBA())
	ctx.DrawText(brand.X, brand.Y, canvas.NewTextLine(face, brand.Name, canvas.Left))
}

// drawBlock 逐词绘制已排版的文字。开启 highlight 时，粗体词先绘制底色矩形再绘制字形，
// 字形使用常规颜色；否则粗体词使用 BoldColor。
func (r *Renderer) drawBlock(ctx *canvas.Context, block layout.Block, style theme.TextStyle, highlight bool) {
	hl := r.theme.Highlight
	for _, line := range block.Lines {
		x := style.X
		for _, tok := range line.Tokens {
			col := style.Color
			if tok.Bold && highlight {
				ascent, descent := r.Extents(true, style.Size)
				ctx.SetFillColor(style.BoldColor.NRGBA())
				ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
				ctx.DrawPath(x-hl.PadLeft, line.Baseline-ascent-hl.PadTop,
					canvas.Rectangle(tok.Advance+hl.ExtraWidth, ascent+descent+hl.ExtraHeight))
			} else if tok.Bold {
				col = style.BoldColor
			}
			face := r.fontFace(tok.Bold, style.Size, col.NRGBA())
			ctx.DrawText(x, line.Baseline, canvas.NewTextLine(face, tok.Text, canvas.Left))
			x += tok.Advance
		}
	}
}

// drawFooter 在左下角绘制网址，在右下角绘制序号标签。
func (r *Renderer) drawFooter(ctx *canvas.Context, index, total int) {
	footer := r.theme.Footer
	if footer.Size <= 0 {
		return
	}
	data := binding.SlideData(index, total, r.theme.Brand.Name)
	face := r.fontFace(false, footer.Size, footer.Color.NRGBA())
	if text := binding.Interpolate(footer.Text, data); text != "" {
		ctx.DrawText(footer.X, footer.Y, canvas.NewTextLine(face, text, canvas.Left))
	}
	if label := binding.Interpolate(footer.Label, data); label != "" {
		ctx.DrawText(footer.LabelX, footer.Y, canvas.NewTextLine(face, label, canvas.Left))
	}
}

// fontFace 以像素字号创建字体面；字体面的字号以 pt 计，这里做一次 px→pt。
func (r *Renderer) fontFace(bold bool, sizePx float64, col color.Color) *canvas.FontFace {
	family, err := r.ensureFontFamily()
	if err != nil {
		// 构造时已成功加载过同一字体族
		panic(err)
	}
	style := canvas.FontRegular
	if bold {
		style = canvas.FontBold
	}
	return family.Face(layout.FontSizePt(sizePx), col, style, canvas.FontNormal)
}

func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	fontsCfg := r.theme.Fonts
	key := fontsCfg.Regular + "|" + fontsCfg.Bold
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}

	family := canvas.NewFontFamily(r.theme.Name)
	for _, f := range []struct {
		src   string
		style canvas.FontStyle
	}{
		{fontsCfg.Regular, canvas.FontRegular},
		{fontsCfg.Bold, canvas.FontBold},
	} {
		data, err := r.loadFontBytes(f.src)
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, f.style); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", f.src, err)
		}
	}
	r.fontFamilies[key] = family
	return family, nil
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体缺少 src")
	}
	if fonts.IsBuiltin(src) {
		return fonts.Load(src)
	}
	path := r.resolvePath(src)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// loadLogo 解码并等比缩放 logo；缺失或无法解码时记录警告并省略 logo。
func (r *Renderer) loadLogo(src string) image.Image {
	path := r.resolvePath(src)
	img, err := imaging.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("logo 不可用，已省略")
		return nil
	}
	if w := round(r.theme.Brand.LogoWidth); w > 0 {
		return imaging.Resize(img, w, 0, imaging.Lanczos)
	}
	return img
}

func (r *Renderer) resolvePath(p string) string {
	if r.baseDir == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "~") {
		return p
	}
	return filepath.Join(r.baseDir, p)
}

// bodyStartY 返回正文首行基线：标题基线加上间距，起点由 GapFrom 选择。
func bodyStartY(title layout.Block, body theme.TextStyle) float64 {
	if body.GapFrom == theme.GapFromNextLine {
		return title.NextY + body.Gap
	}
	return title.LastBaseline() + body.Gap
}

func round(v float64) int { return int(math.Round(v)) }
