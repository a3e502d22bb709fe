// Package theme 描述一套幻灯片视觉主题：画布尺寸、配色、遮罩、品牌、文字样式与页脚。
// Theme 是不可变的值，在构造合成器时传入，不存在进程级的全局主题。
package theme

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// Color 是归一化的 RGBA 颜色，各分量取值 [0,1]。
type Color struct {
	R, G, B, A float64
}

// RGB 构造不透明颜色。
func RGB(r, g, b float64) Color { return Color{R: r, G: g, B: b, A: 1} }

// WithAlpha 返回替换透明度后的颜色。
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// NRGBA 转换为 8 位非预乘颜色。
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ScrimKind 区分遮罩样式。
type ScrimKind int

const (
	ScrimNone ScrimKind = iota
	ScrimFlat
	ScrimGradient
)

func (k ScrimKind) String() string {
	switch k {
	case ScrimFlat:
		return "flat"
	case ScrimGradient:
		return "gradient"
	default:
		return "none"
	}
}

// GapAnchor 决定正文与标题的间距从哪条基线起算。
type GapAnchor int

const (
	// GapFromLastBaseline 从标题最后一行的基线起算。
	GapFromLastBaseline GapAnchor = iota
	// GapFromNextLine 从标题最后一行之后的下一条基线起算。
	GapFromNextLine
)

func (a GapAnchor) String() string {
	if a == GapFromNextLine {
		return "next"
	}
	return "last"
}

// GradientStop 是渐变遮罩上的一个透明度节点，Offset 为相对 Extent 的位置。
type GradientStop struct {
	Offset float64
	Alpha  float64
}

// Scrim 为文字提供对比度的半透明层。
type Scrim struct {
	Kind    ScrimKind
	Color   Color
	Opacity float64 // flat
	// Extent 为渐变终点的 x 坐标（像素）；最后一个节点之后保持其透明度。
	Extent float64
	Stops  []GradientStop
}

// AlphaAt 返回渐变遮罩在 x 处的透明度，节点之间线性插值。
func (s Scrim) AlphaAt(x float64) float64 {
	if len(s.Stops) == 0 || s.Extent <= 0 {
		return 0
	}
	t := x / s.Extent
	first, last := s.Stops[0], s.Stops[len(s.Stops)-1]
	if t <= first.Offset {
		return first.Alpha
	}
	if t >= last.Offset {
		return last.Alpha
	}
	for i := 1; i < len(s.Stops); i++ {
		a, b := s.Stops[i-1], s.Stops[i]
		if t <= b.Offset {
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Alpha
			}
			return a.Alpha + (b.Alpha-a.Alpha)*(t-a.Offset)/span
		}
	}
	return last.Alpha
}

// Background 控制背景图与空白背景。
type Background struct {
	Color Color   // 无背景图时的填充色
	Blur  float64 // 高斯模糊 sigma，<=0 不模糊
}

// Strip 是左侧的品牌色竖条，Width<=0 时不绘制。
type Strip struct {
	Width float64
	Color Color
}

// Brand 描述品牌字标与可选 logo。
type Brand struct {
	Name  string
	X, Y  float64 // 字标基线位置
	Size  float64
	Bold  bool
	Color Color

	Logo      string // logo 文件路径，可为空
	LogoX     float64
	LogoY     float64
	LogoWidth float64 // logo 等比缩放到的宽度
}

// TextStyle 描述标题或正文的排版参数。
type TextStyle struct {
	X           float64
	Y           float64 // 首行基线（标题）
	Gap         float64 // 正文首行基线与标题基线的间距，起点由 GapFrom 决定
	GapFrom     GapAnchor
	Width       float64 // 行宽预算
	Size        float64
	LineSpacing float64
	Color       Color
	BoldColor   Color // 粗体词颜色；开启 Highlight 时为高亮底色
	ForceBold   bool
	Highlight   bool // 在粗体词后绘制高亮矩形
}

// Highlight 定义高亮矩形相对字形的外扩量。
type Highlight struct {
	PadLeft     float64
	PadTop      float64
	ExtraWidth  float64
	ExtraHeight float64
}

// Footer 描述页脚网址与序号标签，两者均为 ${...} 模板。
type Footer struct {
	Text   string
	Label  string
	X      float64
	LabelX float64
	Y      float64
	Size   float64
	Color  Color
}

// Fonts 指定常规与粗体字体来源：embed:regular / embed:bold 或 TTF 文件路径。
type Fonts struct {
	Regular string
	Bold    string
}

// Meta 写入 PDF 文档信息。
type Meta struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Keywords []string
}

// Theme 汇总一套主题的全部常量。
type Theme struct {
	Name    string
	Version string

	Width, Height int
	Margin        float64
	SafeBottom    float64 // 距底边的安全距离，基线越过 Height-SafeBottom 的行被截断

	Palette    map[string]Color
	Fonts      Fonts
	Background Background
	Scrim      Scrim
	Strip      Strip
	Brand      Brand
	Title      TextStyle
	Body       TextStyle
	Highlight  Highlight
	Footer     Footer
	Meta       Meta
}

// SafeBottomY 返回截断基线的纵坐标。
func (t Theme) SafeBottomY() float64 {
	return float64(t.Height) - t.SafeBottom
}

// ErrInvalidTheme 表示主题常量不满足绘制前提。
var ErrInvalidTheme = errors.New("主题无效")

// Validate 检查尺寸、字号与透明度等取值。
func (t Theme) Validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: 画布尺寸必须为正 (%dx%d)", ErrInvalidTheme, t.Width, t.Height)
	}
	for name, style := range map[string]TextStyle{"title": t.Title, "body": t.Body} {
		if style.Width <= 0 || style.Size <= 0 {
			return fmt.Errorf("%w: text %s 的 width/size 必须为正", ErrInvalidTheme, name)
		}
	}
	if t.Brand.Name != "" && t.Brand.Size <= 0 {
		return fmt.Errorf("%w: brand size 必须为正", ErrInvalidTheme)
	}
	if t.Footer.Size <= 0 && (t.Footer.Text != "" || t.Footer.Label != "") {
		return fmt.Errorf("%w: footer size 必须为正", ErrInvalidTheme)
	}
	if t.Scrim.Opacity < 0 || t.Scrim.Opacity > 1 {
		return fmt.Errorf("%w: scrim opacity 超出 [0,1]: %g", ErrInvalidTheme, t.Scrim.Opacity)
	}
	prev := -1.0
	for _, stop := range t.Scrim.Stops {
		if stop.Offset < 0 || stop.Offset > 1 || stop.Offset < prev {
			return fmt.Errorf("%w: 渐变节点必须位于 [0,1] 且递增", ErrInvalidTheme)
		}
		if stop.Alpha < 0 || stop.Alpha > 1 {
			return fmt.Errorf("%w: 渐变透明度超出 [0,1]: %g", ErrInvalidTheme, stop.Alpha)
		}
		prev = stop.Offset
	}
	if t.Scrim.Kind == ScrimGradient && (t.Scrim.Extent <= 0 || len(t.Scrim.Stops) == 0) {
		return fmt.Errorf("%w: 渐变遮罩需要正的 extent 与至少一个节点", ErrInvalidTheme)
	}
	return nil
}

// clone 深拷贝调色板与关键词，使修改副本不影响原值。
func (t Theme) clone() Theme {
	palette := make(map[string]Color, len(t.Palette))
	for k, v := range t.Palette {
		palette[k] = v
	}
	t.Palette = palette
	t.Scrim.Stops = append([]GradientStop(nil), t.Scrim.Stops...)
	t.Meta.Keywords = append([]string(nil), t.Meta.Keywords...)
	return t
}
