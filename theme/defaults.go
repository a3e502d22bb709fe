package theme

import "strings"

// 品牌配色，只经由主题值对外提供。
var (
	primary = RGB(0.278, 0.121, 1.0)
	accent  = RGB(0.674, 0.666, 1.0)
	white   = RGB(1, 1, 1)
	black   = RGB(0, 0, 0)
)

// 内置主题名。
const (
	ClassicName  = "classic"
	CarouselName = "carousel"
)

func defaultPalette() map[string]Color {
	return map[string]Color{
		"primary": primary,
		"accent":  accent,
		"white":   white,
		"black":   black,
	}
}

// Classic 为 1080×1080 的方形主题：平铺遮罩、左侧色条、accent 色粗体。
func Classic() Theme {
	const w, h = 1080, 1080
	return Theme{
		Name:       ClassicName,
		Version:    "v1",
		Width:      w,
		Height:     h,
		Margin:     80,
		SafeBottom: 120,
		Palette:    defaultPalette(),
		Fonts:      Fonts{Regular: "embed:regular", Bold: "embed:bold"},
		Background: Background{Color: black, Blur: 2},
		Scrim:      Scrim{Kind: ScrimFlat, Color: black, Opacity: 0.40},
		Strip:      Strip{Width: 15, Color: accent},
		Brand: Brand{
			Name:  "NUERALOGIC",
			X:     80,
			Y:     100,
			Size:  32,
			Color: accent,
		},
		Title: TextStyle{
			X:           80,
			Y:           250,
			Width:       w - 2*80,
			Size:        75,
			LineSpacing: 1.45,
			Color:       white,
			BoldColor:   white,
			ForceBold:   true,
		},
		Body: TextStyle{
			X:           80,
			Gap:         80,
			GapFrom:     GapFromNextLine,
			Width:       w - 2*80,
			Size:        40,
			LineSpacing: 1.45,
			Color:       white,
			BoldColor:   accent,
		},
		Highlight: Highlight{PadLeft: 4, PadTop: 4, ExtraWidth: 2, ExtraHeight: 10},
		Footer: Footer{
			Text:   "nueralogic.com",
			Label:  "${index}",
			X:      80,
			LabelX: 980,
			Y:      1020,
			Size:   28,
			Color:  accent,
		},
		Meta: Meta{Title: "Nueralogic Carousel", Author: "Nueralogic", Creator: "carousel"},
	}
}

// Carousel 为 1080×1350 的竖版主题：左向右渐变遮罩、logo、粗体词高亮。
func Carousel() Theme {
	const w, h = 1080, 1350
	t := Classic()
	t.Name = CarouselName
	t.Width, t.Height = w, h
	t.SafeBottom = 80
	t.Background.Blur = 0
	t.Scrim = Scrim{
		Kind:   ScrimGradient,
		Color:  black,
		Extent: w * 9 / 10,
		Stops:  []GradientStop{{Offset: 0, Alpha: 0.8}, {Offset: 0.3, Alpha: 0.3}},
	}
	t.Strip = Strip{}
	t.Brand = Brand{
		Name:      "NUERALOGIC",
		X:         155,
		Y:         125,
		Size:      36,
		Bold:      true,
		Color:     accent,
		LogoX:     80,
		LogoY:     80,
		LogoWidth: 60,
	}
	t.Title = TextStyle{
		X:           80,
		Y:           350,
		Width:       w * 8 / 10,
		Size:        80,
		LineSpacing: 1.3,
		Color:       white,
		BoldColor:   white,
		ForceBold:   true,
	}
	t.Body = TextStyle{
		X:           80,
		Gap:         120,
		Width:       w * 7 / 10,
		Size:        42,
		LineSpacing: 1.3,
		Color:       white,
		BoldColor:   accent,
		Highlight:   true,
	}
	t.Footer = Footer{
		Text:   "nueralogic.com",
		Label:  "${index}",
		X:      80,
		LabelX: 970,
		Y:      1310,
		Size:   24,
		Color:  white.WithAlpha(0.5),
	}
	return t
}

// Lookup 按名称返回内置主题。
func Lookup(name string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ClassicName:
		return Classic(), true
	case CarouselName:
		return Carousel(), true
	default:
		return Theme{}, false
	}
}

// Names 列出内置主题名。
func Names() []string { return []string{ClassicName, CarouselName} }
