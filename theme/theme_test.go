package theme

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ShivaSingh9927/Market-carousal/dsl"
)

func TestBuiltinThemesValidate(t *testing.T) {
	for _, name := range Names() {
		th, ok := Lookup(name)
		if !ok {
			t.Fatalf("builtin theme %s missing", name)
		}
		if err := th.Validate(); err != nil {
			t.Fatalf("builtin theme %s invalid: %v", name, err)
		}
	}
	if _, ok := Lookup("unknown"); ok {
		t.Fatalf("unknown theme should not resolve")
	}
}

func TestBuiltinVariants(t *testing.T) {
	classic := Classic()
	if classic.Width != 1080 || classic.Height != 1080 || classic.SafeBottomY() != 960 {
		t.Fatalf("unexpected classic canvas: %dx%d safe=%g", classic.Width, classic.Height, classic.SafeBottomY())
	}
	if classic.Scrim.Kind != ScrimFlat || classic.Scrim.Opacity != 0.40 || classic.Body.Highlight {
		t.Fatalf("unexpected classic scrim/highlight: %+v", classic.Scrim)
	}

	carousel := Carousel()
	if carousel.Height != 1350 || carousel.SafeBottomY() != 1270 {
		t.Fatalf("unexpected carousel canvas: %dx%d", carousel.Width, carousel.Height)
	}
	if carousel.Scrim.Kind != ScrimGradient || !carousel.Body.Highlight || carousel.Strip.Width != 0 {
		t.Fatalf("unexpected carousel styling: %+v", carousel)
	}
	if carousel.Body.Width != 756 {
		t.Fatalf("expected body width 0.7w=756, got %g", carousel.Body.Width)
	}
	// 方形主题的正文间距从标题下一条基线起算，竖版从最后一行基线起算。
	if classic.Body.GapFrom != GapFromNextLine || carousel.Body.GapFrom != GapFromLastBaseline {
		t.Fatalf("unexpected gap anchors: classic=%s carousel=%s", classic.Body.GapFrom, carousel.Body.GapFrom)
	}
}

func TestBuiltinThemesDoNotShareState(t *testing.T) {
	th := Classic()
	th.Palette["accent"] = RGB(1, 0, 0)
	th.Strip.Color = RGB(1, 0, 0)
	th.Title.Color.R = 0

	fresh := Classic()
	if fresh.Palette["accent"] != accent || fresh.Strip.Color != accent || fresh.Title.Color != white {
		t.Fatalf("changes to one theme value leaked into the next: %+v", fresh)
	}
	if Carousel().Brand.Color != accent {
		t.Fatalf("carousel brand color changed")
	}
}

func TestScrimAlphaAt(t *testing.T) {
	s := Carousel().Scrim
	cases := []struct {
		x, want float64
	}{
		{0, 0.8},
		{0.15 * 972, 0.55},
		{0.3 * 972, 0.3},
		{1080, 0.3},
	}
	for _, tc := range cases {
		if got := s.AlphaAt(tc.x); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("AlphaAt(%g) = %g, want %g", tc.x, got, tc.want)
		}
	}
	if got := (Scrim{}).AlphaAt(10); got != 0 {
		t.Fatalf("empty scrim should be transparent, got %g", got)
	}
}

func TestColorNRGBA(t *testing.T) {
	c := accent.WithAlpha(0.5).NRGBA()
	if c.R != 172 || c.G != 170 || c.B != 255 || c.A != 128 {
		t.Fatalf("unexpected NRGBA: %+v", c)
	}
}

const customTheme = `
theme Nueralogic v2 {
  meta {
    title: "Weekly Deck"
    keywords: ["ai", "growth"]
  }
  color brand = #ACAAFF
  color ink = [0.1, 0.2, 0.3]
  canvas {
    width: 1080
    height: 1350
    safe-bottom: 100px
  }
  scrim gradient {
    extent: 50%
    stop 0 0.9
    stop 1 0.2
  }
  strip {
    width: 0
  }
  brand {
    name: "ACME"
    bold: true
    color: brand
  }
  text body {
    width: 70%
    highlight: true
    bold-color: ink
  }
  footer {
    text: "acme.io"
    label: "${number}/${total}"
    opacity: 50%
  }
}
`

func TestBuildOverridesClassic(t *testing.T) {
	doc, err := dsl.ParseString(customTheme)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	th, err := Build(doc)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if th.Name != "Nueralogic" || th.Version != "v2" {
		t.Fatalf("unexpected name/version: %s %s", th.Name, th.Version)
	}
	if th.Height != 1350 || th.SafeBottomY() != 1250 {
		t.Fatalf("canvas not applied: %dx%d safe=%g", th.Width, th.Height, th.SafeBottomY())
	}
	if th.Scrim.Kind != ScrimGradient || th.Scrim.Extent != 540 || len(th.Scrim.Stops) != 2 {
		t.Fatalf("scrim not applied: %+v", th.Scrim)
	}
	if th.Strip.Width != 0 {
		t.Fatalf("strip should be disabled, got %g", th.Strip.Width)
	}
	if th.Brand.Name != "ACME" || !th.Brand.Bold || th.Brand.Color != th.Palette["brand"] {
		t.Fatalf("brand not applied: %+v", th.Brand)
	}
	if th.Body.Width != 756 || !th.Body.Highlight {
		t.Fatalf("body not applied: %+v", th.Body)
	}
	if th.Body.BoldColor != (Color{R: 0.1, G: 0.2, B: 0.3, A: 1}) {
		t.Fatalf("bold-color should resolve palette name, got %+v", th.Body.BoldColor)
	}
	if th.Footer.Label != "${number}/${total}" || th.Footer.Color.A != 0.5 {
		t.Fatalf("footer not applied: %+v", th.Footer)
	}
	if th.Meta.Title != "Weekly Deck" || len(th.Meta.Keywords) != 2 {
		t.Fatalf("meta not applied: %+v", th.Meta)
	}
	// 未声明的项沿用 classic。
	if th.Title.Size != 75 || th.Footer.Size != 28 {
		t.Fatalf("unset values should keep classic defaults: title=%g footer=%g", th.Title.Size, th.Footer.Size)
	}
	// 调色板不与内置主题共享。
	if _, ok := Classic().Palette["brand"]; ok {
		t.Fatalf("custom palette leaked into classic")
	}
}

func TestBuildErrorsNameKey(t *testing.T) {
	doc, err := dsl.ParseString("theme Broken v1 {\n  text title {\n    size: big\n  }\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Build(doc)
	if err == nil {
		t.Fatalf("expected error for malformed size")
	}
	if got := err.Error(); !strings.Contains(got, "text.size") {
		t.Fatalf("error should name the key, got %s", got)
	}
}

func TestBuildGapFrom(t *testing.T) {
	doc, err := dsl.ParseString("theme Gap v1 {\n  text body {\n    gap-from: last\n  }\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	th, err := Build(doc)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if th.Body.GapFrom != GapFromLastBaseline {
		t.Fatalf("gap-from not applied: %s", th.Body.GapFrom)
	}

	doc, err = dsl.ParseString("theme Gap v1 {\n  text body {\n    gap-from: middle\n  }\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := Build(doc); err == nil || !strings.Contains(err.Error(), "text.gap-from") {
		t.Fatalf("expected error naming text.gap-from, got %v", err)
	}
}

func TestBuildRejectsUnknownColor(t *testing.T) {
	doc, err := dsl.ParseString("theme Broken v1 {\n  strip {\n    color: magenta\n  }\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := Build(doc); err == nil {
		t.Fatalf("expected error for undefined color")
	}
}

func TestBuildValidates(t *testing.T) {
	doc, err := dsl.ParseString("theme Broken v1 {\n  scrim flat {\n    opacity: 1.5\n  }\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := Build(doc); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.theme")
	if err := os.WriteFile(path, []byte(customTheme), 0o644); err != nil {
		t.Fatalf("write theme: %v", err)
	}
	th, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if th.Brand.Name != "ACME" {
		t.Fatalf("unexpected brand: %s", th.Brand.Name)
	}

	builtin, err := Load("Carousel")
	if err != nil || builtin.Name != CarouselName {
		t.Fatalf("builtin lookup failed: %v %s", err, builtin.Name)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.theme")); err == nil {
		t.Fatalf("expected error for missing theme file")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("fff")
	if err != nil || c != white {
		t.Fatalf("short hex failed: %+v %v", c, err)
	}
	c, err = parseHexColor("00000080")
	if err != nil || c.A < 0.5 || c.A > 0.51 {
		t.Fatalf("alpha hex failed: %+v %v", c, err)
	}
	if _, err := parseHexColor("12345"); err == nil {
		t.Fatalf("expected error for bad length")
	}
}
