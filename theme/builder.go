package theme

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ShivaSingh9927/Market-carousal/dsl"
)

// Build 以 classic 为底，按主题文件覆盖其中声明的项。
// 未知的命令与键被忽略；无法解析的数值或颜色返回带键名的错误。
func Build(doc *dsl.Document) (Theme, error) {
	if doc == nil {
		return Theme{}, fmt.Errorf("主题文档为空")
	}
	t := Classic().clone()
	t.Name = doc.Name
	t.Version = doc.Version

	// 颜色与画布尺寸先行，后续的颜色引用与百分比长度依赖它们。
	if err := eachCommand(doc, "color", func(cmd *dsl.Command) error { return applyColorDecl(&t, cmd) }); err != nil {
		return Theme{}, err
	}
	if err := eachCommand(doc, "canvas", func(cmd *dsl.Command) error { return applyCanvas(&t, cmd) }); err != nil {
		return Theme{}, err
	}

	for _, stmt := range doc.Statements {
		cmd := stmt.Command
		if cmd == nil {
			continue
		}
		var err error
		switch strings.ToLower(cmd.Name) {
		case "meta":
			err = applyMeta(&t, cmd)
		case "background":
			err = applyBackground(&t, cmd)
		case "scrim":
			err = applyScrim(&t, cmd)
		case "strip":
			err = applyStrip(&t, cmd)
		case "brand":
			err = applyBrand(&t, cmd)
		case "text":
			err = applyText(&t, cmd)
		case "fonts":
			err = applyFonts(&t, cmd)
		case "highlight":
			err = applyHighlight(&t, cmd)
		case "footer":
			err = applyFooter(&t, cmd)
		}
		if err != nil {
			return Theme{}, err
		}
	}

	if err := t.Validate(); err != nil {
		return Theme{}, fmt.Errorf("主题 %s: %w", t.Name, err)
	}
	return t, nil
}

// Load 解析主题：内置名称（classic/carousel）直接返回，否则按 .theme 文件读取。
func Load(nameOrPath string) (Theme, error) {
	if t, ok := Lookup(nameOrPath); ok {
		return t, nil
	}
	f, err := os.Open(nameOrPath)
	if err != nil {
		return Theme{}, fmt.Errorf("读取主题 %s 失败: %w", nameOrPath, err)
	}
	defer f.Close()

	doc, err := dsl.Parse(f)
	if err != nil {
		return Theme{}, fmt.Errorf("解析主题 %s 失败: %w", nameOrPath, err)
	}
	return Build(doc)
}

func applyColorDecl(t *Theme, cmd *dsl.Command) error {
	name := cmd.Arg(0)
	if name == "" {
		return fmt.Errorf("color 语句缺少名称")
	}
	rest := cmd.Args[1:]
	if len(rest) > 0 && rest[0].Value == "=" {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return fmt.Errorf("color %s 缺少取值", name)
	}
	c, err := parseColor(dsl.JoinLexemes(rest, ""), t.Palette)
	if err != nil {
		return fmt.Errorf("color %s: %w", name, err)
	}
	t.Palette[name] = c
	return nil
}

func applyCanvas(t *Theme, cmd *dsl.Command) error {
	return eachAssignment(cmd, func(key, val string) error {
		switch key {
		case "width":
			n, err := parseInt(val)
			if err != nil {
				return err
			}
			t.Width = n
		case "height":
			n, err := parseInt(val)
			if err != nil {
				return err
			}
			t.Height = n
		case "margin":
			return setLength(&t.Margin, val, float64(t.Width))
		case "safe-bottom":
			return setLength(&t.SafeBottom, val, float64(t.Height))
		case "background":
			return setColor(&t.Background.Color, val, t.Palette)
		}
		return nil
	})
}

func applyMeta(t *Theme, cmd *dsl.Command) error {
	for _, stmt := range cmd.Statements() {
		a := stmt.Assignment
		if a == nil {
			continue
		}
		switch strings.ToLower(a.Key) {
		case "title":
			t.Meta.Title = a.Value.Text()
		case "author":
			t.Meta.Author = a.Value.Text()
		case "subject":
			t.Meta.Subject = a.Value.Text()
		case "creator":
			t.Meta.Creator = a.Value.Text()
		case "keywords":
			t.Meta.Keywords = valueToStringSlice(a.Value)
		}
	}
	return nil
}

func applyBackground(t *Theme, cmd *dsl.Command) error {
	return eachAssignment(cmd, func(key, val string) error {
		switch key {
		case "blur":
			return setFloat(&t.Background.Blur, val)
		case "color":
			return setColor(&t.Background.Color, val, t.Palette)
		}
		return nil
	})
}

func applyScrim(t *Theme, cmd *dsl.Command) error {
	switch strings.ToLower(cmd.Arg(0)) {
	case "flat":
		t.Scrim.Kind = ScrimFlat
	case "gradient":
		t.Scrim.Kind = ScrimGradient
	case "none":
		t.Scrim.Kind = ScrimNone
	case "":
	default:
		return fmt.Errorf("scrim: 未知样式 %s", cmd.Arg(0))
	}

	var stops []GradientStop
	for _, stmt := range cmd.Statements() {
		if c := stmt.Command; c != nil && strings.EqualFold(c.Name, "stop") {
			offset, err := parseFraction(c.Arg(0))
			if err != nil {
				return fmt.Errorf("scrim stop: %w", err)
			}
			alpha, err := parseFraction(c.Arg(1))
			if err != nil {
				return fmt.Errorf("scrim stop: %w", err)
			}
			stops = append(stops, GradientStop{Offset: offset, Alpha: alpha})
		}
	}
	if len(stops) > 0 {
		t.Scrim.Stops = stops
	}

	return eachAssignment(cmd, func(key, val string) error {
		switch key {
		case "color":
			return setColor(&t.Scrim.Color, val, t.Palette)
		case "opacity":
			v, err := parseFraction(val)
			if err != nil {
				return err
			}
			t.Scrim.Opacity = v
		case "extent":
			return setLength(&t.Scrim.Extent, val, float64(t.Width))
		}
		return nil
	})
}

func applyStrip(t *Theme, cmd *dsl.Command) error {
	return eachAssignment(cmd, func(key, val string) error {
		switch key {
		case "width":
			return setLength(&t.Strip.Width, val, float64(t.Width))
		case "color":
			return setColor(&t.Strip.Color, val, t.Palette)
		}
		return nil
	})
}

func applyBrand(t *Theme, cmd *dsl.Command) error {
	b := &t.Brand
	w, h := float64(t.Width), float64(t.Height)
	return eachAssignment(cmd, func(key, val string) error {
		switch key {
		case "name":
			b.Name = val
		case "x":
			return setLength(&b.X, val, w)
		case "y":
			return setLength(&b.Y, val, h)
		case "size":
			return setFloat(&b.Size, val)
		case "bold":
			return setBool(&b.Bold, val)
		case "color":
			return setColor(&b.Color, val, t.Palette)
		case "logo":
			b.Logo = val
		case "logo-x":
			return setLength(&b.LogoX, val, w)
		case "logo-y":
			return setLength(&b.LogoY, val, h)
		case "logo-width":
			return setLength(&b.LogoWidth, val, w)
		}
		return nil
	})
}

func applyText(t *Theme, cmd *dsl.Command) error {
	var style *TextStyle
	switch strings.ToLower(cmd.Arg(0)) {
	case "title":
		style = &t.Title
	case "body":
		style = &t.Body
	default:
		return fmt.Errorf("text 语句需要 title 或 body，实际为 %q", cmd.Arg(0))
	}
	w, h := float64(t.Width), float64(t.Height)
	return eachAssignment(cmd, func(key, val string) error {
		switch key {
		case "x":
			return setLength(&style.X, val, w)
		case "y":
			return setLength(&style.Y, val, h)
		case "gap":
			return setLength(&style.Gap, val, h)
		case "gap-from":
			switch strings.ToLower(val) {
			case "last":
				style.GapFrom = GapFromLastBaseline
			case "next":
				style.GapFrom = GapFromNextLine
			default:
				return fmt.Errorf("需要 last 或 next，实际为 %q", val)
			}
		case "width":
			return setLength(&style.Width, val, w)
		case "size":
			return setFloat(&style.Size, val)
		case "line-spacing":
			return setFloat(&style.LineSpacing, val)
		case "color":
			return setColor(&style.Color, val, t.Palette)
		case "bold-color":
			return setColor(&style.BoldColor, val, t.Palette)
		case "force-bold":
			return setBool(&style.ForceBold, val)
		case "highlight":
			return setBool(&style.Highlight, val)
		}
		return nil
	})
}

func applyFonts(t *Theme, cmd *dsl.Command) error {
	return eachAssignment(cmd, func(key, val string) error {
		switch key {
		case "regular":
			t.Fonts.Regular = val
		case "bold":
			t.Fonts.Bold = val
		}
		return nil
	})
}

func applyHighlight(t *Theme, cmd *dsl.Command) error {
	hl := &t.Highlight
	return eachAssignment(cmd, func(key, val string) error {
		switch key {
		case "pad-left":
			return setFloat(&hl.PadLeft, val)
		case "pad-top":
			return setFloat(&hl.PadTop, val)
		case "extra-width":
			return setFloat(&hl.ExtraWidth, val)
		case "extra-height":
			return setFloat(&hl.ExtraHeight, val)
		}
		return nil
	})
}

func applyFooter(t *Theme, cmd *dsl.Command) error {
	f := &t.Footer
	w, h := float64(t.Width), float64(t.Height)
	return eachAssignment(cmd, func(key, val string) error {
		switch key {
		case "text":
			f.Text = val
		case "label":
			f.Label = val
		case "x":
			return setLength(&f.X, val, w)
		case "label-x":
			return setLength(&f.LabelX, val, w)
		case "y":
			return setLength(&f.Y, val, h)
		case "size":
			return setFloat(&f.Size, val)
		case "color":
			return setColor(&f.Color, val, t.Palette)
		case "opacity":
			v, err := parseFraction(val)
			if err != nil {
				return err
			}
			f.Color.A = v
		}
		return nil
	})
}

func eachCommand(doc *dsl.Document, name string, fn func(*dsl.Command) error) error {
	for _, stmt := range doc.Statements {
		if cmd := stmt.Command; cmd != nil && strings.EqualFold(cmd.Name, name) {
			if err := fn(cmd); err != nil {
				return err
			}
		}
	}
	return nil
}

// eachAssignment 遍历命令体内的 key: value，错误信息附带命令名与键名。
func eachAssignment(cmd *dsl.Command, fn func(key, val string) error) error {
	for _, stmt := range cmd.Statements() {
		a := stmt.Assignment
		if a == nil {
			continue
		}
		key := strings.ToLower(a.Key)
		if err := fn(key, a.Value.Text()); err != nil {
			return fmt.Errorf("%s.%s: %w", cmd.Name, key, err)
		}
	}
	return nil
}

func setFloat(dst *float64, val string) error {
	v, err := parseNumber(val)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setBool(dst *bool, val string) error {
	v, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return fmt.Errorf("布尔值 %q 无法解析", val)
	}
	*dst = v
	return nil
}

func setColor(dst *Color, val string, palette map[string]Color) error {
	c, err := parseColor(val, palette)
	if err != nil {
		return err
	}
	*dst = c
	return nil
}

// setLength 解析像素长度；百分比相对 base 计算。
func setLength(dst *float64, val string, base float64) error {
	v, err := parseLength(val, base)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func parseLength(value string, base float64) (float64, error) {
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "%") {
		v, err := parseNumber(strings.TrimSuffix(value, "%"))
		if err != nil {
			return 0, err
		}
		return v * base / 100, nil
	}
	return parseNumber(strings.TrimSuffix(value, "px"))
}

func parseNumber(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("数值 %q 无法解析", value)
	}
	return v, nil
}

func parseInt(value string) (int, error) {
	v, err := parseNumber(strings.TrimSuffix(strings.TrimSpace(value), "px"))
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// parseFraction 接受 0.4 或 40% 两种写法。
func parseFraction(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "%") {
		v, err := parseNumber(strings.TrimSuffix(value, "%"))
		return v / 100, err
	}
	return parseNumber(value)
}

// parseColor 支持 #RGB、#RRGGBB、#RRGGBBAA、归一化的 [r,g,b] / [r,g,b,a] 以及调色板中的名称。
func parseColor(value string, palette map[string]Color) (Color, error) {
	value = strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(value, "#"):
		return parseHexColor(strings.TrimPrefix(value, "#"))
	case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
		parts := strings.Split(strings.Trim(value, "[]"), ",")
		if len(parts) != 3 && len(parts) != 4 {
			return Color{}, fmt.Errorf("颜色值 %s 需要 3 或 4 个分量", value)
		}
		comps := []float64{0, 0, 0, 1}
		for i, p := range parts {
			v, err := parseNumber(p)
			if err != nil {
				return Color{}, err
			}
			if v < 0 || v > 1 {
				return Color{}, fmt.Errorf("颜色分量 %g 超出 [0,1]", v)
			}
			comps[i] = v
		}
		return Color{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
	default:
		if c, ok := palette[value]; ok {
			return c, nil
		}
		return Color{}, fmt.Errorf("颜色 %s 未定义", value)
	}
}

func parseHexColor(hex string) (Color, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("颜色值 #%s 无法解析", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 #%s 无法解析", hex)
	}
	alpha := 1.0
	if len(hex) == 8 {
		alpha = float64(v&0xff) / 255
		v >>= 8
	}
	return Color{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: alpha,
	}, nil
}

func valueToStringSlice(v *dsl.Value) []string {
	if v == nil {
		return nil
	}
	if v.Array == nil {
		if s := v.Text(); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		out = append(out, item.Text())
	}
	return out
}
