package layout

import "fmt"

// Wrap 使用贪心算法把词排入宽度不超过 maxWidth 的行。
// 若加入下一个词（含末尾空格）会超出宽度，则结束当前行并以该词开启新行；
// 单个超宽的词独占一行，不在词内拆分。
func Wrap(tokens []StyledToken, maxWidth, fontSize float64, m Metrics) []LayoutLine {
	if maxWidth <= 0 {
		panic(fmt.Sprintf("layout: 行宽必须为正，实际 %g", maxWidth))
	}
	if fontSize <= 0 {
		panic(fmt.Sprintf("layout: 字号必须为正，实际 %g", fontSize))
	}
	if m == nil {
		panic("layout: 缺少字形度量 Metrics")
	}

	var lines []LayoutLine
	var current LayoutLine
	for _, tok := range tokens {
		tok.Advance = m.Advance(tok.Text, tok.Bold, fontSize)
		if len(current.Tokens) > 0 && (tok.Break || current.Width+tok.Advance > maxWidth) {
			lines = append(lines, current)
			current = LayoutLine{}
		}
		current.Tokens = append(current.Tokens, tok)
		current.Width += tok.Advance
	}
	if len(current.Tokens) > 0 {
		lines = append(lines, current)
	}
	return lines
}

// Place 为每行分配基线：首行位于 startY，之后每行下移 lineHeight。
// 基线超过 safeBottom 的行及其后所有行被静默丢弃（不加省略号、不报错）。
func Place(lines []LayoutLine, startY, lineHeight, safeBottom float64) Block {
	block := Block{LineHeight: lineHeight, NextY: startY}
	y := startY
	for i, line := range lines {
		if safeBottom > 0 && y > safeBottom {
			block.Dropped = len(lines) - i
			break
		}
		line.Baseline = y
		block.Lines = append(block.Lines, line)
		y += lineHeight
	}
	block.NextY = y
	return block
}

// Layout 依次完成标记解析、折行与纵向放置。
func Layout(markup string, opts Options, m Metrics) Block {
	tokens := ParseMarkup(markup)
	if opts.ForceBold {
		for i := range tokens {
			tokens[i].Bold = true
		}
	}
	lines := Wrap(tokens, opts.MaxWidth, opts.FontSize, m)
	block := Place(lines, opts.StartY, LineHeight(opts.FontSize, opts.LineSpacing), opts.SafeBottom)
	block.FontSize = opts.FontSize
	return block
}
