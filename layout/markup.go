package layout

import (
	"regexp"
	"strings"
)

// boldSpan 以非贪婪方式匹配 <b>…</b>。未闭合或错位的标签不会被匹配，按字面文本保留。
var boldSpan = regexp.MustCompile(`(?s)<b>(.*?)</b>`)

// ParseMarkup 将含 <b>…</b> 的标记文本拆分为带字重的词。
// 粗体区间内的词标记为 Bold，其余为常规；词按空白切分，末尾保留一个空格。
// 显式换行会让其后的第一个词带上 Break 标记。
func ParseMarkup(markup string) []StyledToken {
	var tz tokenizer
	last := 0
	for _, m := range boldSpan.FindAllStringSubmatchIndex(markup, -1) {
		tz.add(markup[last:m[0]], false)
		tz.add(markup[m[2]:m[3]], true)
		last = m[1]
	}
	tz.add(markup[last:], false)
	return tz.tokens
}

// PlainText 返回去掉粗体标签、按单个空格拼接的正文。
func PlainText(tokens []StyledToken) string {
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		words = append(words, tok.Word())
	}
	return strings.Join(words, " ")
}

type tokenizer struct {
	tokens       []StyledToken
	pendingBreak bool
}

func (tz *tokenizer) add(segment string, bold bool) {
	if segment == "" {
		return
	}
	segment = strings.ReplaceAll(segment, "\r\n", "\n")
	for i, line := range strings.Split(segment, "\n") {
		if i > 0 && len(tz.tokens) > 0 {
			tz.pendingBreak = true
		}
		for _, word := range strings.Fields(line) {
			tz.tokens = append(tz.tokens, StyledToken{
				Text:  word + " ",
				Bold:  bold,
				Break: tz.pendingBreak,
			})
			tz.pendingBreak = false
		}
	}
}
