// Package binding 负责把幻灯片字段插入到页脚、品牌等文本模板中。
package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 或 ${path:%03d} 替换为 data 中的值。
// 冒号之后为 fmt 格式串；若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data map[string]any) string {
	if len(data) == 0 || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-1])
		path, format, hasFormat := strings.Cut(expr, ":")
		path = strings.TrimSpace(path)
		if path == "" {
			return match
		}
		val, ok := resolvePath(data, path)
		if !ok {
			return match
		}
		if hasFormat && strings.TrimSpace(format) != "" {
			return fmt.Sprintf(strings.TrimSpace(format), val)
		}
		return fmt.Sprint(val)
	})
}

// SlideData 构造页脚模板可用的字段：index 为两位补零的序号。
func SlideData(number, total int, brand string) map[string]any {
	return map[string]any{
		"index":  fmt.Sprintf("%02d", number),
		"number": number,
		"total":  total,
		"brand":  brand,
	}
}

func resolvePath(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
