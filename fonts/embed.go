// Package fonts 提供内置字体数据，使渲染不依赖系统字体。
package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体名。
const (
	Regular = "regular"
	Bold    = "bold"
)

var builtin = map[string][]byte{
	Regular: goregular.TTF,
	Bold:    gobold.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:bold" 或直接 "bold"。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, "embed:"))
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字体", name)
	}
	return data, nil
}

// IsBuiltin 报告 src 是否指向内置字体。
func IsBuiltin(src string) bool {
	return strings.HasPrefix(src, "embed:")
}
