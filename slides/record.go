// Package slides 定义待渲染的幻灯片记录，并从内容计划 JSON 与素材目录中构建它们。
package slides

import (
	"errors"
	"fmt"
	"sort"
)

// SlideRecord 是一张待渲染的幻灯片，构建后只读。
type SlideRecord struct {
	Index          int    `json:"index"` // 从 1 开始，决定文件名、页脚序号与页面顺序
	Title          string `json:"title"`
	Body           string `json:"body"`
	BackgroundPath string `json:"backgroundPath,omitempty"` // 为空表示空白背景
}

var (
	// ErrNoSlides 表示计划中没有任何幻灯片。
	ErrNoSlides = errors.New("计划中没有幻灯片")
	// ErrDuplicateIndex 表示两张幻灯片使用了相同的序号。
	ErrDuplicateIndex = errors.New("幻灯片序号重复")
)

// SortByIndex 按序号升序稳定排序。
func SortByIndex(records []SlideRecord) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Index < records[j].Index })
}

// Validate 检查序号为正且唯一。
func Validate(records []SlideRecord) error {
	if len(records) == 0 {
		return ErrNoSlides
	}
	seen := make(map[int]struct{}, len(records))
	for _, rec := range records {
		if rec.Index < 1 {
			return fmt.Errorf("幻灯片序号必须从 1 开始，实际为 %d", rec.Index)
		}
		if _, ok := seen[rec.Index]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateIndex, rec.Index)
		}
		seen[rec.Index] = struct{}{}
	}
	return nil
}
