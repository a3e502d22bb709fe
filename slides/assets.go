package slides

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"
)

// BackgroundCandidates 返回第 index 张幻灯片背景图的候选文件名，按优先级排列。
func BackgroundCandidates(index int) []string {
	return []string{
		fmt.Sprintf("slide_%d.png", index),
		fmt.Sprintf("bg_%d.png", index),
		fmt.Sprintf("slide_%02d.png", index),
	}
}

// FindBackground 在 dir 中查找第 index 张幻灯片的背景图。
func FindBackground(dir string, index int) (string, bool) {
	for _, name := range BackgroundCandidates(index) {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// ResolveBackgrounds 为未显式指定背景的记录在 dir 中查找背景图。
// 显式的相对路径按 dir 解析；找不到的背景保持为空，渲染时使用空白背景。
func ResolveBackgrounds(records []SlideRecord, dir string) []SlideRecord {
	out := make([]SlideRecord, len(records))
	for i, rec := range records {
		switch {
		case rec.BackgroundPath != "":
			if !filepath.IsAbs(rec.BackgroundPath) {
				rec.BackgroundPath = filepath.Join(dir, rec.BackgroundPath)
			}
		default:
			if path, ok := FindBackground(dir, rec.Index); ok {
				rec.BackgroundPath = path
			} else {
				log.Warn().Int("slide", rec.Index).Str("dir", dir).Msg("未找到背景图，使用空白背景")
			}
		}
		out[i] = rec
	}
	return out
}

// OutputName 返回第 index 张幻灯片的输出文件名。
func OutputName(index int) string {
	return fmt.Sprintf("final_slide_%02d.png", index)
}

var outputPattern = regexp.MustCompile(`^final_slide_(\d+)\.png$`)

// RenderedSlide 是磁盘上一张已渲染的幻灯片。
type RenderedSlide struct {
	Index int
	Path  string
}

// CollectRendered 收集 dir 中已渲染的幻灯片，序号取自文件名。
func CollectRendered(dir string) ([]RenderedSlide, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取目录 %s 失败: %w", dir, err)
	}
	var out []RenderedSlide
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := outputPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, RenderedSlide{Index: index, Path: filepath.Join(dir, e.Name())})
	}
	return out, nil
}
