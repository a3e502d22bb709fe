package slides

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Plan 是内容计划中的幻灯片列表，随附的社交文案不在此读取。
type Plan struct {
	Slides []SlideRecord
}

type planSlide struct {
	SlideNumber *slideNumber `json:"slide_number"`
	Title       string       `json:"title"`
	Topic       string       `json:"topic"`
	Content     string       `json:"content"`
	ImagePrompt string       `json:"image_prompt"`
	Background  string       `json:"background"`
}

type planObject struct {
	Slides []planSlide `json:"slides"`
}

// slideNumber 兼容数字与数字字符串两种写法。
type slideNumber int

func (n *slideNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("slide_number %s 不是整数", string(data))
	}
	*n = slideNumber(v)
	return nil
}

// ParsePlan 解析计划 JSON：既可以是幻灯片数组，也可以是带 slides 字段的对象。
// 标题取 title，缺失时回退到 topic；缺少 slide_number 的幻灯片按位置编号。
func ParsePlan(data []byte) (Plan, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Plan{}, ErrNoSlides
	}

	var (
		plan Plan
		raw  []planSlide
	)
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Plan{}, fmt.Errorf("解析计划 JSON 失败: %w", err)
		}
	} else {
		var obj planObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return Plan{}, fmt.Errorf("解析计划 JSON 失败: %w", err)
		}
		raw = obj.Slides
	}

	for i, s := range raw {
		index := i + 1
		if s.SlideNumber != nil {
			index = int(*s.SlideNumber)
		}
		title := s.Title
		if strings.TrimSpace(title) == "" {
			title = s.Topic
		}
		plan.Slides = append(plan.Slides, SlideRecord{
			Index:          index,
			Title:          title,
			Body:           s.Content,
			BackgroundPath: s.Background,
		})
	}
	if err := Validate(plan.Slides); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// LoadPlan 读取并解析计划文件。
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("读取计划 %s 失败: %w", path, err)
	}
	plan, err := ParsePlan(data)
	if err != nil {
		return Plan{}, fmt.Errorf("计划 %s: %w", path, err)
	}
	return plan, nil
}
