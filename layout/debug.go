package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将每张幻灯片的排版结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(slides []SlideLayout, path string) error {
	if len(slides) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(slides, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
