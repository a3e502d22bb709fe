package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDeck 表示没有可拼装的幻灯片；此时不会输出空文档。
	ErrEmptyDeck = errors.New("没有可拼装的幻灯片")
	// ErrDuplicateIndex 表示两张幻灯片序号相同，页序无法确定。
	ErrDuplicateIndex = errors.New("幻灯片序号重复")
)

// DecodeError 表示某张幻灯片图像无法读取或解码，整套拼装因此中止。
type DecodeError struct {
	Index int
	Path  string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("解码第 %d 张幻灯片 %s 失败: %v", e.Index, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
