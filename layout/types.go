package layout

// 该文件定义排版引擎的输入输出类型，供合成器与调试 JSON 共用。

// StyledToken 是标记解析后的最小排版单元。
// Text 保留末尾的一个空格，行宽累计时无需再额外补空格。
type StyledToken struct {
	Text  string `json:"text"`
	Bold  bool   `json:"bold"`
	Break bool   `json:"break,omitempty"` // 该词之前有显式换行
	// Advance 由 Wrap 按字重测得（像素），解析阶段为 0。
	Advance float64 `json:"advance,omitempty"`
}

// Word 返回去掉末尾空格后的单词。
func (t StyledToken) Word() string {
	if n := len(t.Text); n > 0 && t.Text[n-1] == ' ' {
		return t.Text[:n-1]
	}
	return t.Text
}

// LayoutLine 表示折行后的一行。行只追加、分配后不会重排。
type LayoutLine struct {
	Tokens   []StyledToken `json:"tokens"`
	Width    float64       `json:"width"`
	Baseline float64       `json:"baseline"`
}

// Text 以单个空格拼接本行单词。
func (l LayoutLine) Text() string {
	out := make([]byte, 0, 64)
	for i, tok := range l.Tokens {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, tok.Word()...)
	}
	return string(out)
}

// Block 是一段文字（标题或正文）放置后的结果。
type Block struct {
	Lines      []LayoutLine `json:"lines"`
	FontSize   float64      `json:"fontSize"`
	LineHeight float64      `json:"lineHeight"`
	// NextY 为最后一条已放置行之后的下一条基线。
	NextY float64 `json:"nextY"`
	// Dropped 记录因越过安全底线而被截断的行数。
	Dropped int `json:"dropped,omitempty"`
}

// Truncated 报告是否有行因越过安全底线被丢弃。
func (b Block) Truncated() bool { return b.Dropped > 0 }

// LastBaseline 返回最后一条已放置行的基线；没有行时返回起始基线。
func (b Block) LastBaseline() float64 {
	if len(b.Lines) == 0 {
		return b.NextY
	}
	return b.Lines[len(b.Lines)-1].Baseline
}

// SlideLayout 记录一张幻灯片的标题与正文排版，主要用于调试输出。
type SlideLayout struct {
	Index int   `json:"index"`
	Title Block `json:"title"`
	Body  Block `json:"body"`
}

// Metrics 负责测量文本，由渲染后端实现。
type Metrics interface {
	// Advance 返回 text 在给定字号（像素）与字重下的前进宽度（像素）。
	Advance(text string, bold bool, size float64) float64
	// Extents 返回给定字号下的上升部与下降部（像素，均为正值）。
	Extents(bold bool, size float64) (ascent, descent float64)
}

// Options 配置一次排版：宽度预算、字号、行距与纵向边界。
type Options struct {
	MaxWidth    float64 // 行宽上限（像素），必须为正
	FontSize    float64 // 字号（像素），必须为正
	LineSpacing float64 // 基线间距 = FontSize × LineSpacing；<=0 时取 DefaultLineSpacing
	StartY      float64 // 首行基线
	SafeBottom  float64 // 基线超过此值的行不渲染；<=0 表示不限制
	ForceBold   bool    // 所有词按粗体测量与绘制
}
