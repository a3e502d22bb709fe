// Package deck 将逐张渲染的幻灯片图像按序号拼装为一份多页文档。
package deck

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SlideImage 是一张已渲染幻灯片的图像路径。
type SlideImage struct {
	Index int
	Path  string
}

// Deck 是拼装结果：输出文档路径与按页序排列的幻灯片，生成后不再修改。
type Deck struct {
	Path  string
	Pages []SlideImage
}

// Document 是逐页追加图像的分页文档。
type Document interface {
	AddPage(img image.Image) error
	Close() error
}

// DocumentFactory 在 w 上创建一份新文档。
type DocumentFactory func(w io.Writer) Document

// Assembler 负责排序、解码与写出文档。
type Assembler struct {
	newDocument DocumentFactory
}

// NewAssembler 创建输出 PDF 的拼装器。
func NewAssembler(opts PDFOptions) *Assembler {
	return NewAssemblerWith(func(w io.Writer) Document { return NewPDFDocument(w, opts) })
}

// NewAssemblerWith 使用自定义文档实现创建拼装器。
func NewAssemblerWith(factory DocumentFactory) *Assembler {
	return &Assembler{newDocument: factory}
}

// Assemble 按序号升序把 images 写成 outPath 处的一份文档，第 i 页即第 i 张图像的像素内容。
// 输入为空返回 ErrEmptyDeck；任何一张图像无法解码则返回 *DecodeError 且不留下输出文件。
func (a *Assembler) Assemble(images []SlideImage, outPath string) (Deck, error) {
	if len(images) == 0 {
		return Deck{}, ErrEmptyDeck
	}
	pages := append([]SlideImage(nil), images...)
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })
	for i := 1; i < len(pages); i++ {
		if pages[i].Index == pages[i-1].Index {
			return Deck{}, fmt.Errorf("%w: %d", ErrDuplicateIndex, pages[i].Index)
		}
	}

	var buf bytes.Buffer
	doc := a.newDocument(&buf)
	for _, page := range pages {
		img, err := decode(page)
		if err != nil {
			return Deck{}, err
		}
		if err := doc.AddPage(img); err != nil {
			return Deck{}, fmt.Errorf("写入第 %d 页失败: %w", page.Index, err)
		}
		log.Debug().Int("slide", page.Index).Str("path", page.Path).Msg("已加入页面")
	}
	if err := doc.Close(); err != nil {
		return Deck{}, fmt.Errorf("生成文档失败: %w", err)
	}

	if err := writeFileAtomic(outPath, buf.Bytes()); err != nil {
		return Deck{}, err
	}
	return Deck{Path: outPath, Pages: pages}, nil
}

// decode 读取图像并压平到不透明黑底上，满足文档的 RGB 色彩模型。
func decode(page SlideImage) (*image.NRGBA, error) {
	img, err := imaging.Open(page.Path)
	if err != nil {
		return nil, &DecodeError{Index: page.Index, Path: page.Path, Err: err}
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, &DecodeError{Index: page.Index, Path: page.Path, Err: fmt.Errorf("图像尺寸为空")}
	}
	flat := imaging.New(b.Dx(), b.Dy(), color.NRGBA{0, 0, 0, 255})
	return imaging.Overlay(flat, img, image.Pt(0, 0), 1.0), nil
}

// writeFileAtomic 先写同目录下的临时文件再重命名，失败时不留下半成品。
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}
